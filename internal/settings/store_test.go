package settings

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordplaylabs/wordquest/internal/question"
	"github.com/wordplaylabs/wordquest/internal/session"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestGetUnsetReturnsDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
	assert.Equal(t, session.QuestionTypeText, got.QuestionType)
	assert.Equal(t, question.DifficultyEasy, got.Difficulty)
}

func TestPutGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	want := session.Settings{
		QuestionType: session.QuestionTypeAudio,
		AnswerType:   session.AnswerTypeFill,
		Difficulty:   question.DifficultyHard,
		Strategy:     session.StrategyRandom,
	}
	require.NoError(t, store.Put(ctx, userID, want))

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Another user still sees defaults.
	other, err := store.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), other)
}

func TestPutRejectsInvalidSettings(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Put(context.Background(), uuid.New(), session.Settings{Difficulty: "nightmare"})
	assert.ErrorIs(t, err, session.ErrInvalidSettings)
}

func TestGetCorruptValueFallsBackToDefaults(t *testing.T) {
	store, mr := newTestStore(t)
	userID := uuid.New()

	// A stored value that no longer passes validation.
	require.NoError(t, mr.Set("settings:"+userID.String(), `{"difficulty":"nightmare"}`))

	got, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), got)
}
