package progress

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, queueSize int) (*Service, chan Batch) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queue := make(chan Batch, queueSize)
	return NewService(client, queue, zerolog.Nop()), queue
}

func someBatch(userID uuid.UUID, correct ...bool) Batch {
	records := make([]Record, 0, len(correct))
	for i, ok := range correct {
		records = append(records, Record{
			QuestionID:  uuid.NewString(),
			Answer:      "a",
			IsCorrect:   ok,
			TimeSpentMS: 1000 + i,
		})
	}
	return Batch{UserID: userID, SessionID: uuid.New(), Records: records}
}

func TestRecordUpdatesStatsAndEnqueues(t *testing.T) {
	svc, queue := newTestService(t, 4)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Record(ctx, someBatch(userID, true, true, false, true)))

	stats, err := svc.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Answered)
	assert.Equal(t, 3, stats.Correct)
	assert.Equal(t, 75, stats.Accuracy)
	assert.Equal(t, 1, stats.Streak)
	assert.Equal(t, 2, stats.BestStreak)

	require.Len(t, queue, 1)
	got := <-queue
	assert.Equal(t, userID, got.UserID)
	assert.Len(t, got.Records, 4)
}

func TestRecordAccumulatesAcrossBatches(t *testing.T) {
	svc, _ := newTestService(t, 8)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Record(ctx, someBatch(userID, true, false)))
	require.NoError(t, svc.Record(ctx, someBatch(userID, true, true, true)))

	stats, err := svc.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Answered)
	assert.Equal(t, 4, stats.Correct)
	assert.Equal(t, 80, stats.Accuracy)
	assert.Equal(t, 3, stats.Streak)
	assert.Equal(t, 3, stats.BestStreak)
}

func TestRecordEmptyBatchIsNoop(t *testing.T) {
	svc, queue := newTestService(t, 1)

	require.NoError(t, svc.Record(context.Background(), Batch{UserID: uuid.New()}))
	assert.Len(t, queue, 0)
}

func TestRecordQueueFullIsDelayedNotFailed(t *testing.T) {
	svc, queue := newTestService(t, 1)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Record(ctx, someBatch(userID, true)))

	// Queue is full; stats still update but history flush is delayed.
	err := svc.Record(ctx, someBatch(userID, false))
	assert.ErrorIs(t, err, ErrFlushDelayed)

	stats, err := svc.Stats(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Answered)
	assert.Len(t, queue, 1)
}

func TestStatsUnknownUser(t *testing.T) {
	svc, _ := newTestService(t, 1)

	stats, err := svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}
