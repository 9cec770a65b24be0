package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordplaylabs/wordquest/internal/db/repository"
)

type stubHistoryStore struct {
	mu       sync.Mutex
	inserted [][]repository.AnswerEventParams
	err      error
	notify   chan struct{}
}

func (s *stubHistoryStore) InsertAnswerEvents(_ context.Context, events []repository.AnswerEventParams) error {
	s.mu.Lock()
	s.inserted = append(s.inserted, events)
	s.mu.Unlock()
	if s.notify != nil {
		s.notify <- struct{}{}
	}
	return s.err
}

func TestFlushWorkerWritesHistory(t *testing.T) {
	store := &stubHistoryStore{notify: make(chan struct{}, 1)}
	queue := make(chan Batch, 1)
	worker := NewFlushWorker(store, queue, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	userID := uuid.New()
	sessionID := uuid.New()
	queue <- Batch{
		UserID:    userID,
		SessionID: sessionID,
		Records: []Record{
			{QuestionID: "q1", Answer: "cat", IsCorrect: true, TimeSpentMS: 1200},
			{QuestionID: "q2", Answer: "dg", IsCorrect: false, TimeSpentMS: 800},
		},
	}

	select {
	case <-store.notify:
	case <-time.After(time.Second):
		t.Fatal("flush never reached the store")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.inserted, 1)
	events := store.inserted[0]
	require.Len(t, events, 2)
	assert.Equal(t, userID, events[0].UserID)
	assert.Equal(t, sessionID, events[0].SessionID)
	assert.Equal(t, "q1", events[0].QuestionID)
	assert.True(t, events[0].IsCorrect)
	assert.Equal(t, "q2", events[1].QuestionID)
}

func TestFlushWorkerSurvivesStoreErrors(t *testing.T) {
	store := &stubHistoryStore{err: errors.New("db down"), notify: make(chan struct{}, 2)}
	queue := make(chan Batch, 2)
	worker := NewFlushWorker(store, queue, time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	for i := 0; i < 2; i++ {
		queue <- Batch{UserID: uuid.New(), SessionID: uuid.New(), Records: []Record{{QuestionID: "q1"}}}
	}

	for i := 0; i < 2; i++ {
		select {
		case <-store.notify:
		case <-time.After(time.Second):
			t.Fatal("worker stopped after a flush error")
		}
	}
}

func TestFlushWorkerStopsOnCancel(t *testing.T) {
	worker := NewFlushWorker(&stubHistoryStore{}, make(chan Batch), time.Second, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := worker.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
