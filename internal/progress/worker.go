package progress

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/db/repository"
	"github.com/wordplaylabs/wordquest/internal/metrics"
)

type historyStore interface {
	InsertAnswerEvents(ctx context.Context, events []repository.AnswerEventParams) error
}

// FlushWorker drains the progress queue into Postgres. Failed flushes are
// logged and counted, not retried: the source of truth for the session flow
// is the in-memory session; history is best effort.
type FlushWorker struct {
	store   historyStore
	queue   <-chan Batch
	timeout time.Duration
	logger  zerolog.Logger
}

func NewFlushWorker(store historyStore, queue <-chan Batch, timeout time.Duration, logger zerolog.Logger) *FlushWorker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FlushWorker{
		store:   store,
		queue:   queue,
		timeout: timeout,
		logger:  logger.With().Str("component", "progress_flush_worker").Logger(),
	}
}

// Run blocks until context cancellation.
func (w *FlushWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch := <-w.queue:
			w.flush(ctx, batch)
		}
	}
}

func (w *FlushWorker) flush(ctx context.Context, batch Batch) {
	flushCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	events := make([]repository.AnswerEventParams, 0, len(batch.Records))
	for _, rec := range batch.Records {
		events = append(events, repository.AnswerEventParams{
			UserID:      batch.UserID,
			SessionID:   batch.SessionID,
			QuestionID:  rec.QuestionID,
			Answer:      rec.Answer,
			IsCorrect:   rec.IsCorrect,
			TimeSpentMS: rec.TimeSpentMS,
		})
	}

	if err := w.store.InsertAnswerEvents(flushCtx, events); err != nil {
		metrics.ProgressFlushFailures.Inc()
		w.logger.Warn().Err(err).
			Str("user_id", batch.UserID.String()).
			Int("records", len(events)).
			Msg("history flush failed")
		return
	}

	w.logger.Debug().Str("user_id", batch.UserID.String()).Int("records", len(events)).Msg("history flushed")
}
