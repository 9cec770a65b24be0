package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnswerEventParams holds one answer-history record to persist.
type AnswerEventParams struct {
	UserID      uuid.UUID
	SessionID   uuid.UUID
	QuestionID  string
	Answer      string
	IsCorrect   bool
	TimeSpentMS int
}

// ProgressRepository persists answer history for progress tracking.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// InsertAnswerEvents writes a batch of answer records in one round trip.
func (r *ProgressRepository) InsertAnswerEvents(ctx context.Context, events []AnswerEventParams) error {
	if len(events) == 0 {
		return nil
	}

	const q = `
		INSERT INTO answer_events (user_id, session_id, question_id, answer, is_correct, time_spent_ms)
		VALUES ($1, $2, $3, $4, $5, $6)`

	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(q, ev.UserID, ev.SessionID, ev.QuestionID, ev.Answer, ev.IsCorrect, ev.TimeSpentMS)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert answer event: %w", err)
		}
	}
	return nil
}
