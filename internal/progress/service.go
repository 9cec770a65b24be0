package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/metrics"
)

// ErrFlushDelayed signals the history queue was full; stats were still
// updated and the caller may proceed. Surfaced as a warning, never a failure.
var ErrFlushDelayed = errors.New("progress flush delayed")

// Record is one answered question reported for progress tracking.
type Record struct {
	QuestionID  string `json:"question_id"`
	Answer      string `json:"answer"`
	IsCorrect   bool   `json:"is_correct"`
	TimeSpentMS int    `json:"time_spent_ms"`
}

// Batch groups records from one session for one user.
type Batch struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Records   []Record
}

// Stats is the cumulative per-user progress view.
type Stats struct {
	Answered   int `json:"answered"`
	Correct    int `json:"correct"`
	Accuracy   int `json:"accuracy"`
	Streak     int `json:"streak"`
	BestStreak int `json:"best_streak"`
}

// Service accepts answer history with best-effort semantics: cumulative stats
// update synchronously in Redis, history rows flush to Postgres through an
// async queue. Nothing here blocks the player's path to the result screen.
type Service struct {
	redis  *redis.Client
	queue  chan<- Batch
	logger zerolog.Logger
}

func NewService(redisClient *redis.Client, queue chan<- Batch, logger zerolog.Logger) *Service {
	return &Service{
		redis:  redisClient,
		queue:  queue,
		logger: logger.With().Str("component", "progress_service").Logger(),
	}
}

func statsKey(userID uuid.UUID) string {
	return fmt.Sprintf("progress:stats:%s", userID.String())
}

// Record updates cumulative stats and enqueues the batch for history flush.
func (s *Service) Record(ctx context.Context, batch Batch) error {
	if len(batch.Records) == 0 {
		return nil
	}

	if err := s.updateStats(ctx, batch); err != nil {
		s.logger.Warn().Err(err).Str("user_id", batch.UserID.String()).Msg("stats update failed")
	}

	select {
	case s.queue <- batch:
		return nil
	default:
		metrics.ProgressFlushFailures.Inc()
		s.logger.Warn().Str("user_id", batch.UserID.String()).Int("records", len(batch.Records)).Msg("history queue full, flush delayed")
		return ErrFlushDelayed
	}
}

func (s *Service) updateStats(ctx context.Context, batch Batch) error {
	key := statsKey(batch.UserID)

	fields, err := s.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("read stats: %w", err)
	}

	answered := atoi(fields["answered"])
	correct := atoi(fields["correct"])
	streak := atoi(fields["streak"])
	best := atoi(fields["best_streak"])

	for _, rec := range batch.Records {
		answered++
		if rec.IsCorrect {
			correct++
			streak++
			if streak > best {
				best = streak
			}
		} else {
			streak = 0
		}
	}

	return s.redis.HSet(ctx, key, map[string]interface{}{
		"answered":    answered,
		"correct":     correct,
		"streak":      streak,
		"best_streak": best,
	}).Err()
}

// Stats returns the cumulative progress view for a user.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	fields, err := s.redis.HGetAll(ctx, statsKey(userID)).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}

	answered := atoi(fields["answered"])
	correct := atoi(fields["correct"])

	accuracy := 0
	if answered > 0 {
		accuracy = (correct*100 + answered/2) / answered
	}

	return Stats{
		Answered:   answered,
		Correct:    correct,
		Accuracy:   accuracy,
		Streak:     atoi(fields["streak"]),
		BestStreak: atoi(fields["best_streak"]),
	}, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
