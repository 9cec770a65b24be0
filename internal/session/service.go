package session

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/metrics"
	"github.com/wordplaylabs/wordquest/internal/question"
)

// ErrForbidden is returned when a caller touches another user's session.
var ErrForbidden = errors.New("session owned by another user")

type batchFetcher interface {
	Fetch(ctx context.Context, req question.BatchRequest) (question.BatchResponse, error)
}

// FeedPublisher receives session events for the live feed.
// Implementations must not block; a nil publisher disables the feed.
type FeedPublisher interface {
	SessionAnswered(sessionID uuid.UUID, outcome SubmitOutcome)
	SessionCompleted(sessionID uuid.UUID, result Result)
}

// Service drives the session lifecycle: initialize from a fetched batch,
// submit answers, navigate, and project results.
type Service struct {
	fetcher batchFetcher
	store   *Store
	feed    FeedPublisher
	target  int
	logger  zerolog.Logger
}

// ServiceOptions configures the session service.
type ServiceOptions struct {
	TargetQuestionCount int
	Feed                FeedPublisher
}

func NewService(fetcher batchFetcher, store *Store, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.TargetQuestionCount <= 0 {
		opts.TargetQuestionCount = DefaultTargetQuestionCount
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		feed:    opts.Feed,
		target:  opts.TargetQuestionCount,
		logger:  logger.With().Str("component", "session_service").Logger(),
	}
}

// Create fetches a question batch and installs a fresh session for the owner.
// Each call claims a new generation; if a newer Create for the same owner
// begins while this one is still fetching, the slow result is discarded.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, settings Settings) (*Session, error) {
	if err := settings.Normalize(); err != nil {
		return nil, err
	}

	gen := s.store.Begin(owner)

	// Over-fetch so record filtering still leaves a full run.
	resp, err := s.fetcher.Fetch(ctx, question.BatchRequest{
		Difficulty:   settings.Difficulty,
		Limit:        2 * s.target,
		CollectionID: settings.CollectionID,
	})
	if err != nil {
		return nil, err
	}

	sess, err := New(owner, settings, resp.Questions, s.target)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(owner, gen, sess); err != nil {
		s.logger.Debug().
			Str("owner_id", owner.String()).
			Uint64("generation", gen).
			Msg("stale initialization discarded")
		return nil, err
	}

	metrics.SessionsStarted.Inc()
	s.logger.Info().
		Str("session_id", sess.ID().String()).
		Str("owner_id", owner.String()).
		Str("difficulty", settings.Difficulty).
		Str("strategy", settings.Strategy).
		Int("questions", len(sess.questions)).
		Msg("session created")
	return sess, nil
}

// Get returns the owner's session by id.
func (s *Service) Get(id, owner uuid.UUID) (*Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.OwnerID() != owner {
		return nil, ErrForbidden
	}
	return sess, nil
}

// Submit records an answer on the session's current question.
func (s *Service) Submit(id, owner uuid.UUID, raw string) (SubmitOutcome, error) {
	sess, err := s.Get(id, owner)
	if err != nil {
		return SubmitOutcome{}, err
	}

	outcome, err := sess.Submit(raw)
	if err != nil {
		return SubmitOutcome{}, err
	}

	metrics.AnswersSubmitted.WithLabelValues(strconv.FormatBool(outcome.Correct)).Inc()
	if s.feed != nil {
		s.feed.SessionAnswered(id, outcome)
	}
	return outcome, nil
}

// Advance moves to the next question; reaching the end completes the session.
func (s *Service) Advance(id, owner uuid.UUID) (bool, error) {
	sess, err := s.Get(id, owner)
	if err != nil {
		return false, err
	}

	wasComplete := sess.Complete()
	complete := sess.Next()
	if complete && !wasComplete {
		metrics.SessionsCompleted.Inc()
		if s.feed != nil {
			s.feed.SessionCompleted(id, sess.Result())
		}
	}
	return complete, nil
}

// Rewind moves back one question, floored at the first.
func (s *Service) Rewind(id, owner uuid.UUID) error {
	sess, err := s.Get(id, owner)
	if err != nil {
		return err
	}
	sess.Previous()
	return nil
}

// Result projects the session into totals. Available at any point; the
// session stays in the store until replaced or swept.
func (s *Service) Result(id, owner uuid.UUID) (Result, error) {
	sess, err := s.Get(id, owner)
	if err != nil {
		return Result{}, err
	}
	return sess.Result(), nil
}
