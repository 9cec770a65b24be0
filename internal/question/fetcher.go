package question

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxAttempts  = 3
	defaultBackoffStep  = time.Second
)

type batchSource interface {
	FetchBatch(ctx context.Context, req BatchRequest) (BatchResponse, error)
}

// Fetcher wraps a batch source with a per-attempt timeout and bounded retry.
// Backoff grows linearly: step x attempt number.
type Fetcher struct {
	source      batchSource
	timeout     time.Duration
	maxAttempts int
	backoffStep time.Duration
	onRetry     func(attempt int)
	logger      zerolog.Logger
}

// FetcherOptions configures timeout/retry behavior. Zero values take defaults.
type FetcherOptions struct {
	Timeout     time.Duration
	MaxAttempts int
	BackoffStep time.Duration
	OnRetry     func(attempt int) // called once per scheduled retry
}

func NewFetcher(source batchSource, opts FetcherOptions, logger zerolog.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BackoffStep <= 0 {
		opts.BackoffStep = defaultBackoffStep
	}
	return &Fetcher{
		source:      source,
		timeout:     opts.Timeout,
		maxAttempts: opts.MaxAttempts,
		backoffStep: opts.BackoffStep,
		onRetry:     opts.OnRetry,
		logger:      logger.With().Str("component", "question_fetcher").Logger(),
	}
}

// Fetch attempts the batch fetch, retrying transient failures. ErrNoQuestions
// is terminal and returned as-is.
func (f *Fetcher) Fetch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	var resp BatchResponse
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(f.maxAttempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		if f.onRetry != nil {
			f.onRetry(attempt)
		}
		delay := time.Duration(attempt) * f.backoffStep
		f.logger.Warn().Int("retry", attempt).Dur("backoff", delay).Msg("question fetch retrying")
		return delay, false
	}))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		r, err := f.source.FetchBatch(attemptCtx, req)
		if err != nil {
			if errors.Is(err, ErrNoQuestions) {
				return err
			}
			return retry.RetryableError(err)
		}
		resp = r
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoQuestions) {
			return BatchResponse{}, err
		}
		return BatchResponse{}, fmt.Errorf("fetch questions after %d attempts: %w", f.maxAttempts, err)
	}
	return resp, nil
}
