package question

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySource struct {
	calls    int
	failures int
	err      error
	resp     BatchResponse
}

func (s *flakySource) FetchBatch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	s.calls++
	if s.calls <= s.failures {
		return BatchResponse{}, s.err
	}
	return s.resp, nil
}

func fastOptions(onRetry func(int)) FetcherOptions {
	return FetcherOptions{
		Timeout:     time.Second,
		MaxAttempts: 3,
		BackoffStep: time.Millisecond,
		OnRetry:     onRetry,
	}
}

func TestFetcherSucceedsFirstAttempt(t *testing.T) {
	source := &flakySource{resp: BatchResponse{Questions: []Question{{ID: "q1"}}}}
	fetcher := NewFetcher(source, fastOptions(nil), zerolog.Nop())

	resp, err := fetcher.Fetch(context.Background(), BatchRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 1)
	assert.Equal(t, 1, source.calls)
}

func TestFetcherRetriesTransientFailures(t *testing.T) {
	source := &flakySource{
		failures: 2,
		err:      errors.New("connection reset"),
		resp:     BatchResponse{Questions: []Question{{ID: "q1"}}},
	}

	var notified []int
	fetcher := NewFetcher(source, fastOptions(func(attempt int) {
		notified = append(notified, attempt)
	}), zerolog.Nop())

	resp, err := fetcher.Fetch(context.Background(), BatchRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 1)
	assert.Equal(t, 3, source.calls)

	// One notification per scheduled retry, numbered from 1.
	assert.Equal(t, []int{1, 2}, notified)
}

func TestFetcherExhaustsAttempts(t *testing.T) {
	upstreamErr := errors.New("connection reset")
	source := &flakySource{failures: 10, err: upstreamErr}

	retries := 0
	fetcher := NewFetcher(source, fastOptions(func(int) { retries++ }), zerolog.Nop())

	_, err := fetcher.Fetch(context.Background(), BatchRequest{Limit: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, upstreamErr)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, source.calls)
	assert.Equal(t, 2, retries)
}

func TestFetcherNoQuestionsIsTerminal(t *testing.T) {
	source := &flakySource{failures: 10, err: ErrNoQuestions}

	retries := 0
	fetcher := NewFetcher(source, fastOptions(func(int) { retries++ }), zerolog.Nop())

	_, err := fetcher.Fetch(context.Background(), BatchRequest{Limit: 1})
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 0, retries)
}

func TestFetcherRespectsContextCancel(t *testing.T) {
	source := &flakySource{failures: 10, err: errors.New("slow upstream")}
	fetcher := NewFetcher(source, FetcherOptions{
		Timeout:     time.Second,
		MaxAttempts: 3,
		BackoffStep: time.Minute,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := fetcher.Fetch(ctx, BatchRequest{Limit: 1})
	require.Error(t, err)
	assert.Equal(t, 1, source.calls)
}
