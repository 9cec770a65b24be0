package question

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wordplaylabs/wordquest/internal/db/repository"
	"github.com/wordplaylabs/wordquest/internal/question/external"
)

// ErrNoQuestions signals that no usable questions exist for a request.
// It is terminal: retrying the same request will not help.
var ErrNoQuestions = errors.New("no questions available")

// BatchCache defines cache behavior (implemented by Redis-backed Cache).
type BatchCache interface {
	Get(ctx context.Context, req BatchRequest) (*BatchResponse, error)
	Set(ctx context.Context, req BatchRequest, resp BatchResponse) error
}

type curatedStore interface {
	FetchBatch(ctx context.Context, difficulty, collectionID string, limit, offset int) ([]repository.QuestionRow, error)
	ListCollections(ctx context.Context) ([]repository.CollectionRow, error)
}

type wordBankProvider interface {
	Fetch(ctx context.Context, amount int, difficulty, collectionID string) ([]external.WordBankQuestion, error)
}

// Service orchestrates access to the curated DB with a word-bank API fallback.
// Payloads are validated once here; everything downstream trusts the batch.
type Service struct {
	repo     curatedStore
	cache    BatchCache
	wordBank wordBankProvider
}

func NewService(repo curatedStore, cache BatchCache, wordBank wordBankProvider) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		wordBank: wordBank,
	}
}

// FetchBatch returns a validated question batch, preferring curated questions
// and falling back to the word-bank API when the pool runs short.
func (s *Service) FetchBatch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, req); err == nil && cached != nil {
			return *cached, nil
		}
	}

	rows, err := s.repo.FetchBatch(ctx, req.Difficulty, req.CollectionID, req.Limit, req.Offset)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("curated fetch: %w", err)
	}

	result := make([]Question, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomain(row))
	}

	if len(result) < req.Limit && s.wordBank != nil {
		if fallback, err := s.wordBank.Fetch(ctx, req.Limit-len(result), req.Difficulty, req.CollectionID); err == nil {
			for _, q := range fallback {
				result = append(result, normalizeWordBank(q))
			}
		}
	}

	result = FilterUsable(result)
	if len(result) == 0 {
		return BatchResponse{}, ErrNoQuestions
	}

	resp := BatchResponse{
		Questions: result,
		ExpiresAt: time.Now().Add(10 * time.Minute).Unix(),
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, req, resp)
	}

	return resp, nil
}

// Collections lists available question collections.
func (s *Service) Collections(ctx context.Context) ([]Collection, error) {
	rows, err := s.repo.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	out := make([]Collection, 0, len(rows))
	for _, row := range rows {
		out = append(out, Collection{
			ID:            row.CollectionID,
			Name:          row.Name,
			QuestionCount: row.QuestionCount,
		})
	}
	return out, nil
}

func toDomain(row repository.QuestionRow) Question {
	return Question{
		ID:           row.QuestionID,
		Prompt:       row.Prompt,
		AudioPrompt:  row.AudioPrompt,
		Difficulty:   row.Difficulty,
		Options:      row.Options,
		Answer:       row.CorrectAnswer,
		Hint:         row.Hint,
		CollectionID: row.CollectionID,
		Source:       "curated",
	}
}

func normalizeWordBank(q external.WordBankQuestion) Question {
	return Question{
		ID:           q.ID,
		Prompt:       q.Word,
		AudioPrompt:  q.AudioText,
		Difficulty:   q.Difficulty,
		Options:      q.Choices,
		Answer:       q.Answer,
		Hint:         q.Hint,
		CollectionID: q.CollectionID,
		Source:       "wordbank",
	}
}
