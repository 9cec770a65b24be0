package question

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordplaylabs/wordquest/internal/db/repository"
	"github.com/wordplaylabs/wordquest/internal/question/external"
)

type stubCuratedStore struct {
	fetchCalls int
	fetch      func(ctx context.Context, difficulty, collectionID string, limit, offset int) ([]repository.QuestionRow, error)
	list       func(ctx context.Context) ([]repository.CollectionRow, error)
}

func (s *stubCuratedStore) FetchBatch(ctx context.Context, difficulty, collectionID string, limit, offset int) ([]repository.QuestionRow, error) {
	s.fetchCalls++
	return s.fetch(ctx, difficulty, collectionID, limit, offset)
}

func (s *stubCuratedStore) ListCollections(ctx context.Context) ([]repository.CollectionRow, error) {
	return s.list(ctx)
}

type stubWordBank struct {
	calls     int
	questions []external.WordBankQuestion
	err       error
}

func (s *stubWordBank) Fetch(_ context.Context, amount int, difficulty, collectionID string) ([]external.WordBankQuestion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if amount > len(s.questions) {
		amount = len(s.questions)
	}
	return s.questions[:amount], nil
}

type memoryCache struct {
	store map[string]BatchResponse
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string]BatchResponse{}}
}

func (c *memoryCache) key(req BatchRequest) string {
	return strings.Join([]string{req.Difficulty, req.CollectionID, fmt.Sprint(req.Limit), fmt.Sprint(req.Offset)}, ":")
}

func (c *memoryCache) Get(_ context.Context, req BatchRequest) (*BatchResponse, error) {
	if val, ok := c.store[c.key(req)]; ok {
		return &val, nil
	}
	return nil, nil
}

func (c *memoryCache) Set(_ context.Context, req BatchRequest, resp BatchResponse) error {
	c.store[c.key(req)] = resp
	return nil
}

func curatedRows(n int) []repository.QuestionRow {
	rows := make([]repository.QuestionRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, repository.QuestionRow{
			QuestionID:    fmt.Sprintf("q%d", i+1),
			Prompt:        fmt.Sprintf("word %d", i+1),
			Difficulty:    DifficultyEasy,
			Options:       []string{"a", "b", "c"},
			CorrectAnswer: fmt.Sprintf("answer%d", i+1),
		})
	}
	return rows
}

func wordBankQuestions(n int) []external.WordBankQuestion {
	qs := make([]external.WordBankQuestion, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, external.WordBankQuestion{
			ID:         fmt.Sprintf("wb%d", i+1),
			Word:       fmt.Sprintf("bank word %d", i+1),
			Difficulty: DifficultyEasy,
			Choices:    []string{"x", "y", "z"},
			Answer:     fmt.Sprintf("bank answer %d", i+1),
		})
	}
	return qs
}

func TestFetchBatchCuratedOnly(t *testing.T) {
	repo := &stubCuratedStore{
		fetch: func(_ context.Context, difficulty, collectionID string, limit, offset int) ([]repository.QuestionRow, error) {
			assert.Equal(t, DifficultyEasy, difficulty)
			return curatedRows(limit), nil
		},
	}
	wordBank := &stubWordBank{questions: wordBankQuestions(5)}
	svc := NewService(repo, nil, wordBank)

	resp, err := svc.FetchBatch(context.Background(), BatchRequest{Difficulty: DifficultyEasy, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 5)
	assert.Equal(t, "curated", resp.Questions[0].Source)
	assert.Equal(t, 0, wordBank.calls, "word bank should not be hit when curated pool suffices")
}

func TestFetchBatchFallsBackToWordBank(t *testing.T) {
	repo := &stubCuratedStore{
		fetch: func(_ context.Context, _, _ string, _, _ int) ([]repository.QuestionRow, error) {
			return curatedRows(2), nil
		},
	}
	wordBank := &stubWordBank{questions: wordBankQuestions(10)}
	svc := NewService(repo, nil, wordBank)

	resp, err := svc.FetchBatch(context.Background(), BatchRequest{Difficulty: DifficultyEasy, Limit: 5})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 5)
	assert.Equal(t, 1, wordBank.calls)
	assert.Equal(t, "curated", resp.Questions[0].Source)
	assert.Equal(t, "wordbank", resp.Questions[2].Source)
	assert.Equal(t, "bank word 1", resp.Questions[2].Prompt)
}

func TestFetchBatchWordBankErrorIgnored(t *testing.T) {
	repo := &stubCuratedStore{
		fetch: func(_ context.Context, _, _ string, _, _ int) ([]repository.QuestionRow, error) {
			return curatedRows(2), nil
		},
	}
	wordBank := &stubWordBank{err: errors.New("wordbank down")}
	svc := NewService(repo, nil, wordBank)

	resp, err := svc.FetchBatch(context.Background(), BatchRequest{Difficulty: DifficultyEasy, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 2)
}

func TestFetchBatchFiltersMalformed(t *testing.T) {
	rows := curatedRows(3)
	rows[1].CorrectAnswer = ""
	repo := &stubCuratedStore{
		fetch: func(_ context.Context, _, _ string, _, _ int) ([]repository.QuestionRow, error) {
			return rows, nil
		},
	}
	svc := NewService(repo, nil, nil)

	resp, err := svc.FetchBatch(context.Background(), BatchRequest{Difficulty: DifficultyEasy, Limit: 3})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, "q1", resp.Questions[0].ID)
	assert.Equal(t, "q3", resp.Questions[1].ID)
}

func TestFetchBatchNoQuestions(t *testing.T) {
	repo := &stubCuratedStore{
		fetch: func(_ context.Context, _, _ string, _, _ int) ([]repository.QuestionRow, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, nil, &stubWordBank{})

	_, err := svc.FetchBatch(context.Background(), BatchRequest{Difficulty: DifficultyHard, Limit: 5})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestFetchBatchRepoError(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &stubCuratedStore{
		fetch: func(_ context.Context, _, _ string, _, _ int) ([]repository.QuestionRow, error) {
			return nil, repoErr
		},
	}
	svc := NewService(repo, nil, nil)

	_, err := svc.FetchBatch(context.Background(), BatchRequest{Difficulty: DifficultyEasy, Limit: 5})
	assert.ErrorIs(t, err, repoErr)
}

func TestFetchBatchUsesCache(t *testing.T) {
	repo := &stubCuratedStore{
		fetch: func(_ context.Context, _, _ string, limit, _ int) ([]repository.QuestionRow, error) {
			return curatedRows(limit), nil
		},
	}
	svc := NewService(repo, newMemoryCache(), nil)

	req := BatchRequest{Difficulty: DifficultyEasy, Limit: 4}
	first, err := svc.FetchBatch(context.Background(), req)
	require.NoError(t, err)

	second, err := svc.FetchBatch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.fetchCalls)
	assert.Equal(t, first.Questions, second.Questions)
}

func TestCollections(t *testing.T) {
	repo := &stubCuratedStore{
		list: func(_ context.Context) ([]repository.CollectionRow, error) {
			return []repository.CollectionRow{
				{CollectionID: "c1", Name: "Animals", QuestionCount: 12},
				{CollectionID: "c2", Name: "Colors", QuestionCount: 8},
			}, nil
		},
	}
	svc := NewService(repo, nil, nil)

	cols, err := svc.Collections(context.Background())
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "Animals", cols[0].Name)
	assert.Equal(t, 12, cols[0].QuestionCount)
}
