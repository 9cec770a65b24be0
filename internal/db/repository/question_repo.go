package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRow mirrors one curated question record.
type QuestionRow struct {
	QuestionID    string
	Prompt        string
	AudioPrompt   string
	Difficulty    string
	Options       []string
	CorrectAnswer string
	Hint          string
	CollectionID  string
}

// CollectionRow mirrors one collection with its question count.
type CollectionRow struct {
	CollectionID  string
	Name          string
	QuestionCount int
}

// QuestionRepository provides curated question access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// FetchBatch retrieves curated questions matching difficulty and optional collection.
func (r *QuestionRepository) FetchBatch(ctx context.Context, difficulty, collectionID string, limit, offset int) ([]QuestionRow, error) {
	const q = `
		SELECT question_id::text, prompt, COALESCE(audio_prompt, ''), difficulty,
		       options, correct_answer, COALESCE(hint, ''), COALESCE(collection_id::text, '')
		FROM questions
		WHERE difficulty = $1
		  AND ($2 = '' OR collection_id::text = $2)
		ORDER BY position, question_id
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, q, difficulty, collectionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []QuestionRow
	for rows.Next() {
		var row QuestionRow
		if err := rows.Scan(&row.QuestionID, &row.Prompt, &row.AudioPrompt, &row.Difficulty,
			&row.Options, &row.CorrectAnswer, &row.Hint, &row.CollectionID); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListCollections returns all collections with their question counts.
func (r *QuestionRepository) ListCollections(ctx context.Context) ([]CollectionRow, error) {
	const q = `
		SELECT c.collection_id::text, c.name, COUNT(q.question_id)
		FROM collections c
		LEFT JOIN questions q ON q.collection_id = c.collection_id
		GROUP BY c.collection_id, c.name
		ORDER BY c.name`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var out []CollectionRow
	for rows.Next() {
		var row CollectionRow
		if err := rows.Scan(&row.CollectionID, &row.Name, &row.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
