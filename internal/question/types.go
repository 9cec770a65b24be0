package question

// Difficulty constants for readability.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Selection strategies for ordering a fetched batch.
const (
	StrategySequential = "sequential"
	StrategyRandom     = "random"
)

// minOptions is the smallest choice set a usable question may carry.
const minOptions = 3

// Question represents a normalized vocabulary question. Immutable once fetched.
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	AudioPrompt  string   `json:"audio_prompt,omitempty"`
	Difficulty   string   `json:"difficulty"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer,omitempty"` // server-side only
	Hint         string   `json:"hint,omitempty"`
	CollectionID string   `json:"collection_id,omitempty"`
	Source       string   `json:"source"`
}

// BatchRequest describes one question batch fetch.
type BatchRequest struct {
	Difficulty   string
	Limit        int
	Offset       int
	CollectionID string
}

// BatchResponse holds fetched questions and metadata.
type BatchResponse struct {
	Questions []Question
	ExpiresAt int64
}

// Collection groups questions under an external identifier (word list, textbook unit).
type Collection struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// IsValidDifficulty reports whether d is one of the supported tiers.
func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
