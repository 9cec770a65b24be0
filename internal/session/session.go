package session

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wordplaylabs/wordquest/internal/question"
)

// Question type and answer type constants.
const (
	QuestionTypeText  = "text"
	QuestionTypeAudio = "audio"

	AnswerTypeChoice = "choice"
	AnswerTypeFill   = "fill"
)

// DefaultTargetQuestionCount caps how many questions one run presents.
const DefaultTargetQuestionCount = 10

var (
	ErrEmptyBatch      = errors.New("no usable questions in batch")
	ErrSessionComplete = errors.New("session already complete")
	ErrInvalidSettings = errors.New("invalid session settings")
)

// Settings configure one quiz run.
type Settings struct {
	QuestionType string `json:"question_type"`
	AnswerType   string `json:"answer_type"`
	Difficulty   string `json:"difficulty"`
	CollectionID string `json:"collection_id,omitempty"`
	Strategy     string `json:"strategy"`
}

// Normalize fills defaults and validates enum fields.
func (s *Settings) Normalize() error {
	if s.QuestionType == "" {
		s.QuestionType = QuestionTypeText
	}
	if s.AnswerType == "" {
		s.AnswerType = AnswerTypeChoice
	}
	if s.Difficulty == "" {
		s.Difficulty = question.DifficultyEasy
	}
	if s.Strategy == "" {
		s.Strategy = StrategySequential
	}

	switch s.QuestionType {
	case QuestionTypeText, QuestionTypeAudio:
	default:
		return ErrInvalidSettings
	}
	switch s.AnswerType {
	case AnswerTypeChoice, AnswerTypeFill:
	default:
		return ErrInvalidSettings
	}
	if !question.IsValidDifficulty(s.Difficulty) {
		return ErrInvalidSettings
	}
	switch s.Strategy {
	case StrategySequential, StrategyRandom:
	default:
		return ErrInvalidSettings
	}
	return nil
}

// Strategy aliases re-exported for callers that only import session.
const (
	StrategySequential = question.StrategySequential
	StrategyRandom     = question.StrategyRandom
)

// Session is the in-memory record of one quiz attempt. All state transitions
// run under its mutex; the correct count is always derived from the answers
// list, never incremented, so re-submission can never double count.
type Session struct {
	mu sync.Mutex

	id      uuid.UUID
	ownerID uuid.UUID

	settings  Settings
	questions []question.Question
	answers   []*string // nil until answered, parallel to questions
	index     int       // 0 <= index <= len(questions)

	createdAt time.Time
	touchedAt time.Time
}

// New builds a validated Session from a fetched batch. Malformed records are
// filtered, the order is shuffled for the random strategy, and the run is
// truncated to target questions (all usable ones when fewer exist).
func New(ownerID uuid.UUID, settings Settings, batch []question.Question, target int) (*Session, error) {
	if target <= 0 {
		target = DefaultTargetQuestionCount
	}

	usable := question.FilterUsable(batch)
	if len(usable) == 0 {
		return nil, ErrEmptyBatch
	}

	if settings.Strategy == StrategyRandom {
		rand.Shuffle(len(usable), func(i, j int) {
			usable[i], usable[j] = usable[j], usable[i]
		})
	}
	if len(usable) > target {
		usable = usable[:target]
	}

	now := time.Now()
	return &Session{
		id:        uuid.New(),
		ownerID:   ownerID,
		settings:  settings,
		questions: usable,
		answers:   make([]*string, len(usable)),
		createdAt: now,
		touchedAt: now,
	}, nil
}

// Matches reports whether a submitted answer equals the expected one,
// ignoring case and surrounding whitespace.
func Matches(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// OwnerID returns the owning user.
func (s *Session) OwnerID() uuid.UUID { return s.ownerID }

// Settings returns the run configuration.
func (s *Session) Settings() Settings { return s.settings }

// LastTouched reports when the session last changed, for idle sweeping.
func (s *Session) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// SubmitOutcome reports the evaluation of one submission.
type SubmitOutcome struct {
	Index         int    `json:"index"`
	QuestionID    string `json:"question_id"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// Submit records a raw answer at the current index and evaluates it.
// Re-submission overwrites the stored answer; the score is derived, so
// submitting twice never changes the correct count for a correct answer.
func (s *Session) Submit(raw string) (SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.questions) {
		return SubmitOutcome{}, ErrSessionComplete
	}

	answer := raw
	s.answers[s.index] = &answer
	s.touchedAt = time.Now()

	q := s.questions[s.index]
	return SubmitOutcome{
		Index:         s.index,
		QuestionID:    q.ID,
		Correct:       Matches(answer, q.Answer),
		CorrectAnswer: q.Answer,
	}, nil
}

// Next advances the index by one, capped at the question count. Reaching the
// count marks the session complete. Returns true when the session is complete.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < len(s.questions) {
		s.index++
	}
	s.touchedAt = time.Now()
	return s.index >= len(s.questions)
}

// Previous decrements the index, floored at zero. Never mutates answers.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index > 0 {
		s.index--
	}
	s.touchedAt = time.Now()
}

// Complete reports whether the index has reached the end of the run.
func (s *Session) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= len(s.questions)
}

// CorrectCount recomputes the score from the answers list.
func (s *Session) CorrectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.correctCountLocked()
}

func (s *Session) correctCountLocked() int {
	count := 0
	for i, ans := range s.answers {
		if ans != nil && Matches(*ans, s.questions[i].Answer) {
			count++
		}
	}
	return count
}

// QuestionView is a question as presented to the player: no answer leaked.
type QuestionView struct {
	Index       int      `json:"index"`
	Total       int      `json:"total"`
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	AudioPrompt string   `json:"audio_prompt,omitempty"`
	Options     []string `json:"options,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Answered    bool     `json:"answered"`
}

// Current returns the question at the index, or false when complete.
func (s *Session) Current() (QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index >= len(s.questions) {
		return QuestionView{}, false
	}

	q := s.questions[s.index]
	view := QuestionView{
		Index:       s.index,
		Total:       len(s.questions),
		ID:          q.ID,
		Prompt:      q.Prompt,
		AudioPrompt: q.AudioPrompt,
		Hint:        q.Hint,
		Answered:    s.answers[s.index] != nil,
	}
	if s.settings.AnswerType == AnswerTypeChoice {
		view.Options = q.Options
	}
	return view, true
}

// Result is the terminal projection of a session.
type Result struct {
	Total    int                 `json:"total"`
	Correct  int                 `json:"correct"`
	Accuracy int                 `json:"accuracy"`
	Missed   []question.Question `json:"missed"`
	Grade    Grade               `json:"grade"`
}

// Result reduces the session into totals. Accuracy is the rounded percentage
// and defined as 0 for an empty run.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.questions)
	correct := s.correctCountLocked()

	missed := make([]question.Question, 0)
	for i, q := range s.questions {
		if s.answers[i] == nil || !Matches(*s.answers[i], q.Answer) {
			missed = append(missed, q)
		}
	}

	accuracy := Accuracy(correct, total)
	return Result{
		Total:    total,
		Correct:  correct,
		Accuracy: accuracy,
		Missed:   missed,
		Grade:    Classify(accuracy),
	}
}

// Accuracy returns round(correct/total x 100), or 0 when total is 0.
func Accuracy(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// QuestionIDs returns the presented question order.
func (s *Session) QuestionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.questions))
	for i, q := range s.questions {
		ids[i] = q.ID
	}
	return ids
}
