package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() Question {
	return Question{
		ID:      "q1",
		Prompt:  "apple",
		Options: []string{"fruit", "animal", "color"},
		Answer:  "fruit",
	}
}

func TestUsable(t *testing.T) {
	assert.True(t, Usable(validQuestion()))

	q := validQuestion()
	q.ID = ""
	assert.False(t, Usable(q))

	q = validQuestion()
	q.Prompt = ""
	assert.False(t, Usable(q))

	q = validQuestion()
	q.Answer = ""
	assert.False(t, Usable(q))

	q = validQuestion()
	q.Options = []string{"fruit", "animal"}
	assert.False(t, Usable(q))
}

func TestFilterUsablePreservesOrder(t *testing.T) {
	a, b, c := validQuestion(), validQuestion(), validQuestion()
	a.ID, b.ID, c.ID = "a", "b", "c"
	b.Answer = ""

	out := FilterUsable([]Question{a, b, c})
	assert.Equal(t, []Question{a, c}, out)
}

func TestFilterUsableEmpty(t *testing.T) {
	assert.Empty(t, FilterUsable(nil))
}
