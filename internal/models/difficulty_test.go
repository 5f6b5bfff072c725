package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mcQuestion(prompt string) *Question {
	return &Question{
		ID:      "q1",
		Kind:    MultipleChoice,
		Prompt:  prompt,
		Options: []string{"a", "b", "c", "d"},
	}
}

func TestInferDifficulty_TagsWin(t *testing.T) {
	q := mcQuestion("short prompt")

	q.Tags = []string{"history", "advanced"}
	assert.Equal(t, DifficultyHard, InferDifficulty(q))

	q.Tags = []string{"intermediate"}
	assert.Equal(t, DifficultyMedium, InferDifficulty(q))

	q.Tags = []string{"beginner"}
	assert.Equal(t, DifficultyEasy, InferDifficulty(q))

	// A difficulty tag overrides the length heuristic.
	long := mcQuestion(strings.Repeat("x", 300))
	long.Tags = []string{"basic"}
	assert.Equal(t, DifficultyEasy, InferDifficulty(long))
}

func TestInferDifficulty_Heuristics(t *testing.T) {
	assert.Equal(t, DifficultyEasy, InferDifficulty(mcQuestion(strings.Repeat("x", 100))))
	assert.Equal(t, DifficultyMedium, InferDifficulty(mcQuestion(strings.Repeat("x", 101))))
	assert.Equal(t, DifficultyHard, InferDifficulty(mcQuestion(strings.Repeat("x", 201))))

	// Free-text kinds and non-standard option counts grade hard.
	sa := &Question{ID: "q2", Kind: ShortAnswer, Prompt: "short"}
	assert.Equal(t, DifficultyHard, InferDifficulty(sa))

	twoOpt := mcQuestion("short")
	twoOpt.Options = []string{"a", "b"}
	assert.Equal(t, DifficultyHard, InferDifficulty(twoOpt))
}
