package session

import (
	"io"
	"log/slog"
	"testing"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPreprocess_DedupExactDuplicates(t *testing.T) {
	q := func(id string) *models.Question {
		return &models.Question{
			ID:            id,
			TopicID:       "civics",
			Number:        4,
			Kind:          models.ShortAnswer,
			Prompt:        "How many amendments does the Constitution have?",
			CorrectAnswer: "27",
		}
	}
	kept, report, err := Preprocess([]*models.Question{q("a"), q("b")}, discardLogger())
	require.NoError(t, err)

	assert.Len(t, kept, 1)
	assert.Equal(t, 2, report.Supplied)
	assert.Equal(t, 1, report.Kept)
	assert.Equal(t, 1, report.DuplicatesDropped)
}

func TestPreprocess_DedupNormalizedPrompt(t *testing.T) {
	// Same prompt modulo case, punctuation, and articles; different numbers
	// so the composite key cannot catch them.
	a := shortAnswerQuestion("a", "Who signs bills into law?", "the president")
	b := shortAnswerQuestion("b", "Who signs bills into the law?", "president")
	b.Number = 2

	kept, report, err := Preprocess([]*models.Question{a, b}, discardLogger())
	require.NoError(t, err)

	assert.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].ID)
	assert.Equal(t, 1, report.DuplicatesDropped)
}

func TestPreprocess_DropsMalformed(t *testing.T) {
	noPrompt := shortAnswerQuestion("a", "   ", "congress")
	noAnswer := shortAnswerQuestion("b", "Who makes federal laws?", "")
	badKind := shortAnswerQuestion("c", "Who vetoes bills?", "president")
	badKind.Kind = models.QuestionKind("essay")
	good := shortAnswerQuestion("d", "Who confirms judges?", "senate")

	kept, report, err := Preprocess([]*models.Question{noPrompt, noAnswer, badKind, good}, discardLogger())
	require.NoError(t, err)

	require.Len(t, kept, 1)
	assert.Equal(t, "d", kept[0].ID)
	assert.Equal(t, 3, report.MalformedDropped)
	assert.Equal(t, 1, report.Kept)
}

func TestPreprocess_NothingPlayable(t *testing.T) {
	_, report, err := Preprocess(nil, discardLogger())
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
	assert.Equal(t, 0, report.Kept)

	only := shortAnswerQuestion("a", "", "")
	_, report, err = Preprocess([]*models.Question{only}, discardLogger())
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
	assert.Equal(t, 1, report.MalformedDropped)
}

func TestPreprocess_ShufflePreservesSet(t *testing.T) {
	input := make([]*models.Question, 0, 20)
	for i := 0; i < 20; i++ {
		input = append(input, &models.Question{
			ID:            string(rune('a' + i)),
			TopicID:       "civics",
			Number:        i + 1,
			Kind:          models.TrueFalse,
			Prompt:        "Statement number " + string(rune('a'+i)) + " is about the number " + string(rune('a'+i)),
			CorrectAnswer: "true",
		})
	}
	originalOrder := make([]string, len(input))
	for i, q := range input {
		originalOrder[i] = q.ID
	}

	kept, _, err := Preprocess(input, discardLogger())
	require.NoError(t, err)
	require.Len(t, kept, 20)

	seen := make(map[string]bool, len(kept))
	for _, q := range kept {
		seen[q.ID] = true
	}
	assert.Len(t, seen, 20)

	// The input slice itself is never reordered.
	for i, q := range input {
		assert.Equal(t, originalOrder[i], q.ID)
	}
}
