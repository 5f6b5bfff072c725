package grading

import (
	"sort"
	"strconv"
	"strings"

	"github.com/civicprep/quiz-engine/internal/models"
)

// GradeQuestion dispatches grading by question kind. The switch is
// exhaustive over models.AllQuestionKinds; adding a kind means extending it.
func GradeQuestion(q *models.Question, rawAnswer string) models.Verdict {
	switch q.Kind {
	case models.ShortAnswer:
		return Grade(rawAnswer, q.CorrectAnswer)
	case models.TrueFalse:
		if strings.EqualFold(strings.TrimSpace(rawAnswer), strings.TrimSpace(q.CorrectAnswer)) {
			return models.VerdictCorrect
		}
		return models.VerdictIncorrect
	case models.Crossword:
		// Crossword raw answers are the grid engine's "k/n" word fraction.
		correct, total, ok := ParseCrosswordScore(rawAnswer)
		if ok && total > 0 && correct == total {
			return models.VerdictCorrect
		}
		if ok && correct > 0 {
			return models.VerdictPartiallyCorrect
		}
		return models.VerdictIncorrect
	case models.Matching:
		if canonicalPairs(rawAnswer) == q.AnswerKey() {
			return models.VerdictCorrect
		}
		return models.VerdictIncorrect
	case models.MultipleChoice, models.FillInBlank, models.Ordering:
		if strings.TrimSpace(rawAnswer) == q.AnswerKey() {
			return models.VerdictCorrect
		}
		return models.VerdictIncorrect
	default:
		return models.VerdictIncorrect
	}
}

// FormatCrosswordScore serializes a crossword submission result as the raw
// answer recorded for the question.
func FormatCrosswordScore(correctWords, totalWords int) string {
	return strconv.Itoa(correctWords) + "/" + strconv.Itoa(totalWords)
}

// ParseCrosswordScore is the inverse of FormatCrosswordScore.
func ParseCrosswordScore(raw string) (correct, total int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	correct, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return correct, total, true
}

// canonicalPairs sorts "left=right" segments so a matching answer grades the
// same regardless of the order pairs were made in.
func canonicalPairs(raw string) string {
	segments := strings.Split(strings.TrimSpace(raw), ";")
	cleaned := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			cleaned = append(cleaned, seg)
		}
	}
	sort.Strings(cleaned)
	return strings.Join(cleaned, ";")
}
