package validator

import (
	"fmt"
	"strings"

	"github.com/civicprep/quiz-engine/internal/models"
)

// QuestionValidator handles per-kind question content validation. Crossword
// specs are fully checked here so the grid engine can assume a well-formed
// layout.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Prompt) == "" {
		return fmt.Errorf("question prompt is required")
	}
	if question.TopicID == "" {
		return fmt.Errorf("question topic is required")
	}
	return v.ValidateContent(question)
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

// ValidateContent validates the kind-specific payload of a question
func (v *QuestionValidator) ValidateContent(question *models.Question) error {
	switch question.Kind {
	case models.MultipleChoice:
		return v.validateMultipleChoice(question)
	case models.TrueFalse:
		return v.validateTrueFalse(question)
	case models.ShortAnswer, models.FillInBlank:
		return v.validateTextAnswer(question)
	case models.Matching:
		return v.validateMatching(question)
	case models.Ordering:
		return v.validateOrdering(question)
	case models.Crossword:
		return v.validateCrossword(question)
	default:
		return fmt.Errorf("unsupported question kind: %s", question.Kind)
	}
}

func (v *QuestionValidator) validateMultipleChoice(question *models.Question) error {
	if len(question.Options) < 2 {
		return fmt.Errorf("must have at least 2 options")
	}
	if len(question.Options) > 10 {
		return fmt.Errorf("cannot have more than 10 options")
	}

	found := false
	for _, option := range question.Options {
		if strings.TrimSpace(option) == "" {
			return fmt.Errorf("option text cannot be empty")
		}
		if option == question.CorrectAnswer {
			found = true
		}
	}
	if question.CorrectAnswer == "" {
		return fmt.Errorf("correct answer is required")
	}
	if !found {
		return fmt.Errorf("correct answer %q does not match any option", question.CorrectAnswer)
	}
	return nil
}

func (v *QuestionValidator) validateTrueFalse(question *models.Question) error {
	answer := strings.ToLower(strings.TrimSpace(question.CorrectAnswer))
	if answer != "true" && answer != "false" {
		return fmt.Errorf("correct answer must be 'true' or 'false'")
	}
	return nil
}

func (v *QuestionValidator) validateTextAnswer(question *models.Question) error {
	if strings.TrimSpace(question.CorrectAnswer) == "" {
		return fmt.Errorf("correct answer is required")
	}
	return nil
}

func (v *QuestionValidator) validateMatching(question *models.Question) error {
	if len(question.CorrectPairs) < 2 {
		return fmt.Errorf("must have at least 2 pairs")
	}
	if len(question.CorrectPairs) > 10 {
		return fmt.Errorf("cannot have more than 10 pairs")
	}
	for left, right := range question.CorrectPairs {
		if strings.TrimSpace(left) == "" || strings.TrimSpace(right) == "" {
			return fmt.Errorf("pairs must have both sides filled")
		}
	}
	return nil
}

func (v *QuestionValidator) validateOrdering(question *models.Question) error {
	if len(question.CorrectOrder) < 2 {
		return fmt.Errorf("must have at least 2 items")
	}
	if len(question.CorrectOrder) > 10 {
		return fmt.Errorf("cannot have more than 10 items")
	}

	seen := make(map[string]bool, len(question.CorrectOrder))
	for _, item := range question.CorrectOrder {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("items cannot be empty")
		}
		if seen[item] {
			return fmt.Errorf("correct order contains duplicate item: %s", item)
		}
		seen[item] = true
	}
	return nil
}

// validateCrossword checks the geometric preconditions of a crossword spec:
// layout dimensions, word placement within bounds, no word through a blocked
// cell, and consistent letters on crossing cells.
func (v *QuestionValidator) validateCrossword(question *models.Question) error {
	spec := question.CrosswordSpec
	if spec == nil {
		return fmt.Errorf("crossword spec is required")
	}
	if spec.Rows < 1 || spec.Cols < 1 {
		return fmt.Errorf("grid dimensions must be positive")
	}
	if len(spec.Layout) != spec.Rows {
		return fmt.Errorf("layout has %d rows, expected %d", len(spec.Layout), spec.Rows)
	}
	for r, row := range spec.Layout {
		if len(row) != spec.Cols {
			return fmt.Errorf("layout row %d has %d cells, expected %d", r, len(row), spec.Cols)
		}
	}
	if len(spec.Words) == 0 {
		return fmt.Errorf("must have at least 1 word")
	}

	letters := make(map[[2]int]byte)
	for _, word := range spec.Words {
		if word.Number < 1 {
			return fmt.Errorf("word %q must have a positive clue number", word.Word)
		}
		if word.Word == "" {
			return fmt.Errorf("clue %d has no answer word", word.Number)
		}
		if word.Direction != models.Across && word.Direction != models.Down {
			return fmt.Errorf("clue %d has invalid direction %q", word.Number, word.Direction)
		}

		upper := strings.ToUpper(word.Word)
		for i := 0; i < len(upper); i++ {
			row, col := word.Row, word.Col
			if word.Direction == models.Across {
				col += i
			} else {
				row += i
			}
			if row < 0 || row >= spec.Rows || col < 0 || col >= spec.Cols {
				return fmt.Errorf("clue %d runs out of bounds at (%d,%d)", word.Number, row, col)
			}
			if spec.Layout[row][col] == '#' {
				return fmt.Errorf("clue %d crosses a blocked cell at (%d,%d)", word.Number, row, col)
			}
			pos := [2]int{row, col}
			if existing, ok := letters[pos]; ok && existing != upper[i] {
				return fmt.Errorf("clue %d conflicts with a crossing word at (%d,%d)", word.Number, row, col)
			}
			letters[pos] = upper[i]
		}
	}
	return nil
}
