package models

import (
	"sort"
	"strings"
)

type QuestionKind string

const (
	MultipleChoice QuestionKind = "multiple_choice"
	TrueFalse      QuestionKind = "true_false"
	ShortAnswer    QuestionKind = "short_answer"
	FillInBlank    QuestionKind = "fill_in_blank"
	Matching       QuestionKind = "matching"
	Ordering       QuestionKind = "ordering"
	Crossword      QuestionKind = "crossword"
)

// AllQuestionKinds lists every supported kind, for validation and dispatch.
var AllQuestionKinds = []QuestionKind{
	MultipleChoice,
	TrueFalse,
	ShortAnswer,
	FillInBlank,
	Matching,
	Ordering,
	Crossword,
}

func (k QuestionKind) Valid() bool {
	for _, kind := range AllQuestionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

type WordDirection string

const (
	Across WordDirection = "across"
	Down   WordDirection = "down"
)

// CrosswordWord is one entry in a crossword puzzle: the clue, the answer
// text, and the grid position of its first cell.
type CrosswordWord struct {
	Number    int           `json:"number"`
	Clue      string        `json:"clue"`
	Word      string        `json:"word"`
	Direction WordDirection `json:"direction"`
	Row       int           `json:"row"`
	Col       int           `json:"col"`
}

// CrosswordSpec describes a crossword question's grid. Layout holds Rows
// strings of length Cols where '#' marks a blocked cell. Every word must fit
// inside the grid without crossing a blocked cell; that is a caller
// precondition, not validated at runtime.
type CrosswordSpec struct {
	Rows   int             `json:"rows" validate:"required,min=1"`
	Cols   int             `json:"cols" validate:"required,min=1"`
	Layout []string        `json:"layout"`
	Words  []CrosswordWord `json:"words" validate:"required,min=1"`
}

// Question is an immutable, externally supplied quiz item.
type Question struct {
	ID          string       `json:"id"`
	TopicID     string       `json:"topic_id"`
	Number      int          `json:"number"`
	Kind        QuestionKind `json:"kind" validate:"required,question_kind"`
	Prompt      string       `json:"prompt" validate:"required"`
	Options     []string     `json:"options,omitempty"`
	Hint        string       `json:"hint,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
	Category    string       `json:"category,omitempty"`
	Tags        []string     `json:"tags,omitempty"`

	// Kind-specific answer key. CorrectAnswer carries the key for every kind
	// except Matching and Ordering, which use their own shapes below.
	CorrectAnswer string            `json:"correct_answer,omitempty"`
	CorrectPairs  map[string]string `json:"correct_pairs,omitempty"`
	CorrectOrder  []string          `json:"correct_order,omitempty"`

	CrosswordSpec *CrosswordSpec `json:"crossword_spec,omitempty"`
}

// AnswerKey returns the canonical comparison string for the question's
// correct answer. Matching pairs serialize sorted so entry order never
// affects equality; ordering items keep their sequence.
func (q *Question) AnswerKey() string {
	switch q.Kind {
	case Matching:
		pairs := make([]string, 0, len(q.CorrectPairs))
		for left, right := range q.CorrectPairs {
			pairs = append(pairs, left+"="+right)
		}
		sort.Strings(pairs)
		return strings.Join(pairs, ";")
	case Ordering:
		return strings.Join(q.CorrectOrder, "|")
	default:
		return q.CorrectAnswer
	}
}

// HasAnswerKey reports whether the question carries a usable answer key for
// its kind. Questions without one are filtered during preprocessing.
func (q *Question) HasAnswerKey() bool {
	switch q.Kind {
	case Matching:
		return len(q.CorrectPairs) > 0
	case Ordering:
		return len(q.CorrectOrder) > 0
	case Crossword:
		return q.CrosswordSpec != nil && len(q.CrosswordSpec.Words) > 0
	default:
		return q.CorrectAnswer != ""
	}
}
