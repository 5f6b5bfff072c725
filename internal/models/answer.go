package models

// Verdict is the grading outcome for a single answer. Short-answer grading
// produces all three states; every other kind collapses to Correct/Incorrect.
type Verdict string

const (
	VerdictCorrect          Verdict = "correct"
	VerdictPartiallyCorrect Verdict = "partially_correct"
	VerdictIncorrect        Verdict = "incorrect"
)

func (v Verdict) IsCorrect() bool {
	return v == VerdictCorrect
}

// Raw answer values recorded for the two non-submit terminal paths.
const (
	RawAnswerSkipped  = "skipped"
	RawAnswerTimedOut = "timeout"
)

// AnswerRecord is created once per answered question and never mutated.
type AnswerRecord struct {
	QuestionID       string          `json:"question_id"`
	RawAnswer        string          `json:"raw_answer"`
	Verdict          Verdict         `json:"verdict"`
	IsCorrect        bool            `json:"is_correct"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
	HintUsed         bool            `json:"hint_used"`
	AttemptNumber    int             `json:"attempt_number"`
	Difficulty       DifficultyLevel `json:"difficulty"`

	// Crossword answers score fractionally: CorrectWords of TotalWords.
	CorrectWords int `json:"correct_words,omitempty"`
	TotalWords   int `json:"total_words,omitempty"`
}
