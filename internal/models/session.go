package models

import "time"

// ModeConfig is a configuration value describing how a session plays.
// TimeLimitSeconds of nil means untimed.
type ModeConfig struct {
	TimeLimitSeconds    *int `json:"time_limit_seconds" validate:"omitempty,min=1"`
	AllowSkip           bool `json:"allow_skip"`
	AllowHints          bool `json:"allow_hints"`
	SecondChanceEnabled bool `json:"second_chance_enabled"`
}

// SessionSnapshot is the minimal persisted state needed to resume a session
// exactly where it left off. CurrentIndex always equals the number of fully
// submitted answers at the moment of the save; mid-answer state for the
// active question is never persisted.
type SessionSnapshot struct {
	SessionID     string            `json:"session_id"`
	TopicID       string            `json:"topic_id"`
	QuestionOrder []string          `json:"question_order"`
	CurrentIndex  int               `json:"current_index"`
	Answers       map[string]string `json:"answers"`
	ResponseTimes map[string]int    `json:"response_times"`
	StartedAt     time.Time         `json:"started_at"`
}

// QuestionResult pairs a question with what the learner answered.
type QuestionResult struct {
	Question   *Question `json:"question"`
	UserAnswer string    `json:"user_answer"`
	IsCorrect  bool      `json:"is_correct"`
}

// SessionResult is the terminal, write-once outcome of a finished session.
type SessionResult struct {
	SessionID        string           `json:"session_id"`
	TopicID          string           `json:"topic_id"`
	TotalQuestions   int              `json:"total_questions"`
	CorrectAnswers   int              `json:"correct_answers"`
	IncorrectAnswers int              `json:"incorrect_answers"`
	ScorePercent     int              `json:"score_percent"`
	TimeTakenSeconds int              `json:"time_taken_seconds"`
	Questions        []QuestionResult `json:"questions"`
	CompletedAt      time.Time        `json:"completed_at"`
}
