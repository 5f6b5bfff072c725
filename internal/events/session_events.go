package events

import (
	"time"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/google/uuid"
)

// EventType represents different types of session lifecycle events
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionResumed   EventType = "session.resumed"
	EventSessionCompleted EventType = "session.completed"

	EventQuestionsImported EventType = "questions.imported"
)

// Event is the base structure published for every session lifecycle event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionStartedEvent struct {
	SessionID      string    `json:"session_id"`
	TopicID        string    `json:"topic_id"`
	TotalQuestions int       `json:"total_questions"`
	StartedAt      time.Time `json:"started_at"`
	TimeLimit      *int      `json:"time_limit,omitempty"` // seconds per question
}

type SessionResumedEvent struct {
	SessionID         string `json:"session_id"`
	TopicID           string `json:"topic_id"`
	QuestionsAnswered int    `json:"questions_answered"`
	TotalQuestions    int    `json:"total_questions"`
}

type SessionCompletedEvent struct {
	SessionID        string    `json:"session_id"`
	TopicID          string    `json:"topic_id"`
	TotalQuestions   int       `json:"total_questions"`
	CorrectAnswers   int       `json:"correct_answers"`
	ScorePercent     int       `json:"score_percent"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	CompletedAt      time.Time `json:"completed_at"`
}

type QuestionsImportedEvent struct {
	TopicIDs      []string  `json:"topic_ids"`
	QuestionCount int       `json:"question_count"`
	SourceFormat  string    `json:"source_format"` // "csv" or "xlsx"
	ImportedAt    time.Time `json:"imported_at"`
}

// Event factory functions

func NewSessionStartedEvent(sessionID, topicID string, totalQuestions int, startedAt time.Time, timeLimit *int) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventSessionStarted,
		Timestamp: time.Now(),
		Source:    "quiz-engine",
		Version:   "1.0",
		Data: SessionStartedEvent{
			SessionID:      sessionID,
			TopicID:        topicID,
			TotalQuestions: totalQuestions,
			StartedAt:      startedAt,
			TimeLimit:      timeLimit,
		},
	}
}

func NewSessionResumedEvent(sessionID, topicID string, answered, total int) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventSessionResumed,
		Timestamp: time.Now(),
		Source:    "quiz-engine",
		Version:   "1.0",
		Data: SessionResumedEvent{
			SessionID:         sessionID,
			TopicID:           topicID,
			QuestionsAnswered: answered,
			TotalQuestions:    total,
		},
	}
}

func NewSessionCompletedEvent(result *models.SessionResult) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventSessionCompleted,
		Timestamp: time.Now(),
		Source:    "quiz-engine",
		Version:   "1.0",
		Data: SessionCompletedEvent{
			SessionID:        result.SessionID,
			TopicID:          result.TopicID,
			TotalQuestions:   result.TotalQuestions,
			CorrectAnswers:   result.CorrectAnswers,
			ScorePercent:     result.ScorePercent,
			TimeTakenSeconds: result.TimeTakenSeconds,
			CompletedAt:      result.CompletedAt,
		},
	}
}

func NewQuestionsImportedEvent(topicIDs []string, count int, format string) *Event {
	return &Event{
		ID:        GenerateEventID(),
		Type:      EventQuestionsImported,
		Timestamp: time.Now(),
		Source:    "quiz-engine",
		Version:   "1.0",
		Data: QuestionsImportedEvent{
			TopicIDs:      topicIDs,
			QuestionCount: count,
			SourceFormat:  format,
			ImportedAt:    time.Now(),
		},
	}
}

// GenerateEventID returns a unique identifier for an event
func GenerateEventID() string {
	return uuid.NewString()
}
