package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/civicprep/quiz-engine/internal/models"
)

var (
	ErrSnapshotNotFound = errors.New("session snapshot not found")
	ErrTopicNotFound    = errors.New("topic not found")
)

// SessionStore persists in-flight session snapshots so a learner can resume
// after a restart. Save overwrites any previous snapshot for the same
// session; Load returns ErrSnapshotNotFound when nothing is stored.
type SessionStore interface {
	Save(ctx context.Context, snapshot *models.SessionSnapshot) error
	Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// QuestionSource supplies the question bank for a topic. Returns
// ErrTopicNotFound when the topic has no questions at all.
type QuestionSource interface {
	QuestionsByTopic(ctx context.Context, topicID string) ([]*models.Question, error)
	Topics(ctx context.Context) ([]string, error)
}

// ResultSink records finished session results for history and statistics.
type ResultSink interface {
	SaveResult(ctx context.Context, result *models.SessionResult) error
	ResultsByTopic(ctx context.Context, topicID string, filters ResultFilters) ([]*models.SessionResult, int64, error)
	TopicStats(ctx context.Context, topicID string) (*TopicStats, error)
}

type ResultFilters struct {
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "completed_at", "score_percent"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type TopicStats struct {
	TotalSessions    int     `json:"total_sessions"`
	AverageScore     float64 `json:"average_score"`
	BestScore        int     `json:"best_score"`
	AverageTimeSpent int     `json:"average_time_spent"`
}
