package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/civicprep/quiz-engine/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionResultRow stores one finished session. Scalar columns carry the
// aggregate figures so statistics queries never touch the JSON details.
type SessionResultRow struct {
	ID               uint           `gorm:"primaryKey;autoIncrement"`
	SessionID        string         `gorm:"size:64;uniqueIndex"`
	TopicID          string         `gorm:"size:64;index"`
	TotalQuestions   int            `gorm:"not null"`
	CorrectAnswers   int            `gorm:"not null"`
	IncorrectAnswers int            `gorm:"not null"`
	ScorePercent     int            `gorm:"not null"`
	TimeTakenSeconds int            `gorm:"not null"`
	Details          datatypes.JSON
	CompletedAt      time.Time      `gorm:"index"`
	CreatedAt        time.Time
}

func (SessionResultRow) TableName() string { return "session_results" }

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultSink {
	return &ResultPostgreSQL{db: db}
}

func (r *ResultPostgreSQL) SaveResult(ctx context.Context, result *models.SessionResult) error {
	details, err := json.Marshal(result.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal result details: %w", err)
	}

	row := SessionResultRow{
		SessionID:        result.SessionID,
		TopicID:          result.TopicID,
		TotalQuestions:   result.TotalQuestions,
		CorrectAnswers:   result.CorrectAnswers,
		IncorrectAnswers: result.IncorrectAnswers,
		ScorePercent:     result.ScorePercent,
		TimeTakenSeconds: result.TimeTakenSeconds,
		Details:          details,
		CompletedAt:      result.CompletedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *ResultPostgreSQL) ResultsByTopic(ctx context.Context, topicID string, filters repositories.ResultFilters) ([]*models.SessionResult, int64, error) {
	var rows []SessionResultRow
	var total int64

	query := r.db.WithContext(ctx).Model(&SessionResultRow{}).Where("topic_id = ?", topicID)
	query = applyResultFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyResultPaginationAndSort(query, filters)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	results := make([]*models.SessionResult, 0, len(rows))
	for _, row := range rows {
		result, err := rowToResult(row)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, result)
	}
	return results, total, nil
}

func (r *ResultPostgreSQL) TopicStats(ctx context.Context, topicID string) (*repositories.TopicStats, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&SessionResultRow{}).
		Where("topic_id = ?", topicID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	stats := &repositories.TopicStats{TotalSessions: int(total)}
	if total == 0 {
		return stats, nil
	}

	var avgScore, avgTime float64
	var bestScore int
	err := r.db.WithContext(ctx).
		Model(&SessionResultRow{}).
		Where("topic_id = ?", topicID).
		Select("AVG(score_percent), MAX(score_percent), AVG(time_taken_seconds)").
		Row().Scan(&avgScore, &bestScore, &avgTime)
	if err != nil {
		return nil, err
	}

	stats.AverageScore = avgScore
	stats.BestScore = bestScore
	stats.AverageTimeSpent = int(avgTime)
	return stats, nil
}

func rowToResult(row SessionResultRow) (*models.SessionResult, error) {
	result := &models.SessionResult{
		SessionID:        row.SessionID,
		TopicID:          row.TopicID,
		TotalQuestions:   row.TotalQuestions,
		CorrectAnswers:   row.CorrectAnswers,
		IncorrectAnswers: row.IncorrectAnswers,
		ScorePercent:     row.ScorePercent,
		TimeTakenSeconds: row.TimeTakenSeconds,
		CompletedAt:      row.CompletedAt,
	}
	if len(row.Details) > 0 {
		if err := json.Unmarshal(row.Details, &result.Questions); err != nil {
			return nil, fmt.Errorf("result %s: invalid details column: %w", row.SessionID, err)
		}
	}
	return result, nil
}

func applyResultFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}
	return query
}

func applyResultPaginationAndSort(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "completed_at", "score_percent":
	default:
		sortBy = "completed_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
