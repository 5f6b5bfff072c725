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

// QuestionRow maps a question bank entry. Per-kind payloads (options,
// matching pairs, ordering sequences, crossword layouts) live in JSON
// columns so one table serves every question kind.
type QuestionRow struct {
	ID            string         `gorm:"primaryKey;size:64"`
	TopicID       string         `gorm:"size:64;index:idx_questions_topic"`
	Number        int            `gorm:"not null"`
	Kind          string         `gorm:"size:32;not null"`
	Prompt        string         `gorm:"type:text;not null"`
	Options       datatypes.JSON
	Hint          string         `gorm:"type:text"`
	Explanation   string         `gorm:"type:text"`
	Category      string         `gorm:"size:128"`
	Tags          datatypes.JSON
	CorrectAnswer string         `gorm:"type:text"`
	CorrectPairs  datatypes.JSON
	CorrectOrder  datatypes.JSON
	CrosswordSpec datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (QuestionRow) TableName() string { return "questions" }

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionSource {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) QuestionsByTopic(ctx context.Context, topicID string) ([]*models.Question, error) {
	var rows []QuestionRow
	if err := q.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("number ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repositories.ErrTopicNotFound
	}

	questions := make([]*models.Question, 0, len(rows))
	for _, row := range rows {
		question, err := rowToQuestion(row)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) Topics(ctx context.Context) ([]string, error) {
	var topics []string
	if err := q.db.WithContext(ctx).
		Model(&QuestionRow{}).
		Distinct("topic_id").
		Order("topic_id ASC").
		Pluck("topic_id", &topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func rowToQuestion(row QuestionRow) (*models.Question, error) {
	question := &models.Question{
		ID:            row.ID,
		TopicID:       row.TopicID,
		Number:        row.Number,
		Kind:          models.QuestionKind(row.Kind),
		Prompt:        row.Prompt,
		Hint:          row.Hint,
		Explanation:   row.Explanation,
		Category:      row.Category,
		CorrectAnswer: row.CorrectAnswer,
	}

	if err := unmarshalColumn(row.Options, &question.Options); err != nil {
		return nil, fmt.Errorf("question %s: invalid options column: %w", row.ID, err)
	}
	if err := unmarshalColumn(row.Tags, &question.Tags); err != nil {
		return nil, fmt.Errorf("question %s: invalid tags column: %w", row.ID, err)
	}
	if err := unmarshalColumn(row.CorrectPairs, &question.CorrectPairs); err != nil {
		return nil, fmt.Errorf("question %s: invalid pairs column: %w", row.ID, err)
	}
	if err := unmarshalColumn(row.CorrectOrder, &question.CorrectOrder); err != nil {
		return nil, fmt.Errorf("question %s: invalid order column: %w", row.ID, err)
	}
	if len(row.CrosswordSpec) > 0 {
		var spec models.CrosswordSpec
		if err := json.Unmarshal(row.CrosswordSpec, &spec); err != nil {
			return nil, fmt.Errorf("question %s: invalid crossword column: %w", row.ID, err)
		}
		question.CrosswordSpec = &spec
	}
	return question, nil
}

func unmarshalColumn(blob datatypes.JSON, dest any) error {
	if len(blob) == 0 {
		return nil
	}
	return json.Unmarshal(blob, dest)
}

// QuestionToRow converts a question into its persisted form, used by the
// import pipeline when loading question banks into the database.
func QuestionToRow(question *models.Question) (*QuestionRow, error) {
	row := &QuestionRow{
		ID:            question.ID,
		TopicID:       question.TopicID,
		Number:        question.Number,
		Kind:          string(question.Kind),
		Prompt:        question.Prompt,
		Hint:          question.Hint,
		Explanation:   question.Explanation,
		Category:      question.Category,
		CorrectAnswer: question.CorrectAnswer,
	}

	var err error
	if row.Options, err = marshalColumn(question.Options); err != nil {
		return nil, err
	}
	if row.Tags, err = marshalColumn(question.Tags); err != nil {
		return nil, err
	}
	if row.CorrectPairs, err = marshalColumn(question.CorrectPairs); err != nil {
		return nil, err
	}
	if row.CorrectOrder, err = marshalColumn(question.CorrectOrder); err != nil {
		return nil, err
	}
	if question.CrosswordSpec != nil {
		if row.CrosswordSpec, err = marshalColumn(question.CrosswordSpec); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func marshalColumn(value any) (datatypes.JSON, error) {
	blob, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return blob, nil
}
