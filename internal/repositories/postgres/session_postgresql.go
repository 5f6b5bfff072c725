package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/civicprep/quiz-engine/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionSnapshotRow is the persisted form of a session snapshot. The
// snapshot itself is stored as a JSON blob; the indexed columns exist only
// for lookup and housekeeping queries.
type SessionSnapshotRow struct {
	SessionID    string         `gorm:"primaryKey;size:64"`
	TopicID      string         `gorm:"size:64;index"`
	CurrentIndex int            `gorm:"not null"`
	Snapshot     datatypes.JSON `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (SessionSnapshotRow) TableName() string { return "session_snapshots" }

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionStore {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Save(ctx context.Context, snapshot *models.SessionSnapshot) error {
	blob, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal session snapshot: %w", err)
	}

	row := SessionSnapshotRow{
		SessionID:    snapshot.SessionID,
		TopicID:      snapshot.TopicID,
		CurrentIndex: snapshot.CurrentIndex,
		Snapshot:     blob,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"topic_id", "current_index", "snapshot", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *SessionPostgreSQL) Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	var row SessionSnapshotRow
	if err := s.db.WithContext(ctx).First(&row, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrSnapshotNotFound
		}
		return nil, err
	}

	var snapshot models.SessionSnapshot
	if err := json.Unmarshal(row.Snapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session snapshot %s: %w", sessionID, err)
	}
	return &snapshot, nil
}

func (s *SessionPostgreSQL) Delete(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Delete(&SessionSnapshotRow{}, "session_id = ?", sessionID).Error
}
