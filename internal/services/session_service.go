package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/civicprep/quiz-engine/internal/events"
	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/civicprep/quiz-engine/internal/repositories"
	"github.com/civicprep/quiz-engine/internal/session"
	"github.com/google/uuid"
)

// SessionService orchestrates quiz sessions over the state machine: question
// loading, snapshot persistence after every committed answer, and result
// publication. The machine itself stays persistence-free; this layer owns
// all I/O.
type SessionService interface {
	Start(ctx context.Context, topicID string, mode models.ModeConfig) (*session.Machine, error)
	Resume(ctx context.Context, sessionID string, mode models.ModeConfig) (*session.Machine, error)

	// Answer events. Each one that commits an answer saves a fresh snapshot
	// before returning.
	Submit(ctx context.Context, m *session.Machine) error
	Skip(ctx context.Context, m *session.Machine) error
	Timeout(ctx context.Context, m *session.Machine) error
	UseSecondChance(ctx context.Context, m *session.Machine) error

	Finish(ctx context.Context, m *session.Machine) (*models.SessionResult, error)
}

type sessionService struct {
	questions repositories.QuestionSource
	store     repositories.SessionStore
	results   repositories.ResultSink
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewSessionService(
	questions repositories.QuestionSource,
	store repositories.SessionStore,
	results repositories.ResultSink,
	publisher events.EventPublisher,
	logger *slog.Logger,
) SessionService {
	return &sessionService{
		questions: questions,
		store:     store,
		results:   results,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *sessionService) Start(ctx context.Context, topicID string, mode models.ModeConfig) (*session.Machine, error) {
	raw, err := s.questions.QuestionsByTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, repositories.ErrTopicNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to load questions for topic %s: %w", topicID, err)
	}

	prepared, report, err := session.Preprocess(raw, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Question list prepared",
		"topic_id", topicID,
		"supplied", report.Supplied,
		"kept", report.Kept,
		"duplicates_dropped", report.DuplicatesDropped,
		"malformed_dropped", report.MalformedDropped)

	m := session.New(uuid.NewString(), topicID, prepared, mode)
	if err := m.Start(); err != nil {
		return nil, err
	}

	s.saveSnapshot(ctx, m)

	s.publish(ctx, events.NewSessionStartedEvent(
		m.SessionID(), topicID, m.TotalQuestions(), m.StartedAt(), mode.TimeLimitSeconds))

	s.logger.Info("Session started",
		"session_id", m.SessionID(),
		"topic_id", topicID,
		"total_questions", m.TotalQuestions())
	return m, nil
}

func (s *sessionService) Resume(ctx context.Context, sessionID string, mode models.ModeConfig) (*session.Machine, error) {
	snapshot, err := s.store.Load(ctx, sessionID)
	if err != nil {
		// A store outage reads the same as a missing snapshot. The caller
		// falls back to starting a fresh session.
		if !errors.Is(err, repositories.ErrSnapshotNotFound) {
			s.logger.Error("Failed to load session snapshot",
				"session_id", sessionID,
				"error", err)
		}
		return nil, ErrSessionNotFound
	}

	questions, err := s.questions.QuestionsByTopic(ctx, snapshot.TopicID)
	if err != nil {
		if errors.Is(err, repositories.ErrTopicNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to load questions for topic %s: %w", snapshot.TopicID, err)
	}

	m, err := session.Restore(snapshot, questions, mode)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewSessionResumedEvent(
		m.SessionID(), m.TopicID(), len(m.Answers()), m.TotalQuestions()))

	s.logger.Info("Session resumed",
		"session_id", sessionID,
		"topic_id", snapshot.TopicID,
		"questions_answered", len(m.Answers()))
	return m, nil
}

func (s *sessionService) Submit(ctx context.Context, m *session.Machine) error {
	if err := m.Submit(); err != nil {
		return err
	}
	s.saveSnapshot(ctx, m)
	return nil
}

func (s *sessionService) Skip(ctx context.Context, m *session.Machine) error {
	if err := m.Skip(); err != nil {
		return err
	}
	s.saveSnapshot(ctx, m)
	return nil
}

func (s *sessionService) Timeout(ctx context.Context, m *session.Machine) error {
	if err := m.Timeout(); err != nil {
		return err
	}
	s.saveSnapshot(ctx, m)
	return nil
}

// UseSecondChance re-saves after the retraction so a crash between retry and
// resubmit resumes at the reopened question, not the retracted answer.
func (s *sessionService) UseSecondChance(ctx context.Context, m *session.Machine) error {
	if err := m.UseSecondChance(); err != nil {
		return err
	}
	s.saveSnapshot(ctx, m)
	return nil
}

// Finish computes the final result, records it, and clears the snapshot.
// Sink and event failures are logged but never block the learner from
// seeing the result.
func (s *sessionService) Finish(ctx context.Context, m *session.Machine) (*models.SessionResult, error) {
	result, err := m.Results()
	if err != nil {
		return nil, err
	}

	if err := s.results.SaveResult(ctx, result); err != nil {
		s.logger.Error("Failed to save session result",
			"session_id", result.SessionID,
			"error", err)
	}

	if err := s.store.Delete(ctx, result.SessionID); err != nil {
		s.logger.Warn("Failed to clear session snapshot",
			"session_id", result.SessionID,
			"error", err)
	}

	s.publish(ctx, events.NewSessionCompletedEvent(result))

	s.logger.Info("Session finished",
		"session_id", result.SessionID,
		"topic_id", result.TopicID,
		"score_percent", result.ScorePercent)
	return result, nil
}

// saveSnapshot persists the latest committed state. A store failure never
// blocks the learner: the machine has already recorded the answer, so the
// error is logged and the next committed answer retries the save.
func (s *sessionService) saveSnapshot(ctx context.Context, m *session.Machine) {
	if err := s.store.Save(ctx, m.Snapshot()); err != nil {
		s.logger.Error("Failed to persist session snapshot",
			"session_id", m.SessionID(),
			"error", err)
	}
}

func (s *sessionService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish session event",
			"event_type", event.Type,
			"error", err)
	}
}
