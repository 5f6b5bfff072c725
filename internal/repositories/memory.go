package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/civicprep/quiz-engine/internal/models"
)

// MemorySessionStore keeps snapshots in process memory. Used in tests and
// for single-process deployments that do not need durable resume.
type MemorySessionStore struct {
	mu        sync.RWMutex
	snapshots map[string]*models.SessionSnapshot
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{snapshots: make(map[string]*models.SessionSnapshot)}
}

func (m *MemorySessionStore) Save(ctx context.Context, snapshot *models.SessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *snapshot
	m.snapshots[snapshot.SessionID] = &copied
	return nil
}

func (m *MemorySessionStore) Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	copied := *snapshot
	return &copied, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

// MemoryQuestionSource serves imported question banks directly from memory,
// which is how file-based imports are played without a database round trip.
type MemoryQuestionSource struct {
	mu      sync.RWMutex
	byTopic map[string][]*models.Question
}

func NewMemoryQuestionSource() *MemoryQuestionSource {
	return &MemoryQuestionSource{byTopic: make(map[string][]*models.Question)}
}

// AddQuestions registers questions under their own topic IDs.
func (m *MemoryQuestionSource) AddQuestions(questions []*models.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range questions {
		m.byTopic[q.TopicID] = append(m.byTopic[q.TopicID], q)
	}
}

func (m *MemoryQuestionSource) QuestionsByTopic(ctx context.Context, topicID string) ([]*models.Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	questions, ok := m.byTopic[topicID]
	if !ok || len(questions) == 0 {
		return nil, ErrTopicNotFound
	}
	return append([]*models.Question(nil), questions...), nil
}

func (m *MemoryQuestionSource) Topics(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	topics := make([]string, 0, len(m.byTopic))
	for topic := range m.byTopic {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}
