package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/civicprep/quiz-engine/internal/cache"
	"github.com/civicprep/quiz-engine/internal/models"
)

const snapshotKeyPrefix = "quiz:session:"

// CachedSessionStore layers a cache in front of a durable SessionStore.
// Saves are write-through: the database write must succeed before the cache
// is refreshed, so a cache outage can slow resumes but never lose a
// snapshot.
type CachedSessionStore struct {
	store  SessionStore
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedSessionStore(store SessionStore, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) *CachedSessionStore {
	return &CachedSessionStore{
		store:  store,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedSessionStore) Save(ctx context.Context, snapshot *models.SessionSnapshot) error {
	if err := c.store.Save(ctx, snapshot); err != nil {
		return err
	}
	if err := c.cache.Set(ctx, snapshotKey(snapshot.SessionID), snapshot, c.ttl); err != nil {
		c.logger.Warn("Failed to cache session snapshot",
			"session_id", snapshot.SessionID,
			"error", err)
	}
	return nil
}

func (c *CachedSessionStore) Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	var cached models.SessionSnapshot
	err := c.cache.Get(ctx, snapshotKey(sessionID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("Session snapshot cache read failed",
			"session_id", sessionID,
			"error", err)
	}

	snapshot, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, snapshotKey(sessionID), snapshot, c.ttl); err != nil {
		c.logger.Warn("Failed to backfill session snapshot cache",
			"session_id", sessionID,
			"error", err)
	}
	return snapshot, nil
}

func (c *CachedSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := c.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := c.cache.Delete(ctx, snapshotKey(sessionID)); err != nil {
		c.logger.Warn("Failed to evict session snapshot cache",
			"session_id", sessionID,
			"error", err)
	}
	return nil
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("%s%s", snapshotKeyPrefix, sessionID)
}
