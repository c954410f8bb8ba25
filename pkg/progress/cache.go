// Package progress caches design-job progress in redis so polling
// reads do not hammer the database or the design service.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-planner-be/pkg/orchestrator"
)

// DefaultTTL bounds how stale a cached progress entry can get; the
// monitor loop refreshes it on every poll.
const DefaultTTL = 5 * time.Minute

// ErrNotFound is returned when no progress is cached for a session.
var ErrNotFound = fmt.Errorf("progress: not found")

// Cache stores the latest pipeline progress per session.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps a redis client. A zero ttl falls back to DefaultTTL.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string {
	return "planner:progress:" + sessionID
}

// Set stores the session's current progress.
func (c *Cache) Set(ctx context.Context, sessionID string, p orchestrator.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("progress: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, key(sessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("progress: set: %w", err)
	}
	return nil
}

// Get returns the cached progress, or ErrNotFound when the entry is
// missing or expired. Callers fall back to the database.
func (c *Cache) Get(ctx context.Context, sessionID string) (orchestrator.Progress, error) {
	data, err := c.rdb.Get(ctx, key(sessionID)).Bytes()
	if err == redis.Nil {
		return orchestrator.Progress{}, ErrNotFound
	}
	if err != nil {
		return orchestrator.Progress{}, fmt.Errorf("progress: get: %w", err)
	}
	var p orchestrator.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return orchestrator.Progress{}, fmt.Errorf("progress: decode: %w", err)
	}
	return p, nil
}

// Delete drops the cached progress, used when a session finishes or is
// cancelled.
func (c *Cache) Delete(ctx context.Context, sessionID string) error {
	if err := c.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("progress: delete: %w", err)
	}
	return nil
}
