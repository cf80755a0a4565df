package course

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheTTL     = 10 * time.Minute
	cacheTimeout = 3 * time.Second
)

// CachedStore is a read-through cache in front of another Store. Course
// documents are read-mostly from the learner side; admin writes invalidate
// the cached copy. Cache failures degrade to the inner store.
type CachedStore struct {
	inner  Store
	client *redis.Client
}

// NewCachedStore wraps a store with a Redis/Dragonfly cache.
func NewCachedStore(inner Store, client *redis.Client) *CachedStore {
	return &CachedStore{inner: inner, client: client}
}

func cacheKey(id string) string {
	return "course:" + id
}

func (s *CachedStore) GetCourse(id string) (*Course, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if data, err := s.client.Get(ctx, cacheKey(id)).Bytes(); err == nil {
		var c Course
		if err := json.Unmarshal(data, &c); err == nil {
			return &c, nil
		}
		// Undecodable entry, drop it and fall through.
		s.client.Del(ctx, cacheKey(id))
	}

	c, err := s.inner.GetCourse(id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(c); err == nil {
		if err := s.client.Set(ctx, cacheKey(id), data, cacheTTL).Err(); err != nil {
			slog.Debug("course cache set failed", "course_id", id, "error", err)
		}
	}
	return c, nil
}

func (s *CachedStore) ListCourses() ([]Summary, error) {
	return s.inner.ListCourses()
}

func (s *CachedStore) PutCourse(c *Course) error {
	if err := s.inner.PutCourse(c); err != nil {
		return err
	}
	s.invalidate(c.ID)
	return nil
}

func (s *CachedStore) DeleteCourse(id string) error {
	if err := s.inner.DeleteCourse(id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *CachedStore) invalidate(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := s.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		slog.Warn("course cache invalidation failed", "course_id", id, "error", err)
	}
}
