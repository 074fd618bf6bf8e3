// Package cache is the read-through TTL cache in front of the
// persistence gateway. Keys are derived from the operation name plus
// its parameters; mutating operations invalidate whole entity classes
// by tag (every key containing the tag substring is dropped).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Store is one cache backend. Values are opaque JSON blobs so the
// in-memory and Redis backends stay interchangeable.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	DeleteByTag(ctx context.Context, tag string) int
	Flush(ctx context.Context)
}

// Service is constructed once in main and injected wherever reads are
// cacheable. It is never a package singleton.
type Service struct {
	store      Store
	defaultTTL time.Duration
	log        zerolog.Logger
}

func NewService(store Store, defaultTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		store:      store,
		defaultTTL: defaultTTL,
		log:        log.With().Str("component", "cache").Logger(),
	}
}

func (s *Service) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Key builds a cache key from an operation name and its parameters.
// The operation name doubles as the invalidation tag.
func Key(op string, params ...any) string {
	if len(params) == 0 {
		return op
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return op + ":" + strings.Join(parts, ":")
}

// InvalidateTag drops every entry whose key contains the tag.
func (s *Service) InvalidateTag(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		n := s.store.DeleteByTag(ctx, tag)
		if n > 0 {
			s.log.Debug().Str("tag", tag).Int("evicted", n).Msg("cache invalidated")
		}
	}
}

func (s *Service) Flush(ctx context.Context) {
	s.store.Flush(ctx)
}

// GetOrLoad serves key from cache when fresh, otherwise runs loader and
// stores its result for ttl (ttl <= 0 uses the service default). Loader
// errors are never cached.
func GetOrLoad[T any](ctx context.Context, s *Service, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	var out T

	if raw, ok := s.store.Get(ctx, key); ok {
		if err := json.Unmarshal(raw, &out); err == nil {
			hits.Inc()
			return out, nil
		}
		// Undecodable entry: drop it and fall through to the loader.
		s.store.DeleteByTag(ctx, key)
	}
	misses.Inc()

	out, err := loader(ctx)
	if err != nil {
		return out, err
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if raw, err := json.Marshal(out); err == nil {
		s.store.Set(ctx, key, raw, ttl)
	}
	return out, nil
}
