package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// RedisStore shares cache state (and tag invalidation) across replicas.
// Redis owns TTL expiry, so Get never has to check timestamps itself.
type RedisStore struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRedisStore(client *redis.Client, log zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		log:    log.With().Str("component", "cache_redis").Logger(),
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		// A cache read failure must never fail the request.
		r.log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		return nil, false
	}
	return raw, true
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (r *RedisStore) DeleteByTag(ctx context.Context, tag string) int {
	n := 0
	iter := r.client.Scan(ctx, 0, "*"+tag+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err == nil {
			n++
		}
	}
	if err := iter.Err(); err != nil {
		r.log.Warn().Err(err).Str("tag", tag).Msg("redis scan failed")
	}
	return n
}

func (r *RedisStore) Flush(ctx context.Context) {
	if err := r.client.FlushDB(ctx).Err(); err != nil {
		r.log.Warn().Err(err).Msg("redis flush failed")
	}
}

// Compile-time check
var _ Store = (*RedisStore)(nil)
