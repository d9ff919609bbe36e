package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fleetalloc/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Store is the read-through cache consumed by the services. Implementations
// must degrade backend failures to misses; a cache outage never fails a request.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, namespace, key string, value any, ttl time.Duration)
	Invalidate(ctx context.Context, namespace string) error
}

// RedisStore caches JSON-serialized result sets in Redis. Every key written
// is registered in a per-namespace set, so invalidating a namespace is a
// bounded multi-DEL over registered keys rather than a pattern scan.
type RedisStore struct {
	rdb *redis.Client
	log *logger.Logger
}

// registryTTL bounds how long an idle namespace registry lives. It is
// refreshed on every write and must outlive the longest entry TTL, otherwise
// invalidation would miss still-live keys.
const registryTTL = 24 * time.Hour

func NewRedisStore(rdb *redis.Client, log *logger.Logger) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		log: log,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest any) bool {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("Cache read failed, treating as miss", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.log.Warn("Cache entry is not decodable, treating as miss", "key", key, "error", err)
		return false
	}

	return true
}

func (s *RedisStore) Set(ctx context.Context, namespace, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Warn("Cache value is not serializable, skipping population", "key", key, "error", err)
		return
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, registryKey(namespace), key)
	pipe.Expire(ctx, registryKey(namespace), registryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("Cache population failed", "namespace", namespace, "key", key, "error", err)
	}
}

func (s *RedisStore) Invalidate(ctx context.Context, namespace string) error {
	registry := registryKey(namespace)

	keys, err := s.rdb.SMembers(ctx, registry).Result()
	if err != nil {
		return err
	}

	// Expired members are harmless: DEL on a missing key is a no-op.
	keys = append(keys, registry)
	return s.rdb.Del(ctx, keys...).Err()
}
