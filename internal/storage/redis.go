package storage

import (
	"context"
	"time"

	"househunt/internal/cache"
)

const deviceKeyPrefix = "device:"

// RedisProvider stores device records in Redis under device:<id>:<key>.
type RedisProvider struct {
	cache *cache.Client
	ttl   time.Duration
}

// Ensure RedisProvider implements Provider
var _ Provider = (*RedisProvider)(nil)

// NewRedisProvider creates a provider whose records expire after ttl of
// inactivity. A zero ttl keeps records until they are removed.
func NewRedisProvider(cache *cache.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{cache: cache, ttl: ttl}
}

// ForDevice returns the storage area of deviceID.
func (p *RedisProvider) ForDevice(deviceID string) Storage {
	return &redisStorage{cache: p.cache, prefix: deviceKeyPrefix + deviceID + ":", ttl: p.ttl}
}

type redisStorage struct {
	cache  *cache.Client
	prefix string
	ttl    time.Duration
}

func (s *redisStorage) Get(ctx context.Context, key string) ([]byte, bool) {
	return s.cache.Get(ctx, s.prefix+key, s.ttl)
}

func (s *redisStorage) Set(ctx context.Context, key string, value []byte) error {
	return s.cache.SetStrict(ctx, s.prefix+key, value, s.ttl)
}

func (s *redisStorage) Remove(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.cache.DeleteStrict(ctx, full...)
}
