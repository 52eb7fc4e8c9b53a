package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore serializes charge attempts per appointment. Reserve wins
// at most once per key until the reservation expires or is released.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisIdempotencyStore backs reservations with SETNX so they hold across
// server instances.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore wraps an existing redis client.
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	if client == nil {
		panic("payments: redis client required")
	}
	return &RedisIdempotencyStore{client: client}
}

func redisKey(key string) string { return "payments:inflight:" + key }

// Reserve claims the key. False means another attempt holds it.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, redisKey(key), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("payments: idempotency reserve: %w", err)
	}
	return ok, nil
}

// Release frees the key so the caller can retry.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("payments: idempotency release: %w", err)
	}
	return nil
}

// InMemoryIdempotencyStore backs tests and single-instance development.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

// NewInMemoryIdempotencyStore initializes an empty store.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{expires: make(map[string]time.Time)}
}

// Reserve claims the key until its TTL lapses or Release is called.
func (s *InMemoryIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, held := s.expires[key]; held && time.Now().Before(deadline) {
		return false, nil
	}
	s.expires[key] = time.Now().Add(ttl)
	return true, nil
}

// Release frees the key.
func (s *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, key)
	return nil
}
