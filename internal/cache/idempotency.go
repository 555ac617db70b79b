// Package cache holds the Redis-backed idempotency guard used by sale submissions.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "idempotency:sale:"

// IdempotencyGuard claims submission keys so a retried request is not applied twice
type IdempotencyGuard interface {
	// Claim returns false when key was already claimed and not yet expired
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so the submission can be retried
	Release(ctx context.Context, key string) error
}

type redisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard creates an IdempotencyGuard storing keys in Redis for ttl
func NewRedisGuard(client *redis.Client, ttl time.Duration) IdempotencyGuard {
	return &redisGuard{client: client, ttl: ttl}
}

func (g *redisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, g.ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (g *redisGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

type noopGuard struct{}

// NewNoopGuard returns a guard that accepts every key. Used when Redis is disabled.
func NewNoopGuard() IdempotencyGuard {
	return noopGuard{}
}

func (noopGuard) Claim(ctx context.Context, key string) (bool, error) { return true, nil }

func (noopGuard) Release(ctx context.Context, key string) error { return nil }
