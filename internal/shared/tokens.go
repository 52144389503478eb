package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSequencer issues request tokens with INCR so every console instance
// sharing the Redis server agrees on the latest submission of a form.
type RedisSequencer struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisSequencer builds a sequencer. Counters expire after ttl of
// inactivity; zero keeps them forever.
func NewRedisSequencer(client redis.Cmdable, ttl time.Duration) *RedisSequencer {
	return &RedisSequencer{client: client, prefix: "inventario:token:", ttl: ttl}
}

// Next increments the counter of scope.
func (s *RedisSequencer) Next(ctx context.Context, scope string) (uint64, error) {
	key := s.prefix + scope
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("shared: next token: %w", err)
	}
	return uint64(incr.Val()), nil
}

// Current reads the counter of scope, zero when it does not exist.
func (s *RedisSequencer) Current(ctx context.Context, scope string) (uint64, error) {
	n, err := s.client.Get(ctx, s.prefix+scope).Uint64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("shared: current token: %w", err)
	}
	return n, nil
}
