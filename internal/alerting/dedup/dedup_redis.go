package dedup

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "fundline/pkg/domain-errors"
)

const keyPrefix = "fundline:alert:dedup:"

// RedisStore shares the dedup window across engine instances. SET NX with a
// TTL makes the first-seen check atomic.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed dedup store.
func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// FirstSeen implements ports.DedupStore.
func (s *RedisStore) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	first, err := s.client.SetNX(ctx, keyPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeDependency, "alert dedup check")
	}
	return first, nil
}
