package ratelimit

import (
	"context"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore backs the limiter with Redis string keys carrying a TTL.
type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// A corrupt value counts as an empty window.
		return 0, false, nil
	}
	return n, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, count int64, ttl time.Duration) error {
	return s.client.Set(ctx, key, strconv.FormatInt(count, 10), ttl).Err()
}
