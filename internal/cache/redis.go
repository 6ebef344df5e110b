package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pollpulse:analysis"

// RedisStore is the record-backed cache variant. Redis key expiry
// implements the freshness window, so expired entries are simply absent.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(articleID, kind string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, kind, articleID)
}

func (s *RedisStore) Get(articleID, kind string) (string, bool) {
	result, err := s.client.Get(context.Background(), redisKey(articleID, kind)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		slog.Warn("redis cache read failed", "article_id", articleID, "kind", kind, "error", err)
		return "", false
	}
	return result, true
}

func (s *RedisStore) Put(articleID, kind, result string) {
	err := s.client.Set(context.Background(), redisKey(articleID, kind), result, s.ttl).Err()
	if err != nil {
		slog.Warn("redis cache write failed", "article_id", articleID, "kind", kind, "error", err)
	}
}
