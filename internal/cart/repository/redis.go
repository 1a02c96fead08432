package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/platform/cache"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:"

type RedisStorage struct {
	cache *cache.RedisClient
	ttl   time.Duration
}

// NewRedisStorage stores each cart blob with a sliding ttl refreshed on every write.
func NewRedisStorage(c *cache.RedisClient, ttl time.Duration) *RedisStorage {
	return &RedisStorage{cache: c, ttl: ttl}
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.cache.Client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	return r.cache.Client.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err()
}
