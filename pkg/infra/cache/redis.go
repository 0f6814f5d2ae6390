package cache

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
}

// NewRedis creates a Cache backed by Redis. The caller owns client.
func NewRedis(client *redis.Client) interfaces.Cache {
	return &redisCache{client: client}
}

func (x *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := x.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to get cache entry", goerr.V("key", key))
	}
	return val, true, nil
}

func (x *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := x.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return goerr.Wrap(err, "failed to set cache entry", goerr.V("key", key))
	}
	return nil
}
