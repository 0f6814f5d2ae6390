package config

import (
	"context"
	"time"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/infra/cache"
	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
)

// Redis holds response cache configuration. The cache is disabled if Addr
// is empty.
type Redis struct {
	Addr     string
	Password string `masq:"secret"`
	DB       int
	TTL      time.Duration
}

// Flags returns CLI flags for Redis configuration
func (c *Redis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address (host:port) for caching GitHub responses",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("GHFEED_REDIS_ADDR"),
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Destination: &c.Password,
			Sources:     cli.EnvVars("GHFEED_REDIS_PASSWORD"),
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Destination: &c.DB,
			Sources:     cli.EnvVars("GHFEED_REDIS_DB"),
		},
		&cli.DurationFlag{
			Name:        "cache-ttl",
			Usage:       "Lifetime of cached GitHub responses",
			Value:       10 * time.Minute,
			Destination: &c.TTL,
			Sources:     cli.EnvVars("GHFEED_CACHE_TTL"),
		},
	}
}

// Enabled reports whether the cache is configured
func (c *Redis) Enabled() bool {
	return c.Addr != ""
}

// NewCache connects to Redis. It returns nil cache and a no-op closer if
// the cache is disabled.
func (c *Redis) NewCache(ctx context.Context) (interfaces.Cache, func(), error) {
	if !c.Enabled() {
		return nil, func() {}, nil
	}
	if c.TTL <= 0 {
		return nil, nil, goerr.New("cache-ttl must be positive", goerr.V("ttl", c.TTL))
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, goerr.Wrap(err, "failed to connect to Redis", goerr.V("addr", c.Addr))
	}

	return cache.NewRedis(client), func() { _ = client.Close() }, nil
}
