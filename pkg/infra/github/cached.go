package github

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/ghfeed/pkg/infra/metrics"
)

type cachedClient struct {
	api   interfaces.GitHubAPI
	cache interfaces.Cache
	ttl   time.Duration
}

// NewCachedClient wraps api so that fetched data is served from cache for
// ttl. Rate limit checks always reach api.
func NewCachedClient(api interfaces.GitHubAPI, cache interfaces.Cache, ttl time.Duration) interfaces.GitHubAPI {
	return &cachedClient{
		api:   api,
		cache: cache,
		ttl:   ttl,
	}
}

func (c *cachedClient) ListReleases(ctx context.Context, repo types.RepoName) ([]*model.Release, error) {
	var releases []*model.Release
	err := c.cached(ctx, "releases:"+repo.String(), &releases, func() error {
		var err error
		releases, err = c.api.ListReleases(ctx, repo)
		return err
	})
	return releases, err
}

func (c *cachedClient) LatestRelease(ctx context.Context, repo types.RepoName, prerelease bool) (*model.Release, error) {
	var release *model.Release
	key := "latest:" + repo.String() + ":" + strconv.FormatBool(prerelease)
	err := c.cached(ctx, key, &release, func() error {
		var err error
		release, err = c.api.LatestRelease(ctx, repo, prerelease)
		return err
	})
	return release, err
}

func (c *cachedClient) ListContributors(ctx context.Context, repo types.RepoName) ([]*model.Contributor, error) {
	var contributors []*model.Contributor
	err := c.cached(ctx, "contributors:"+repo.String(), &contributors, func() error {
		var err error
		contributors, err = c.api.ListContributors(ctx, repo)
		return err
	})
	return contributors, err
}

func (c *cachedClient) ListMembers(ctx context.Context, org string) ([]*model.Member, error) {
	var members []*model.Member
	err := c.cached(ctx, "members:"+org, &members, func() error {
		var err error
		members, err = c.api.ListMembers(ctx, org)
		return err
	})
	return members, err
}

func (c *cachedClient) RateLimit(ctx context.Context) (*model.RateLimit, error) {
	return c.api.RateLimit(ctx)
}

func (c *cachedClient) IsRateLimited(ctx context.Context) (bool, error) {
	return c.api.IsRateLimited(ctx)
}

func (c *cachedClient) CheckAvailability(ctx context.Context) error {
	return c.api.CheckAvailability(ctx)
}

// cached fills v from cache, or calls fetch (which must fill v) and stores
// the result. A ctx marked by types.WithCacheRefresh skips the read.
// Cache failures are logged and never fail the call.
func (c *cachedClient) cached(ctx context.Context, key string, v any, fetch func() error) error {
	logger := ctxlog.From(ctx)
	key = types.CacheKeyPrefix + key

	var data []byte
	var ok bool
	var err error
	if types.CacheRefresh(ctx) {
		logger.Debug("Bypassing cache for refresh", "key", key)
	} else {
		data, ok, err = c.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Failed to read cache", "key", key, "error", err)
		}
	}
	if ok {
		if err := json.Unmarshal(data, v); err == nil {
			metrics.CacheHits.Inc()
			logger.Debug("Cache hit", "key", key)
			return nil
		}
		logger.Warn("Discarding malformed cache entry", "key", key)
	}
	metrics.CacheMisses.Inc()

	if err := fetch(); err != nil {
		return err
	}

	data, err = json.Marshal(v)
	if err != nil {
		logger.Warn("Failed to encode cache entry", "key", key, "error", err)
		return nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		logger.Warn("Failed to write cache", "key", key, "error", err)
	}
	return nil
}
