package types

import "context"

// CacheKeyPrefix namespaces every key ghfeed writes to a shared cache.
const CacheKeyPrefix = "ghfeed:v1:"

type cacheRefreshKey struct{}

// WithCacheRefresh marks ctx so that cached GitHub reads are fetched again
// and the cache is overwritten with the fresh result.
func WithCacheRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, cacheRefreshKey{}, true)
}

// CacheRefresh reports whether ctx was marked by WithCacheRefresh.
func CacheRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(cacheRefreshKey{}).(bool)
	return v
}
