package generator_test

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
)

type fakeAPI struct {
	releases     []*model.Release
	contributors []*model.Contributor
	members      []*model.Member
	err          error
}

var _ interfaces.GitHubAPI = (*fakeAPI)(nil)

func (x *fakeAPI) ListReleases(ctx context.Context, repo types.RepoName) ([]*model.Release, error) {
	return x.releases, x.err
}

func (x *fakeAPI) LatestRelease(ctx context.Context, repo types.RepoName, prerelease bool) (*model.Release, error) {
	if x.err != nil {
		return nil, x.err
	}
	for _, r := range x.releases {
		if prerelease || !r.Prerelease {
			return r, nil
		}
	}
	return nil, types.ErrNotFound
}

func (x *fakeAPI) ListContributors(ctx context.Context, repo types.RepoName) ([]*model.Contributor, error) {
	return x.contributors, x.err
}

func (x *fakeAPI) ListMembers(ctx context.Context, org string) ([]*model.Member, error) {
	return x.members, x.err
}

func (x *fakeAPI) RateLimit(ctx context.Context) (*model.RateLimit, error) {
	return &model.RateLimit{Limit: 5000, Remaining: 5000}, nil
}

func (x *fakeAPI) IsRateLimited(ctx context.Context) (bool, error) {
	return false, nil
}

func (x *fakeAPI) CheckAvailability(ctx context.Context) error {
	return nil
}

type object struct {
	contentType string
	data        []byte
}

type memoryWriter struct {
	mu      sync.Mutex
	objects map[string]object
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{objects: make(map[string]object)}
}

func (x *memoryWriter) Put(ctx context.Context, path, contentType string, data []byte) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.objects[path] = object{contentType: contentType, data: data}
	return nil
}

func (x *memoryWriter) get(path string) (object, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	obj, ok := x.objects[path]
	return obj, ok
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (x *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	v, ok := x.data[key]
	return v, ok, nil
}

func (x *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.data[key] = value
	return nil
}

func testReleases() []*model.Release {
	return []*model.Release{
		{
			Tag:         "v1.1.0-rc1",
			Prerelease:  true,
			PublishedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			Body:        "Try the new exporter",
		},
		{
			Tag:         "v1.0.0",
			Name:        "First stable",
			PublishedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			URL:         "https://github.com/acme/tool/releases/tag/v1.0.0",
			Body:        "Initial stable release",
			Assets: []model.Asset{
				{Name: "tool_linux_amd64.tar.gz", DownloadURL: "https://example.com/tool_linux_amd64.tar.gz"},
			},
		},
	}
}
