package interfaces

import (
	"context"

	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
)

// GitHubAPI defines the read operations ghfeed performs against GitHub
type GitHubAPI interface {
	// ListReleases returns all releases of the repository in API order
	ListReleases(ctx context.Context, repo types.RepoName) ([]*model.Release, error)

	// LatestRelease returns the newest release. Prereleases are considered only if prerelease is true
	LatestRelease(ctx context.Context, repo types.RepoName, prerelease bool) (*model.Release, error)

	// ListContributors returns contributors ordered by contribution count, descending
	ListContributors(ctx context.Context, repo types.RepoName) ([]*model.Contributor, error)

	// ListMembers returns members of the organization in API order
	ListMembers(ctx context.Context, org string) ([]*model.Member, error)

	// RateLimit returns the core quota of the client
	RateLimit(ctx context.Context) (*model.RateLimit, error)

	// IsRateLimited reports whether no request remains in the current window
	IsRateLimited(ctx context.Context) (bool, error)

	// CheckAvailability returns an error wrapping types.ErrRateLimited if the API can not be used
	CheckAvailability(ctx context.Context) error
}
