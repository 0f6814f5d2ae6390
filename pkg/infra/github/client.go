package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/ghfeed/pkg/infra/metrics"
	"github.com/m-mizutani/goerr/v2"
)

const perPage = 100

type client struct {
	githubClient *github.Client
}

type config struct {
	token   string
	baseURL string
}

// Option is a functional option for NewClient
type Option func(*config)

// WithToken authenticates requests with a personal access token
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithBaseURL sets the REST API endpoint, e.g. for GitHub Enterprise Server
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// NewClient creates a GitHubAPI on top of httpClient. The caller owns
// httpClient and is responsible for closing its idle connections.
func NewClient(httpClient *http.Client, opts ...Option) (interfaces.GitHubAPI, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(httpClient)
	if cfg.token != "" {
		githubClient = githubClient.WithAuthToken(cfg.token)
	}

	if cfg.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub base URL", goerr.V("base_url", cfg.baseURL))
		}
		githubClient.BaseURL = u
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// NewAppTransport creates a transport authenticated as a GitHub App installation
func NewAppTransport(base http.RoundTripper, appID, installationID int64, privateKey []byte) (http.RoundTripper, error) {
	itr, err := ghinstallation.New(base, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}
	return itr, nil
}

func (c *client) ListReleases(ctx context.Context, repo types.RepoName) ([]*model.Release, error) {
	const op = "list_releases"
	metrics.APIRequests.WithLabelValues(op).Inc()
	ctxlog.From(ctx).Debug("Listing releases", "repository", repo.String())

	raw, err := listAll(func(opt github.ListOptions) ([]*github.RepositoryRelease, *github.Response, error) {
		return c.githubClient.Repositories.ListReleases(ctx, repo.Owner, repo.Name, &opt)
	})
	if err != nil {
		return nil, apiError(op, err, "failed to list releases", goerr.V("repository", repo.String()))
	}

	releases := make([]*model.Release, 0, len(raw))
	for _, r := range raw {
		release, err := toRelease(r)
		if err != nil {
			return nil, goerr.Wrap(err, "malformed release", goerr.V("repository", repo.String()))
		}
		releases = append(releases, release)
	}

	return releases, nil
}

func (c *client) LatestRelease(ctx context.Context, repo types.RepoName, prerelease bool) (*model.Release, error) {
	const op = "latest_release"
	metrics.APIRequests.WithLabelValues(op).Inc()
	ctxlog.From(ctx).Debug("Getting latest release", "repository", repo.String(), "prerelease", prerelease)

	if !prerelease {
		// The latest endpoint never returns drafts or prereleases
		raw, _, err := c.githubClient.Repositories.GetLatestRelease(ctx, repo.Owner, repo.Name)
		if err != nil {
			return nil, apiError(op, err, "failed to get latest release", goerr.V("repository", repo.String()))
		}
		return toRelease(raw)
	}

	raw, _, err := c.githubClient.Repositories.ListReleases(ctx, repo.Owner, repo.Name, &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, apiError(op, err, "failed to list releases", goerr.V("repository", repo.String()))
	}

	for _, r := range raw {
		if r.GetDraft() {
			continue
		}
		return toRelease(r)
	}

	return nil, goerr.Wrap(types.ErrNotFound, "no published release", goerr.V("repository", repo.String()))
}

func (c *client) ListContributors(ctx context.Context, repo types.RepoName) ([]*model.Contributor, error) {
	const op = "list_contributors"
	metrics.APIRequests.WithLabelValues(op).Inc()
	ctxlog.From(ctx).Debug("Listing contributors", "repository", repo.String())

	raw, err := listAll(func(opt github.ListOptions) ([]*github.Contributor, *github.Response, error) {
		return c.githubClient.Repositories.ListContributors(ctx, repo.Owner, repo.Name, &github.ListContributorsOptions{
			ListOptions: opt,
		})
	})
	if err != nil {
		return nil, apiError(op, err, "failed to list contributors", goerr.V("repository", repo.String()))
	}

	contributors, err := toContributors(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "malformed contributor", goerr.V("repository", repo.String()))
	}
	return contributors, nil
}

func (c *client) ListMembers(ctx context.Context, org string) ([]*model.Member, error) {
	const op = "list_members"
	metrics.APIRequests.WithLabelValues(op).Inc()
	ctxlog.From(ctx).Debug("Listing members", "organization", org)

	raw, err := listAll(func(opt github.ListOptions) ([]*github.User, *github.Response, error) {
		return c.githubClient.Organizations.ListMembers(ctx, org, &github.ListMembersOptions{
			ListOptions: opt,
		})
	})
	if err != nil {
		return nil, apiError(op, err, "failed to list members", goerr.V("organization", org))
	}

	members := make([]*model.Member, 0, len(raw))
	for _, u := range raw {
		member, err := toMember(u)
		if err != nil {
			return nil, goerr.Wrap(err, "malformed member", goerr.V("organization", org))
		}
		members = append(members, member)
	}
	return members, nil
}

func (c *client) RateLimit(ctx context.Context) (*model.RateLimit, error) {
	const op = "rate_limit"
	metrics.APIRequests.WithLabelValues(op).Inc()

	limits, _, err := c.githubClient.RateLimit.Get(ctx)
	if err != nil {
		return nil, apiError(op, err, "failed to get rate limit")
	}

	core := limits.GetCore()
	if core == nil {
		return nil, goerr.New("rate limit response has no core rate")
	}

	metrics.RateLimitRemaining.Set(float64(core.Remaining))
	return &model.RateLimit{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Reset:     core.Reset.Time,
	}, nil
}

func (c *client) IsRateLimited(ctx context.Context) (bool, error) {
	rate, err := c.RateLimit(ctx)
	if err != nil {
		return false, err
	}
	return rate.Exhausted(), nil
}

func (c *client) CheckAvailability(ctx context.Context) error {
	rate, err := c.RateLimit(ctx)
	if err != nil {
		return err
	}
	if rate.Exhausted() {
		return goerr.Wrap(types.ErrRateLimited, "no remaining request",
			goerr.V("limit", rate.Limit),
			goerr.V("reset", rate.Reset),
		)
	}

	ctxlog.From(ctx).Debug("GitHub API is available",
		"remaining", rate.Remaining,
		"limit", rate.Limit,
	)
	return nil
}

// listAll follows pagination until the last page
func listAll[T any](fetch func(opt github.ListOptions) ([]T, *github.Response, error)) ([]T, error) {
	opt := github.ListOptions{PerPage: perPage}
	var all []T
	for {
		items, resp, err := fetch(opt)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opt.Page = resp.NextPage
	}
}

func apiError(op string, err error, msg string, opts ...goerr.Option) error {
	metrics.APIErrors.WithLabelValues(op).Inc()

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		opts = append(opts, goerr.V("reset", rateErr.Rate.Reset.Time), goerr.V("cause", err.Error()))
		return goerr.Wrap(types.ErrRateLimited, msg, opts...)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
		opts = append(opts, goerr.V("cause", err.Error()))
		return goerr.Wrap(types.ErrNotFound, msg, opts...)
	}

	return goerr.Wrap(err, msg, opts...)
}
