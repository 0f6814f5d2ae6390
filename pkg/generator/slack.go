package generator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// slackNotifiedTTL bounds how long the last notified tag is remembered
const slackNotifiedTTL = 90 * 24 * time.Hour

type slackNotifier struct {
	api        interfaces.GitHubAPI
	webhookURL string
	httpClient *http.Client
	cache      interfaces.Cache
}

// SlackOption configures the slack generator
type SlackOption func(*slackNotifier)

// WithSlackHTTPClient sets the HTTP client used to post messages
func WithSlackHTTPClient(client *http.Client) SlackOption {
	return func(s *slackNotifier) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithSlackCache makes the generator post each release tag only once
func WithSlackCache(cache interfaces.Cache) SlackOption {
	return func(s *slackNotifier) {
		s.cache = cache
	}
}

// NewSlack creates the generator posting the latest release to a Slack
// incoming webhook
func NewSlack(api interfaces.GitHubAPI, webhookURL string, opts ...SlackOption) interfaces.Generator {
	s := &slackNotifier{
		api:        api,
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func slackNotifiedKey(repo string) string {
	return types.CacheKeyPrefix + "slack:notified:" + repo
}

func (g *slackNotifier) Generate(ctx context.Context, entry *model.Entry, _ *model.Output) error {
	logger := ctxlog.From(ctx)

	repo, err := entry.Repo()
	if err != nil {
		return err
	}

	release, err := g.api.LatestRelease(ctx, repo, entry.Prerelease)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch latest release")
	}

	key := slackNotifiedKey(repo.String())
	if g.cache != nil {
		last, found, err := g.cache.Get(ctx, key)
		if err != nil {
			logger.Warn("Failed to read notified release", "error", err, "repository", repo.String())
		} else if found && string(last) == release.Tag {
			logger.Debug("Release already notified", "repository", repo.String(), "tag", release.Tag)
			return nil
		}
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, g.webhookURL, g.httpClient, buildSlackMessage(repo.String(), release)); err != nil {
		return goerr.Wrap(err, "failed to post slack message",
			goerr.V("repository", repo.String()),
			goerr.V("tag", release.Tag),
		)
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, []byte(release.Tag), slackNotifiedTTL); err != nil {
			logger.Warn("Failed to save notified release", "error", err, "repository", repo.String())
		}
	}

	logger.Info("Posted release to Slack", "repository", repo.String(), "tag", release.Tag)
	return nil
}

func buildSlackMessage(repo string, release *model.Release) *slack.WebhookMessage {
	title := release.Name
	if title == "" {
		title = release.Tag
	}

	color := "good"
	kind := "release"
	if release.Prerelease {
		color = "warning"
		kind = "prerelease"
	}

	return &slack.WebhookMessage{
		Text: fmt.Sprintf("New %s of *%s*: `%s`", kind, repo, release.Tag),
		Attachments: []slack.Attachment{
			{
				Color:     color,
				Title:     title,
				TitleLink: release.URL,
				Text:      release.Body,
				Footer:    fmt.Sprintf("%d assets", len(release.Assets)),
			},
		},
	}
}
