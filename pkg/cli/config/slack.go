package config

import (
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration. The slack generator is
// enabled only if WebhookURL is set.
type Slack struct {
	WebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL (enables slack generator)",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("GHFEED_SLACK_WEBHOOK_URL"),
		},
	}
}

// Validate checks WebhookURL is an absolute HTTPS URL if set
func (c *Slack) Validate() error {
	if c.WebhookURL == "" {
		return nil
	}

	u, err := url.Parse(c.WebhookURL)
	if err != nil {
		return goerr.Wrap(err, "invalid slack-webhook-url")
	}
	if u.Scheme != "https" || u.Host == "" {
		return goerr.New("slack-webhook-url must be an https URL")
	}
	return nil
}
