package config

import (
	"net/http"
	"os"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration. Either Token or the App settings
// are used for authentication; unauthenticated access is allowed.
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	BaseURL        string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub personal access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GHFEED_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("GHFEED_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("GHFEED_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("GHFEED_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to GitHub App private key (PEM)",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("GHFEED_GITHUB_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub REST API endpoint (GitHub Enterprise Server)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("GHFEED_GITHUB_BASE_URL"),
		},
	}
}

// IsApp reports whether GitHub App authentication is configured
func (c *GitHub) IsApp() bool {
	return c.AppID != 0
}

func (c *GitHub) privateKey() ([]byte, error) {
	switch {
	case c.PrivateKey != "":
		return []byte(c.PrivateKey), nil
	case c.PrivateKeyFile != "":
		data, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
		}
		return data, nil
	default:
		return nil, goerr.New("GitHub App private key is required")
	}
}

// Validate checks the authentication settings. The App private key must be a
// PEM encoded RSA key.
func (c *GitHub) Validate() error {
	if !c.IsApp() {
		return nil
	}
	if c.Token != "" {
		return goerr.New("github-token and github-app-id are exclusive")
	}
	if c.InstallationID == 0 {
		return goerr.New("github-installation-id is required for GitHub App", goerr.V("app_id", c.AppID))
	}

	data, err := c.privateKey()
	if err != nil {
		return err
	}

	key, err := jwk.ParseKey(data, jwk.WithPEM(true))
	if err != nil {
		return goerr.Wrap(err, "failed to parse GitHub App private key", goerr.V("app_id", c.AppID))
	}
	if key.KeyType() != jwa.RSA {
		return goerr.New("GitHub App private key must be RSA",
			goerr.V("app_id", c.AppID),
			goerr.V("key_type", key.KeyType()),
		)
	}

	return nil
}

// NewAPI creates the GitHub API client over httpClient. For App
// authentication a new client sharing the transport of httpClient is used,
// so closing idle connections of httpClient still releases them.
func (c *GitHub) NewAPI(httpClient *http.Client) (interfaces.GitHubAPI, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []github.Option
	if c.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(c.BaseURL))
	}

	if !c.IsApp() {
		if c.Token != "" {
			opts = append(opts, github.WithToken(c.Token))
		}
		return github.NewClient(httpClient, opts...)
	}

	data, err := c.privateKey()
	if err != nil {
		return nil, err
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	tr, err := github.NewAppTransport(base, c.AppID, c.InstallationID, data)
	if err != nil {
		return nil, err
	}

	return github.NewClient(&http.Client{
		Transport: tr,
		Timeout:   httpClient.Timeout,
	}, opts...)
}

// GitHubWebhook holds webhook receiver configuration
type GitHubWebhook struct {
	Secret string `masq:"secret"`
}

// Flags returns CLI flags for GitHub webhook configuration
func (c *GitHubWebhook) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.Secret,
			Sources:     cli.EnvVars("GHFEED_GITHUB_WEBHOOK_SECRET"),
		},
	}
}
