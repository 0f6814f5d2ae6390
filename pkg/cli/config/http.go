package config

import (
	"net/http"
	"time"

	"github.com/urfave/cli/v3"
)

// HTTP holds outbound HTTP client configuration
type HTTP struct {
	Timeout time.Duration
}

// Flags returns CLI flags for HTTP client configuration
func (c *HTTP) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "http-timeout",
			Usage:       "Timeout of outbound HTTP requests",
			Value:       30 * time.Second,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("GHFEED_HTTP_TIMEOUT"),
		},
	}
}

// NewClient creates an HTTP client with its own transport. The caller must
// call CloseIdleConnections when done.
func (c *HTTP) NewClient() *http.Client {
	return &http.Client{
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
		Timeout:   c.Timeout,
	}
}
