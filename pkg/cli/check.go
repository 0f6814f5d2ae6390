package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/ghfeed/pkg/cli/config"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdCheck() *cli.Command {
	var (
		githubCfg config.GitHub
		httpCfg   config.HTTP
	)

	flags := append(githubCfg.Flags(), httpCfg.Flags()...)

	return &cli.Command{
		Name:  "check",
		Usage: "Check GitHub API availability and remaining rate limit",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			httpClient, closeHTTP := newHTTPClient(&httpCfg)
			defer closeHTTP()

			api, err := githubCfg.NewAPI(httpClient)
			if err != nil {
				return err
			}

			limit, err := api.RateLimit(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to get rate limit")
			}
			printRateLimit(c.Root().Writer, limit)

			return api.CheckAvailability(ctx)
		},
	}
}

func printRateLimit(w io.Writer, limit *model.RateLimit) {
	status := color.New(color.FgGreen, color.Bold).Sprint("available")
	switch {
	case limit.Exhausted():
		status = color.New(color.FgRed, color.Bold).Sprint("rate limited")
	case limit.Limit > 0 && limit.Remaining*10 < limit.Limit:
		status = color.New(color.FgYellow, color.Bold).Sprint("low")
	}

	fmt.Fprintf(w, "GitHub API: %s\n", status)
	fmt.Fprintf(w, "  remaining: %d / %d\n", limit.Remaining, limit.Limit)
	if !limit.Reset.IsZero() {
		fmt.Fprintf(w, "  reset:     %s (in %s)\n",
			limit.Reset.Local().Format(time.RFC3339),
			time.Until(limit.Reset).Round(time.Second),
		)
	}
}
