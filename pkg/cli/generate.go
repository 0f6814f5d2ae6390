package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdGenerate() *cli.Command {
	var appCfg appConfig

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Run configured generators once",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			rt, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.api.CheckAvailability(ctx); err != nil {
				return goerr.Wrap(err, "GitHub API is not available")
			}

			run, err := rt.driver.Run(ctx, rt.cfg, model.TriggerCLI)
			if err != nil {
				return goerr.Wrap(err, "generation failed", goerr.V("run_id", run.ID))
			}

			var skipped int
			for _, r := range run.Results {
				if r.Skipped {
					skipped++
				}
			}

			logger.Info("Generation completed",
				"run_id", run.ID,
				"duration", run.Duration(),
				"generated", len(run.Results)-skipped,
				"skipped", skipped,
			)
			return nil
		},
	}
}
