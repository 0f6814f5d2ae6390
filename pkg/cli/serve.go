package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/cli/config"
	controller "github.com/m-mizutani/ghfeed/pkg/controller/http"
	"github.com/m-mizutani/ghfeed/pkg/usecase"
	"github.com/m-mizutani/ghfeed/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		appCfg    appConfig
		serverCfg config.Server
		hookCfg   config.GitHubWebhook
	)

	flags := append(serverCfg.Flags(), hookCfg.Flags()...)
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server regenerating outputs on GitHub release webhooks",
		Flags:   flags,
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

			var dispatcher async.Dispatcher
			webhookUC := usecase.NewWebhook(rt.driver, rt.cfg, usecase.WithDispatcher(&dispatcher))

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(hookCfg.Secret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				if err != nil {
					return goerr.Wrap(err, "HTTP server error")
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverCfg.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}
			if err := dispatcher.Wait(shutdownCtx); err != nil {
				return goerr.Wrap(err, "triggered runs did not finish")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
