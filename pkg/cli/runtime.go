package cli

import (
	"context"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/cli/config"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/generator"
	"github.com/m-mizutani/ghfeed/pkg/infra/github"
	"github.com/m-mizutani/ghfeed/pkg/infra/storage"
	"github.com/m-mizutani/ghfeed/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// appConfig groups the settings needed to run generators
type appConfig struct {
	file      config.File
	github    config.GitHub
	http      config.HTTP
	redis     config.Redis
	gcp       config.GCP
	firestore config.Firestore
	gemini    config.Gemini
	slack     config.Slack
}

func (x *appConfig) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.file.Flags()...)
	flags = append(flags, x.github.Flags()...)
	flags = append(flags, x.http.Flags()...)
	flags = append(flags, x.redis.Flags()...)
	flags = append(flags, x.gcp.Flags()...)
	flags = append(flags, x.firestore.Flags()...)
	flags = append(flags, x.gemini.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	return flags
}

// runtime holds clients created for one command. Close releases them.
type runtime struct {
	cfg      *model.Config
	api      interfaces.GitHubAPI
	provider *generator.Provider
	driver   *usecase.Driver

	closers []func()
}

func (x *runtime) Close() {
	for i := len(x.closers) - 1; i >= 0; i-- {
		x.closers[i]()
	}
}

func newHTTPClient(cfg *config.HTTP) (*http.Client, func()) {
	client := cfg.NewClient()
	return client, client.CloseIdleConnections
}

func (x *appConfig) build(ctx context.Context) (_ *runtime, err error) {
	logger := ctxlog.From(ctx)

	if err := x.slack.Validate(); err != nil {
		return nil, err
	}

	cfg, err := x.file.Load()
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	httpClient, closeHTTP := newHTTPClient(&x.http)
	rt.closers = append(rt.closers, closeHTTP)

	api, err := x.github.NewAPI(httpClient)
	if err != nil {
		return nil, err
	}

	cache, closeCache, err := x.redis.NewCache(ctx)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, closeCache)
	if cache != nil {
		logger.Info("GitHub response cache enabled", "addr", x.redis.Addr, "ttl", x.redis.TTL)
		api = github.NewCachedClient(api, cache, x.redis.TTL)
	}
	rt.api = api

	writer, err := x.newWriter(ctx, rt, &cfg.Output)
	if err != nil {
		return nil, err
	}

	llm, err := x.gemini.NewLLMClient(ctx)
	if err != nil {
		return nil, err
	}

	rt.provider, err = generator.NewDefaultProvider(generator.Deps{
		API:             api,
		Writer:          writer,
		LLM:             llm,
		SlackWebhookURL: x.slack.WebhookURL,
		SlackHTTPClient: httpClient,
		Cache:           cache,
	})
	if err != nil {
		return nil, err
	}

	recorder, closeRecorder, err := x.firestore.NewRecorder(ctx, &x.gcp)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, closeRecorder)

	var opts []usecase.DriverOption
	if recorder != nil {
		logger.Info("Run history enabled", "project_id", x.firestore.ProjectID)
		opts = append(opts, usecase.WithRecorder(recorder))
	}
	rt.driver = usecase.NewDriver(rt.provider, opts...)

	logger.Debug("Runtime ready",
		"config", x.file.Path,
		"entry_count", len(cfg.Entries),
		"generators", rt.provider.Names(),
		"github", x.github,
	)

	return rt, nil
}

func (x *appConfig) newWriter(ctx context.Context, rt *runtime, output *model.Output) (interfaces.Writer, error) {
	switch output.Sink {
	case model.SinkLocal:
		return storage.NewLocal(output.Path), nil
	case model.SinkGCS:
		client, err := x.gcp.NewStorageClient(ctx)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		return storage.NewGCS(client, output.Bucket), nil
	default:
		return nil, goerr.New("unknown output sink", goerr.V("sink", output.Sink))
	}
}
