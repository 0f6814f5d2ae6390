package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/ghfeed/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
)

type webhookUseCase struct {
	runner     interfaces.Runner
	cfg        *model.Config
	dispatcher *async.Dispatcher
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithDispatcher sets the dispatcher running triggered runs. Callers use it
// to wait for in-flight runs at shutdown.
func WithDispatcher(dispatcher *async.Dispatcher) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.dispatcher = dispatcher
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(runner interfaces.Runner, cfg *model.Config, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		runner:     runner,
		cfg:        cfg,
		dispatcher: &async.Dispatcher{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent starts a run in background for a published release of a
// configured repository. Other events are only logged.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"triggers_run", event.TriggersRun(),
	)

	if !event.TriggersRun() {
		return nil
	}

	repo, err := types.ParseRepoName(event.Repository)
	if err != nil {
		return goerr.Wrap(err, "invalid repository in webhook event", goerr.V("delivery_id", event.ID))
	}

	if len(uc.cfg.EntriesFor(repo)) == 0 {
		logger.Info("Repository is not configured, ignoring event", "repository", repo.String())
		return nil
	}

	deliveryID := event.ID
	uc.dispatcher.Dispatch(ctx, func(ctx context.Context) error {
		ctx = ctxlog.With(ctx, ctxlog.From(ctx).With("delivery_id", deliveryID))
		ctx = types.WithCacheRefresh(ctx)
		if _, err := uc.runner.RunFor(ctx, uc.cfg, repo, model.TriggerWebhook); err != nil {
			return goerr.Wrap(err, "triggered run failed", goerr.V("repository", repo.String()))
		}
		return nil
	})

	return nil
}
