package interfaces

import (
	"context"

	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// Runner runs the generator dispatch loop
type Runner interface {
	// Run invokes every configured generator for every entry
	Run(ctx context.Context, cfg *model.Config, trigger string) (*model.Run, error)

	// RunFor is Run restricted to entries of one repository
	RunFor(ctx context.Context, cfg *model.Config, repo types.RepoName, trigger string) (*model.Run, error)
}
