package interfaces

import (
	"context"

	"github.com/m-mizutani/ghfeed/pkg/domain/model"
)

// Generator consumes fetched data for one entry and produces output artifacts
type Generator interface {
	Generate(ctx context.Context, entry *model.Entry, output *model.Output) error
}

// GeneratorProvider resolves generators by name
type GeneratorProvider interface {
	// Get returns the generator registered as name. ok is false if none
	Get(name string) (gen Generator, ok bool)
}
