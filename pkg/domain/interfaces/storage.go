package interfaces

import (
	"context"
	"time"

	"github.com/m-mizutani/ghfeed/pkg/domain/model"
)

// Writer stores generated artifacts
type Writer interface {
	Put(ctx context.Context, path, contentType string, data []byte) error
}

// Cache stores serialized API results
type Cache interface {
	// Get returns (nil, false, nil) on miss
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RunRecorder persists run history
type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.Run) error
}
