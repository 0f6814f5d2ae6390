package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/ghfeed/pkg/infra/metrics"
	"github.com/m-mizutani/goerr/v2"
)

// Driver runs configured generators against configured entries, one run at a
// time
type Driver struct {
	provider interfaces.GeneratorProvider
	recorder interfaces.RunRecorder
	now      func() time.Time

	mu sync.Mutex
}

var _ interfaces.Runner = (*Driver)(nil)

// DriverOption configures Driver
type DriverOption func(*Driver)

// WithRecorder persists every run with recorder
func WithRecorder(recorder interfaces.RunRecorder) DriverOption {
	return func(d *Driver) {
		d.recorder = recorder
	}
}

// WithClock replaces the time source of run timestamps
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) {
		d.now = now
	}
}

// NewDriver creates a Driver resolving generators with provider
func NewDriver(provider interfaces.GeneratorProvider, opts ...DriverOption) *Driver {
	d := &Driver{
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run invokes every generator of every entry in declaration order. Unknown
// generator names are skipped. The first generator error aborts the run.
func (d *Driver) Run(ctx context.Context, cfg *model.Config, trigger string) (*model.Run, error) {
	return d.run(ctx, cfg.Entries, &cfg.Output, trigger)
}

// RunFor is Run restricted to entries whose repository is repo
func (d *Driver) RunFor(ctx context.Context, cfg *model.Config, repo types.RepoName, trigger string) (*model.Run, error) {
	return d.run(ctx, cfg.EntriesFor(repo), &cfg.Output, trigger)
}

func (d *Driver) run(ctx context.Context, entries []model.Entry, output *model.Output, trigger string) (*model.Run, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	run := &model.Run{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: d.now(),
	}
	logger := ctxlog.From(ctx).With("run_id", run.ID)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Starting run", "trigger", trigger, "entry_count", len(entries))

	err := d.dispatch(ctx, run, entries, output)

	run.FinishedAt = d.now()
	metrics.RunDuration.Observe(run.Duration().Seconds())
	if err != nil {
		run.Error = err.Error()
	}

	if d.recorder != nil {
		if recErr := d.recorder.SaveRun(ctx, run); recErr != nil {
			logger.Error("Failed to save run", "error", recErr)
		}
	}

	if err != nil {
		return run, err
	}

	logger.Info("Finished run",
		"duration", run.Duration(),
		"result_count", len(run.Results),
	)
	return run, nil
}

const unknownGeneratorLabel = "unknown"

func (d *Driver) dispatch(ctx context.Context, run *model.Run, entries []model.Entry, output *model.Output) error {
	logger := ctxlog.From(ctx)

	for i := range entries {
		entry := &entries[i]
		for _, name := range entry.Generators {
			result := model.RunResult{Entry: entry.ID(), Generator: name}

			gen, ok := d.provider.Get(name)
			if !ok {
				logger.Debug("Generator not found, skipping", "entry", entry.ID(), "generator", name)
				result.Skipped = true
				run.Results = append(run.Results, result)
				// unresolved names share one series
				metrics.GeneratorRuns.WithLabelValues(unknownGeneratorLabel, "skipped").Inc()
				continue
			}

			logger.Debug("Running generator", "entry", entry.ID(), "generator", name)
			if err := gen.Generate(ctx, entry, output); err != nil {
				result.Error = err.Error()
				run.Results = append(run.Results, result)
				metrics.GeneratorRuns.WithLabelValues(name, "error").Inc()
				return goerr.Wrap(err, "generator failed",
					goerr.V("entry", entry.ID()),
					goerr.V("generator", name),
				)
			}

			run.Results = append(run.Results, result)
			metrics.GeneratorRuns.WithLabelValues(name, "ok").Inc()
		}
	}

	return nil
}
