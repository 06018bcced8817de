// Package sweep drives an executor across a sequence of worker counts.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/bench/executor"
	"github.com/wesleyorama2/scaleup/internal/logging"
)

const (
	// DefaultSettleDelay is the idle time between successive runs.
	DefaultSettleDelay = 2 * time.Second
)

// DefaultWorkerCounts returns the default sweep points.
func DefaultWorkerCounts() []int {
	return []int{1, 2, 4, 8}
}

// Options configures a Runner.
type Options struct {
	// WorkerCounts are run in order. Empty means DefaultWorkerCounts.
	WorkerCounts []int

	// SettleDelay is slept between successive runs, never before the first
	// or after the last. Zero disables it.
	SettleDelay time.Duration

	// Logger defaults to the "sweep" component logger.
	Logger *log.Logger

	// OnRunStart is called before each run with its position in the sweep.
	OnRunStart func(workerCount, index, total int)

	// OnRunComplete is called with each successful run.
	OnRunComplete func(rec *bench.RunRecord)
}

// DefaultOptions returns Options with the default worker counts and settle
// delay.
func DefaultOptions() Options {
	return Options{
		WorkerCounts: DefaultWorkerCounts(),
		SettleDelay:  DefaultSettleDelay,
	}
}

// Runner executes one sweep: a run per worker count, strictly sequential.
type Runner struct {
	exec  executor.Executor
	opts  Options
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a runner for exec.
func NewRunner(exec executor.Executor, opts Options) (*Runner, error) {
	if exec == nil {
		return nil, errors.New("sweep: executor is nil")
	}
	if opts.SettleDelay < 0 {
		return nil, fmt.Errorf("sweep: settle delay must be >= 0, got %v", opts.SettleDelay)
	}
	if len(opts.WorkerCounts) == 0 {
		opts.WorkerCounts = DefaultWorkerCounts()
	} else {
		opts.WorkerCounts = append([]int(nil), opts.WorkerCounts...)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Get("sweep")
	}

	return &Runner{
		exec:  exec,
		opts:  opts,
		sleep: sleepContext,
	}, nil
}

// WorkerCounts returns the configured sweep points.
func (r *Runner) WorkerCounts() []int {
	return append([]int(nil), r.opts.WorkerCounts...)
}

// Run executes the sweep over items.
//
// A run that fails to start aborts the remaining sweep. The result returned
// alongside the error holds every run completed before the failure. The
// settle delay is the only point where ctx cancellation is observed; items
// already in flight are never interrupted.
func (r *Runner) Run(ctx context.Context, items []bench.WorkItem) (*bench.SweepResult, error) {
	result := bench.NewSweepResult(string(r.exec.Type()))
	result.RunID = uuid.NewString()

	logger := r.opts.Logger.With("executor", r.exec.Type(), "sweep", result.RunID)
	total := len(r.opts.WorkerCounts)
	logger.Info("sweep started", "items", len(items), "workerCounts", r.opts.WorkerCounts)

	for i, wc := range r.opts.WorkerCounts {
		if i > 0 && r.opts.SettleDelay > 0 {
			logger.Debug("settling", "delay", r.opts.SettleDelay)
			if err := r.sleep(ctx, r.opts.SettleDelay); err != nil {
				return result, fmt.Errorf("sweep interrupted before %d workers: %w", wc, err)
			}
		}

		if r.opts.OnRunStart != nil {
			r.opts.OnRunStart(wc, i, total)
		}

		rec, err := r.exec.Run(ctx, items, wc)
		if err != nil {
			logger.Error("run failed, aborting sweep", "workers", wc, "err", err)
			return result, fmt.Errorf("sweep aborted at %d workers: %w", wc, err)
		}
		if err := result.Add(rec); err != nil {
			return result, fmt.Errorf("recording run for %d workers: %w", wc, err)
		}

		logger.Info("run complete",
			"workers", wc,
			"items", rec.NumItems,
			"failed", rec.Failures(),
			"wall", rec.WallClock())

		if r.opts.OnRunComplete != nil {
			r.opts.OnRunComplete(rec)
		}
	}

	logger.Info("sweep complete", "runs", result.Len())
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
