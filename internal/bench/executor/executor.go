// Package executor provides the worker-pool strategies that run a work
// function over a batch of items.
package executor

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/logging"
)

// Type identifies the type of executor.
type Type string

const (
	// TypeBulk statically partitions the batch across workers and returns
	// durations in submission order.
	TypeBulk Type = "bulk"

	// TypeCompletionOrdered submits each item as its own task and records
	// durations in the order tasks finish.
	TypeCompletionOrdered Type = "completion-ordered"
)

// Executor defines the interface for pool strategies.
//
// Run executes the work function over every item using exactly workerCount
// concurrently active workers and blocks until the whole batch has drained.
// A pool is created for each call and torn down before Run returns. A failing
// item never aborts the run; only a pool that cannot be started does.
type Executor interface {
	// Type returns the executor type.
	Type() Type

	// Run processes items with a pool of workerCount workers.
	Run(ctx context.Context, items []bench.WorkItem, workerCount int) (*bench.RunRecord, error)
}

// ProgressFunc is called after each item finishes. It may be called from
// several goroutines at once.
type ProgressFunc func(done, total int)

// Option configures an executor.
type Option func(*options)

type options struct {
	logger    *log.Logger
	partition Partition
	progress  ProgressFunc
}

func defaultOptions() options {
	return options{
		logger:    logging.Get("executor"),
		partition: PartitionContiguous,
	}
}

// WithLogger sets the logger used for item failures and pool warnings.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPartition sets how the bulk executor assigns items to workers.
// Ignored by the completion-ordered executor.
func WithPartition(p Partition) Option {
	return func(o *options) {
		o.partition = p
	}
}

// WithProgress registers a callback fired after each item.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// startPool validates the pool parameters shared by every strategy.
func startPool(fn bench.WorkFunc, workerCount int, logger *log.Logger) error {
	if fn == nil {
		return &PoolStartupError{WorkerCount: workerCount, Err: ErrNoWorkFunc}
	}
	if workerCount < 1 {
		return &PoolStartupError{WorkerCount: workerCount, Err: ErrInvalidWorkerCount}
	}
	if procs := runtime.GOMAXPROCS(0); workerCount > procs {
		logger.Warn("worker count exceeds available parallelism", "workers", workerCount, "gomaxprocs", procs)
	}
	return nil
}

// invoke runs the work function on a single item. Errors and panics become
// an ItemProcessingError on the returned outcome; they never escape.
func invoke(ctx context.Context, fn bench.WorkFunc, item bench.WorkItem, logger *log.Logger) (out bench.Outcome) {
	out.Item = item

	defer func() {
		if r := recover(); r != nil {
			out.Seconds = 0
			out.Err = &ItemProcessingError{Item: item, Err: fmt.Errorf("panic: %v", r)}
			logger.Error("item failed", "item", item, "err", out.Err)
		}
	}()

	d, err := fn(ctx, item)
	if err != nil {
		out.Err = &ItemProcessingError{Item: item, Err: err}
		logger.Error("item failed", "item", item, "err", err)
		return out
	}

	if d < 0 {
		logger.Warn("negative duration reported, recording zero", "item", item, "duration", d)
		d = 0
	}
	out.Seconds = d.Seconds()
	return out
}

// tracker counts finished items for the progress callback. Callbacks are
// made under the lock so done is strictly increasing across calls.
type tracker struct {
	mu    sync.Mutex
	done  int
	total int
	fn    ProgressFunc
}

func newTracker(total int, fn ProgressFunc) *tracker {
	return &tracker{total: total, fn: fn}
}

func (t *tracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	if t.fn != nil {
		t.fn(t.done, t.total)
	}
}

// logRun reports a finished run at debug level.
func logRun(logger *log.Logger, typ Type, rec *bench.RunRecord, elapsed time.Duration) {
	logger.Debug("run complete",
		"executor", typ,
		"workers", rec.WorkerCount,
		"items", rec.NumItems,
		"failed", rec.Failures(),
		"wall", elapsed)
}
