package executor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

// CompletionOrdered submits every item as an independent task to a pool
// bounded at workerCount and collects results as they finish.
//
// Durations are recorded in completion order; RunRecord.CompletionOrder maps
// each position back to the submitted item. Run still waits for the whole
// batch before returning.
type CompletionOrdered struct {
	fn   bench.WorkFunc
	opts options
}

// completed tags an outcome with the batch index it belongs to.
type completed struct {
	index   int
	outcome bench.Outcome
}

// NewCompletionOrdered creates a completion-ordered executor for the given
// work function.
func NewCompletionOrdered(fn bench.WorkFunc, opts ...Option) *CompletionOrdered {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &CompletionOrdered{fn: fn, opts: o}
}

// Type returns the executor type.
func (e *CompletionOrdered) Type() Type {
	return TypeCompletionOrdered
}

// Run submits all items and blocks until every task has completed.
func (e *CompletionOrdered) Run(ctx context.Context, items []bench.WorkItem, workerCount int) (*bench.RunRecord, error) {
	if err := startPool(e.fn, workerCount, e.opts.logger); err != nil {
		return nil, err
	}

	start := time.Now()

	results := make(chan completed, len(items))
	progress := newTracker(len(items), e.opts.progress)

	var pool errgroup.Group
	pool.SetLimit(workerCount)

	// Go blocks once workerCount tasks are in flight, so submission runs
	// beside collection.
	go func() {
		for i, item := range items {
			pool.Go(func() error {
				results <- completed{index: i, outcome: invoke(ctx, e.fn, item, e.opts.logger)}
				progress.finish()
				return nil
			})
		}
		_ = pool.Wait()
		close(results)
	}()

	outcomes := make([]bench.Outcome, 0, len(items))
	order := make([]int, 0, len(items))
	for r := range results {
		outcomes = append(outcomes, r.outcome)
		order = append(order, r.index)
	}

	elapsed := time.Since(start)
	rec := bench.NewRunRecord(workerCount, outcomes, order, elapsed)
	logRun(e.opts.logger, TypeCompletionOrdered, rec, elapsed)
	return rec, nil
}

var _ Executor = (*CompletionOrdered)(nil)
