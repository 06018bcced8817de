package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

// Partition selects how the bulk executor splits the batch.
type Partition string

const (
	// PartitionContiguous gives each worker one contiguous slice of the
	// batch. Slice sizes differ by at most one.
	PartitionContiguous Partition = "contiguous"

	// PartitionRoundRobin deals items to workers in turn.
	PartitionRoundRobin Partition = "round-robin"
)

// ParsePartition parses a partition name. The empty string selects
// PartitionContiguous.
func ParsePartition(s string) (Partition, error) {
	switch Partition(s) {
	case "", PartitionContiguous:
		return PartitionContiguous, nil
	case PartitionRoundRobin:
		return PartitionRoundRobin, nil
	default:
		return "", fmt.Errorf("unknown partition: %s", s)
	}
}

// Assign returns, for each of workerCount workers, the batch indices it
// processes. Every index in [0, numItems) appears exactly once. Workers may
// receive no indices when workerCount exceeds numItems.
func (p Partition) Assign(numItems, workerCount int) [][]int {
	if workerCount < 1 {
		return nil
	}
	out := make([][]int, workerCount)

	if p == PartitionRoundRobin {
		for i := 0; i < numItems; i++ {
			w := i % workerCount
			out[w] = append(out[w], i)
		}
		return out
	}

	base, extra := numItems/workerCount, numItems%workerCount
	next := 0
	for w := 0; w < workerCount; w++ {
		size := base
		if w < extra {
			size++
		}
		chunk := make([]int, size)
		for j := range chunk {
			chunk[j] = next
			next++
		}
		out[w] = chunk
	}
	return out
}

// Bulk runs the batch over a fixed set of workers, each owning a static
// share of the items. Durations come back in submission order.
type Bulk struct {
	fn   bench.WorkFunc
	opts options
}

// NewBulk creates a bulk executor for the given work function.
func NewBulk(fn bench.WorkFunc, opts ...Option) *Bulk {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Bulk{fn: fn, opts: o}
}

// Type returns the executor type.
func (e *Bulk) Type() Type {
	return TypeBulk
}

// Partition returns the configured partition strategy.
func (e *Bulk) Partition() Partition {
	return e.opts.partition
}

// Run starts workerCount workers and blocks until all items are processed.
func (e *Bulk) Run(ctx context.Context, items []bench.WorkItem, workerCount int) (*bench.RunRecord, error) {
	if err := startPool(e.fn, workerCount, e.opts.logger); err != nil {
		return nil, err
	}

	start := time.Now()

	// Each index is written by exactly one worker.
	outcomes := make([]bench.Outcome, len(items))
	progress := newTracker(len(items), e.opts.progress)

	var wg sync.WaitGroup
	for _, indices := range e.opts.partition.Assign(len(items), workerCount) {
		wg.Add(1)
		go func(indices []int) {
			defer wg.Done()
			for _, i := range indices {
				outcomes[i] = invoke(ctx, e.fn, items[i], e.opts.logger)
				progress.finish()
			}
		}(indices)
	}
	wg.Wait()

	elapsed := time.Since(start)
	rec := bench.NewRunRecord(workerCount, outcomes, nil, elapsed)
	logRun(e.opts.logger, TypeBulk, rec, elapsed)
	return rec, nil
}

var _ Executor = (*Bulk)(nil)
