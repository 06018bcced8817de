// Package bench provides the data model shared by the scaling benchmark:
// work items, the work function contract, run records and sweep results.
package bench

import (
	"context"
	"fmt"
	"time"
)

// WorkItem is an opaque identifier for one unit of input (usually a file path).
// Nothing in the benchmark core interprets its structure.
type WorkItem = string

// WorkFunc is the per-item transformation being benchmarked.
//
// It returns the elapsed time it measured for its own work. It may fail by
// returning an error or by panicking; executors treat both the same way.
type WorkFunc func(ctx context.Context, item WorkItem) (time.Duration, error)

// Outcome is the result of invoking the work function on a single item.
type Outcome struct {
	Item    WorkItem
	Seconds float64
	Err     error
}

// Failed reports whether the invocation failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// RunRecord is the outcome of one (item batch, worker count) execution.
//
// A RunRecord is built by NewRunRecord and must not be modified afterwards.
// PerItemDurations holds one entry per item; failed items contribute 0.0 and
// are also listed in FailedItems, so a zero duration can be told apart from a
// failure.
type RunRecord struct {
	// WorkerCount is the size of the worker pool used for this run.
	WorkerCount int `json:"workerCount" yaml:"workerCount"`

	// NumItems is the number of items submitted, failed ones included.
	NumItems int `json:"numItems" yaml:"numItems"`

	// WallClockSeconds spans pool creation through full drain.
	WallClockSeconds float64 `json:"wallClockSeconds" yaml:"wallClockSeconds"`

	// PerItemDurations are the durations reported by the work function, in
	// seconds. Order is submission order for the bulk executor and
	// completion order for the completion-ordered executor.
	PerItemDurations []float64 `json:"perItemDurations" yaml:"perItemDurations"`

	// FailedItems lists the items whose work function failed.
	FailedItems []WorkItem `json:"failedItems,omitempty" yaml:"failedItems,omitempty"`

	// CompletionOrder maps each PerItemDurations position back to the index
	// of the item in the submitted batch. Empty when durations are already in
	// submission order.
	CompletionOrder []int `json:"completionOrder,omitempty" yaml:"completionOrder,omitempty"`
}

// NewRunRecord builds a RunRecord from per-item outcomes listed in the order
// they were observed. order gives, for each outcome, the index of its item in
// the submitted batch; pass nil when outcomes are in submission order.
func NewRunRecord(workerCount int, outcomes []Outcome, order []int, wallClock time.Duration) *RunRecord {
	wall := wallClock.Seconds()
	if wall < 0 {
		wall = 0
	}

	rec := &RunRecord{
		WorkerCount:      workerCount,
		NumItems:         len(outcomes),
		WallClockSeconds: wall,
		PerItemDurations: make([]float64, len(outcomes)),
	}

	for i, o := range outcomes {
		if o.Failed() {
			rec.FailedItems = append(rec.FailedItems, o.Item)
			continue
		}
		rec.PerItemDurations[i] = o.Seconds
	}

	if len(order) > 0 {
		rec.CompletionOrder = append([]int(nil), order...)
	}

	return rec
}

// Validate checks the structural invariants of the record.
func (r *RunRecord) Validate() error {
	if r.WorkerCount < 1 {
		return fmt.Errorf("worker count must be >= 1, got %d", r.WorkerCount)
	}
	if r.NumItems != len(r.PerItemDurations) {
		return fmt.Errorf("worker count %d: numItems is %d but %d durations recorded",
			r.WorkerCount, r.NumItems, len(r.PerItemDurations))
	}
	if r.WallClockSeconds < 0 {
		return fmt.Errorf("worker count %d: negative wall-clock time %f", r.WorkerCount, r.WallClockSeconds)
	}
	for i, d := range r.PerItemDurations {
		if d < 0 {
			return fmt.Errorf("worker count %d: negative duration %f at position %d", r.WorkerCount, d, i)
		}
	}
	if len(r.CompletionOrder) > 0 && len(r.CompletionOrder) != r.NumItems {
		return fmt.Errorf("worker count %d: completion order has %d entries for %d items",
			r.WorkerCount, len(r.CompletionOrder), r.NumItems)
	}
	return nil
}

// TotalItemSeconds returns the sum of per-item durations.
func (r *RunRecord) TotalItemSeconds() float64 {
	var total float64
	for _, d := range r.PerItemDurations {
		total += d
	}
	return total
}

// AverageItemSeconds returns the mean per-item duration, or 0 for an empty run.
func (r *RunRecord) AverageItemSeconds() float64 {
	if r.NumItems == 0 || len(r.PerItemDurations) == 0 {
		return 0
	}
	return r.TotalItemSeconds() / float64(len(r.PerItemDurations))
}

// Failures returns the number of failed items.
func (r *RunRecord) Failures() int {
	return len(r.FailedItems)
}

// WallClock returns the wall-clock time as a time.Duration.
func (r *RunRecord) WallClock() time.Duration {
	return time.Duration(r.WallClockSeconds * float64(time.Second))
}

// DurationFor returns the duration recorded for the item at the given batch
// index, resolving completion order when present.
func (r *RunRecord) DurationFor(index int) (float64, bool) {
	if index < 0 || index >= len(r.PerItemDurations) {
		return 0, false
	}
	if len(r.CompletionOrder) == 0 {
		return r.PerItemDurations[index], true
	}
	for pos, idx := range r.CompletionOrder {
		if idx == index {
			return r.PerItemDurations[pos], true
		}
	}
	return 0, false
}
