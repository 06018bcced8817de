// Package metrics derives speedup, efficiency and per-run statistics from
// sweep results.
package metrics

import (
	"sort"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

// Table maps worker counts to a derived value (speedup or efficiency).
type Table map[int]float64

// Keys returns the worker counts in ascending order.
func (t Table) Keys() []int {
	keys := make([]int, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Lookup returns the value for a worker count.
func (t Table) Lookup(workerCount int) (float64, bool) {
	v, ok := t[workerCount]
	return v, ok
}

// CalculateSpeedup returns baseline wall-clock time divided by each run's
// wall-clock time. The baseline is the run with one worker; without it the
// table is empty. speedup[1] is exactly 1.0. A run with a zero wall-clock
// time yields 0 rather than an infinite speedup. Worker counts absent from
// the sweep are never synthesized.
func CalculateSpeedup(result *bench.SweepResult) Table {
	speedup := make(Table)

	base, ok := result.Get(1)
	if !ok {
		return speedup
	}

	for _, rec := range result.Records() {
		if rec.WorkerCount == 1 {
			speedup[1] = 1.0
			continue
		}
		if rec.WallClockSeconds <= 0 {
			speedup[rec.WorkerCount] = 0
			continue
		}
		speedup[rec.WorkerCount] = base.WallClockSeconds / rec.WallClockSeconds
	}
	return speedup
}

// CalculateEfficiency returns speedup[p] / p for every p in speedup.
// Non-positive worker counts map to 0.
func CalculateEfficiency(speedup Table) Table {
	efficiency := make(Table, len(speedup))
	for p, s := range speedup {
		if p <= 0 {
			efficiency[p] = 0
			continue
		}
		efficiency[p] = s / float64(p)
	}
	return efficiency
}

// Analysis bundles a sweep with the tables derived from it.
type Analysis struct {
	Variant    string
	Result     *bench.SweepResult
	Speedup    Table
	Efficiency Table
	Summaries  []RunSummary
}

// Analyze computes speedup, efficiency and run summaries for a sweep. A nil
// result yields empty tables.
func Analyze(result *bench.SweepResult) *Analysis {
	a := &Analysis{Result: result}
	if result != nil {
		a.Variant = result.Variant
	}
	a.Speedup = CalculateSpeedup(result)
	a.Efficiency = CalculateEfficiency(a.Speedup)
	a.Summaries = SummarizeSweep(result)
	return a
}

// HasBaseline reports whether the analysis has a single-worker baseline.
func (a *Analysis) HasBaseline() bool {
	return len(a.Speedup) > 0
}

// Best returns the worker count with the highest speedup, or 0 when the
// table is empty. Ties go to the smaller worker count.
func (a *Analysis) Best() (workerCount int, speedup float64) {
	for _, p := range a.Speedup.Keys() {
		if s := a.Speedup[p]; workerCount == 0 || s > speedup {
			workerCount, speedup = p, s
		}
	}
	return workerCount, speedup
}
