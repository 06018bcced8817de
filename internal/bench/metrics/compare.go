package metrics

import (
	"sort"
)

// Point is one variant's figures at a worker count.
type Point struct {
	Present          bool    `json:"present"`
	WallClockSeconds float64 `json:"wallClockSeconds"`
	Speedup          float64 `json:"speedup"`
	Efficiency       float64 `json:"efficiency"`
}

// ComparisonRow joins two variants at a worker count.
type ComparisonRow struct {
	WorkerCount int   `json:"workerCount"`
	A           Point `json:"a"`
	B           Point `json:"b"`
}

// Compare joins two analyses on worker count. Rows cover the union of worker
// counts in ascending order; a side missing a count has Present false.
// Speedup and efficiency stay 0 on a side without a baseline.
func Compare(a, b *Analysis) []ComparisonRow {
	seen := make(map[int]struct{})
	for _, an := range []*Analysis{a, b} {
		if an == nil {
			continue
		}
		for _, wc := range an.Result.WorkerCounts() {
			seen[wc] = struct{}{}
		}
	}

	counts := make([]int, 0, len(seen))
	for wc := range seen {
		counts = append(counts, wc)
	}
	sort.Ints(counts)

	rows := make([]ComparisonRow, 0, len(counts))
	for _, wc := range counts {
		rows = append(rows, ComparisonRow{
			WorkerCount: wc,
			A:           pointAt(a, wc),
			B:           pointAt(b, wc),
		})
	}
	return rows
}

func pointAt(a *Analysis, wc int) Point {
	if a == nil {
		return Point{}
	}
	rec, ok := a.Result.Get(wc)
	if !ok {
		return Point{}
	}
	return Point{
		Present:          true,
		WallClockSeconds: rec.WallClockSeconds,
		Speedup:          a.Speedup[wc],
		Efficiency:       a.Efficiency[wc],
	}
}
