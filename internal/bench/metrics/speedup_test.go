package metrics

import (
	"math"
	"testing"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

func sweepOf(t *testing.T, walls map[int]float64, order ...int) *bench.SweepResult {
	t.Helper()
	s := bench.NewSweepResult("bulk")
	for _, wc := range order {
		rec := &bench.RunRecord{WorkerCount: wc, WallClockSeconds: walls[wc], PerItemDurations: []float64{}}
		if err := s.Add(rec); err != nil {
			t.Fatalf("Add(%d) error = %v", wc, err)
		}
	}
	return s
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestCalculateSpeedup_TwoPoints(t *testing.T) {
	s := sweepOf(t, map[int]float64{1: 10.0, 2: 6.0}, 1, 2)

	speedup := CalculateSpeedup(s)
	efficiency := CalculateEfficiency(speedup)

	if speedup[1] != 1.0 {
		t.Errorf("speedup[1] = %v, want exactly 1.0", speedup[1])
	}
	if !approx(speedup[2], 1.667) {
		t.Errorf("speedup[2] = %v, want ~1.667", speedup[2])
	}
	if efficiency[1] != 1.0 {
		t.Errorf("efficiency[1] = %v, want 1.0", efficiency[1])
	}
	if !approx(efficiency[2], 0.833) {
		t.Errorf("efficiency[2] = %v, want ~0.833", efficiency[2])
	}
}

func TestCalculateSpeedup_BaselineExactlyOne(t *testing.T) {
	// 0.1 + 0.2 style wall-clock values must not leak rounding into speedup[1].
	s := sweepOf(t, map[int]float64{1: 0.1 + 0.2, 4: 0.1}, 1, 4)

	if got := CalculateSpeedup(s)[1]; got != 1.0 {
		t.Errorf("speedup[1] = %v, want exactly 1.0", got)
	}
}

func TestCalculateSpeedup_NoBaseline(t *testing.T) {
	s := sweepOf(t, map[int]float64{2: 6.0, 4: 3.0}, 2, 4)

	speedup := CalculateSpeedup(s)
	efficiency := CalculateEfficiency(speedup)

	if len(speedup) != 0 {
		t.Errorf("speedup = %v, want empty", speedup)
	}
	if len(efficiency) != 0 {
		t.Errorf("efficiency = %v, want empty", efficiency)
	}
}

func TestCalculateSpeedup_NilAndEmpty(t *testing.T) {
	if got := CalculateSpeedup(nil); len(got) != 0 {
		t.Errorf("CalculateSpeedup(nil) = %v, want empty", got)
	}
	if got := CalculateSpeedup(bench.NewSweepResult("bulk")); len(got) != 0 {
		t.Errorf("CalculateSpeedup(empty) = %v, want empty", got)
	}
}

func TestCalculateSpeedup_OmitsAbsentCounts(t *testing.T) {
	s := sweepOf(t, map[int]float64{1: 8, 4: 2}, 1, 4)

	speedup := CalculateSpeedup(s)
	if _, ok := speedup.Lookup(2); ok {
		t.Error("speedup[2] synthesized for absent worker count")
	}
	if got := speedup.Keys(); len(got) != 2 || got[0] != 1 || got[1] != 4 {
		t.Errorf("Keys() = %v, want [1 4]", got)
	}
	if speedup[4] != 4 {
		t.Errorf("speedup[4] = %v, want 4", speedup[4])
	}
}

func TestCalculateSpeedup_ZeroDenominator(t *testing.T) {
	s := sweepOf(t, map[int]float64{1: 5, 2: 0}, 1, 2)

	speedup := CalculateSpeedup(s)
	if got := speedup[2]; got != 0 || math.IsInf(got, 0) || math.IsNaN(got) {
		t.Errorf("speedup[2] = %v, want 0", got)
	}
}

func TestCalculateEfficiency_Invariant(t *testing.T) {
	s := sweepOf(t, map[int]float64{1: 12, 2: 7, 4: 4, 8: 3.5}, 1, 2, 4, 8)

	speedup := CalculateSpeedup(s)
	efficiency := CalculateEfficiency(speedup)

	if len(efficiency) != len(speedup) {
		t.Fatalf("len(efficiency) = %d, want %d", len(efficiency), len(speedup))
	}
	for p, sp := range speedup {
		if efficiency[p] != sp/float64(p) {
			t.Errorf("efficiency[%d] = %v, want %v", p, efficiency[p], sp/float64(p))
		}
	}
}

func TestCalculateEfficiency_NonPositiveKeys(t *testing.T) {
	efficiency := CalculateEfficiency(Table{0: 3, -2: 1, 2: 1.5})

	if efficiency[0] != 0 || efficiency[-2] != 0 {
		t.Errorf("non-positive keys = %v / %v, want 0", efficiency[0], efficiency[-2])
	}
	if efficiency[2] != 0.75 {
		t.Errorf("efficiency[2] = %v, want 0.75", efficiency[2])
	}
}

func TestAnalyze(t *testing.T) {
	s := sweepOf(t, map[int]float64{1: 10, 2: 5, 4: 4}, 1, 2, 4)

	a := Analyze(s)
	if a.Variant != "bulk" {
		t.Errorf("Variant = %q, want bulk", a.Variant)
	}
	if !a.HasBaseline() {
		t.Error("HasBaseline() = false, want true")
	}
	if len(a.Summaries) != 3 {
		t.Errorf("len(Summaries) = %d, want 3", len(a.Summaries))
	}
	if wc, sp := a.Best(); wc != 4 || sp != 2.5 {
		t.Errorf("Best() = %d, %v; want 4, 2.5", wc, sp)
	}

	empty := Analyze(nil)
	if empty.HasBaseline() {
		t.Error("Analyze(nil).HasBaseline() = true, want false")
	}
	if wc, _ := empty.Best(); wc != 0 {
		t.Errorf("Analyze(nil).Best() = %d, want 0", wc)
	}
}
