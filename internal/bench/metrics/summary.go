package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

// Histogram bounds in microseconds: 1µs to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3_600_000_000
	histogramSigFigs = 3
)

// DurationStats contains percentile statistics over per-item durations.
type DurationStats struct {
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Count  int64         `json:"count"`
}

// RunSummary is the per-run report printed after each configuration.
type RunSummary struct {
	WorkerCount int           `json:"workerCount"`
	NumItems    int           `json:"numItems"`
	Failures    int           `json:"failures"`
	WallClock   time.Duration `json:"wallClock"`
	TotalItem   time.Duration `json:"totalItem"`
	AverageItem time.Duration `json:"averageItem"`

	// Items holds percentiles over successful items only.
	Items DurationStats `json:"items"`
}

// Summarize builds the summary of a single run. The average is 0 for an
// empty run.
func Summarize(rec *bench.RunRecord) RunSummary {
	if rec == nil {
		return RunSummary{}
	}
	return RunSummary{
		WorkerCount: rec.WorkerCount,
		NumItems:    rec.NumItems,
		Failures:    rec.Failures(),
		WallClock:   rec.WallClock(),
		TotalItem:   seconds(rec.TotalItemSeconds()),
		AverageItem: seconds(rec.AverageItemSeconds()),
		Items:       itemStats(rec),
	}
}

// SummarizeSweep summarizes every run in sweep order.
func SummarizeSweep(result *bench.SweepResult) []RunSummary {
	records := result.Records()
	out := make([]RunSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, Summarize(rec))
	}
	return out
}

// itemStats records per-item durations in an HDR histogram. Failed items are
// stored as zero durations; one zero per failure is left out.
func itemStats(rec *bench.RunRecord) DurationStats {
	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)

	skip := rec.Failures()
	for _, d := range rec.PerItemDurations {
		if d == 0 && skip > 0 {
			skip--
			continue
		}
		micros := int64(d * 1e6)
		if micros > histogramMax {
			micros = histogramMax
		}
		_ = hist.RecordValue(micros)
	}

	if hist.TotalCount() == 0 {
		return DurationStats{}
	}

	return DurationStats{
		Min:    time.Duration(hist.Min()) * time.Microsecond,
		Max:    time.Duration(hist.Max()) * time.Microsecond,
		Mean:   time.Duration(hist.Mean()) * time.Microsecond,
		StdDev: time.Duration(hist.StdDev()) * time.Microsecond,
		P50:    time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:    time.Duration(hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:    time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:    time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond,
		Count:  hist.TotalCount(),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
