package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/bench/metrics"
)

func newTestConsole(buf *bytes.Buffer) *Console {
	return NewConsole(ConsoleConfig{Writer: buf, NoColor: true})
}

func sweep(t *testing.T, variant string, walls map[int]float64, order ...int) *bench.SweepResult {
	t.Helper()
	s := bench.NewSweepResult(variant)
	for _, wc := range order {
		rec := &bench.RunRecord{WorkerCount: wc, WallClockSeconds: walls[wc], PerItemDurations: []float64{}}
		if err := s.Add(rec); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0ms"},
		{500 * time.Microsecond, "500µs"},
		{50 * time.Millisecond, "50ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatDurationShort(tt.duration)
			if result != tt.expected {
				t.Errorf("formatDurationShort(%v) = %q, want %q", tt.duration, result, tt.expected)
			}
		})
	}
}

func TestRenderProgressBar(t *testing.T) {
	tests := []struct {
		progress float64
		filled   int
	}{
		{-1, 0},
		{0, 0},
		{0.5, 5},
		{1, 10},
		{2, 10},
	}

	for _, tt := range tests {
		bar := renderProgressBar(tt.progress, 10)
		if got := strings.Count(bar, progressFilled); got != tt.filled {
			t.Errorf("renderProgressBar(%v) filled = %d, want %d", tt.progress, got, tt.filled)
		}
		if got := strings.Count(bar, progressFilled) + strings.Count(bar, progressEmpty); got != 10 {
			t.Errorf("renderProgressBar(%v) width = %d, want 10", tt.progress, got)
		}
	}
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf)

	c.PrintRunSummary(metrics.RunSummary{
		WorkerCount: 4,
		NumItems:    1200,
		Failures:    2,
		WallClock:   3 * time.Second,
		TotalItem:   10 * time.Second,
		AverageItem: 8 * time.Millisecond,
	})

	out := buf.String()
	for _, want := range []string{
		"Workers:                4",
		"Items processed:        1,200",
		"Failed items:           2",
		"Wall-clock time:        3.00 seconds",
		"Processing time (sum):  10.00 seconds",
		"Average per item:       8ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("NoColor output contains ANSI escapes")
	}
}

func TestPrintRunSummary_NoFailuresLine(t *testing.T) {
	var buf bytes.Buffer
	newTestConsole(&buf).PrintRunSummary(metrics.RunSummary{WorkerCount: 1})

	if strings.Contains(buf.String(), "Failed items") {
		t.Errorf("unexpected failures line:\n%s", buf.String())
	}
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf)

	a := metrics.Analyze(sweep(t, "bulk", map[int]float64{1: 10, 2: 5}, 1, 2))
	b := metrics.Analyze(sweep(t, "completion-ordered", map[int]float64{1: 8, 4: 2}, 1, 4))
	c.PrintAnalysis(a, b)

	out := buf.String()
	for _, want := range []string{
		"PERFORMANCE ANALYSIS SUMMARY",
		"SPEEDUP ANALYSIS",
		"EFFICIENCY ANALYSIS",
		"bulk speedup",
		"completion-ordered efficiency",
		"2.00x",
		"4.00x",
		"100.0%",
		"Best completion-ordered speedup: 4.00x at 4 workers",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// bulk has no 4-worker run and completion-ordered has no 2-worker run.
	if n := strings.Count(out, notAvailable); n != 6 {
		t.Errorf("N/A count = %d, want 6:\n%s", n, out)
	}
}

func TestPrintAnalysis_NoBaseline(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf)

	c.PrintAnalysis(metrics.Analyze(sweep(t, "bulk", map[int]float64{2: 4}, 2)), nil)

	out := buf.String()
	if !strings.Contains(out, "4.00s") {
		t.Errorf("wall-clock time missing:\n%s", out)
	}
	if !strings.Contains(out, "no single-worker baseline") {
		t.Errorf("baseline warning missing:\n%s", out)
	}
}

func TestPrintAnalysis_Empty(t *testing.T) {
	var buf bytes.Buffer
	newTestConsole(&buf).PrintAnalysis(nil, metrics.Analyze(nil))

	if !strings.Contains(buf.String(), "No results to analyze.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newTestConsole(&buf).Progress(1, 2)
	if buf.Len() != 0 {
		t.Errorf("non-TTY progress wrote %q", buf.String())
	}

	buf.Reset()
	c := NewConsole(ConsoleConfig{Writer: &buf, NoColor: true, ForceTTY: true})
	c.Progress(1, 2)
	if !strings.Contains(buf.String(), " 50%") {
		t.Errorf("progress = %q", buf.String())
	}
	c.Progress(2, 2)
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("completed progress should end the line")
	}
}

func TestQuiet(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(ConsoleConfig{Writer: &buf, Quiet: true, ForceTTY: true})

	c.PrintHeader("title", "")
	c.PrintStep(1, "step")
	c.PrintRunStart("bulk", 1, 0, 1)
	c.Progress(1, 1)
	c.PrintRunSummary(metrics.RunSummary{})
	c.PrintAnalysis(nil, nil)
	c.PrintInfo("info")

	if buf.Len() != 0 {
		t.Errorf("quiet console wrote %q", buf.String())
	}
}

func TestPrintStepAndDatasetMissing(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf)

	c.PrintStep(2, "Running sweeps")
	c.PrintDatasetMissing("food101_subset/")

	out := buf.String()
	if !strings.Contains(out, "STEP 2: Running sweeps") {
		t.Errorf("step banner missing:\n%s", out)
	}
	if !strings.Contains(out, "Dataset not found: food101_subset/") {
		t.Errorf("dataset message missing:\n%s", out)
	}
}
