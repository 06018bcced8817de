// Command generate-sample-report writes an HTML report built from synthetic
// sweeps, for previewing report changes without a dataset.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/bench/executor"
	"github.com/wesleyorama2/scaleup/internal/bench/metrics"
	"github.com/wesleyorama2/scaleup/internal/bench/report"
)

const sampleItems = 200

func main() {
	outputPath := "sample-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	rng := rand.New(rand.NewPCG(1, 2))
	bulk := createSampleSweep(rng, executor.TypeBulk, 0.78)
	ordered := createSampleSweep(rng, executor.TypeCompletionOrdered, 0.86)

	err := report.GenerateHTML(metrics.Analyze(bulk), metrics.Analyze(ordered), report.Options{
		Description: "Synthetic data",
		GeneratedAt: time.Now(),
	}, outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s\n", outputPath)
}

// createSampleSweep fakes a sweep whose parallel fraction is fixed, so the
// speedup follows Amdahl's law with some per-item noise.
func createSampleSweep(rng *rand.Rand, typ executor.Type, parallel float64) *bench.SweepResult {
	result := bench.NewSweepResult(string(typ))

	for _, wc := range []int{1, 2, 4, 8} {
		outcomes := make([]bench.Outcome, sampleItems)
		var total float64
		for i := range outcomes {
			s := 0.04 + rng.Float64()*0.02
			outcomes[i] = bench.Outcome{Item: fmt.Sprintf("sample/%03d.jpg", i), Seconds: s}
			total += s
		}
		if wc == 4 {
			outcomes[7].Err = fmt.Errorf("corrupt image")
		}

		wall := total * ((1 - parallel) + parallel/float64(wc))
		rec := bench.NewRunRecord(wc, outcomes, nil, time.Duration(wall*float64(time.Second)))
		if err := result.Add(rec); err != nil {
			panic(err)
		}
	}
	return result
}
