package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/scaleup/internal/archive"
	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/bench/config"
	"github.com/wesleyorama2/scaleup/internal/bench/enumerate"
	"github.com/wesleyorama2/scaleup/internal/bench/executor"
	"github.com/wesleyorama2/scaleup/internal/bench/metrics"
	"github.com/wesleyorama2/scaleup/internal/bench/output"
	"github.com/wesleyorama2/scaleup/internal/bench/report"
	"github.com/wesleyorama2/scaleup/internal/bench/store"
	"github.com/wesleyorama2/scaleup/internal/bench/sweep"
	"github.com/wesleyorama2/scaleup/internal/logging"
	"github.com/wesleyorama2/scaleup/internal/workload"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scaling benchmark",
	Long: `Process every image in the dataset once per worker count and per
executor variant, then print the speedup and efficiency analysis.

Results are saved under <results-dir>/performance_data, one file per variant,
and an HTML comparison report is written to <results-dir>.

If the dataset directory does not exist the command prints a message and
exits without running anything.

Examples:
  scaleup run
  scaleup run --dataset ./images --workers 1,2,4,8,16
  scaleup run --variants completion-ordered --settle-delay 500ms
  scaleup run --archive results.zip`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, console, err := setup(cmd, viper.GetViper())
		if err != nil {
			return err
		}
		defer logging.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return runBenchmark(ctx, cfg, console, nil)
	},
}

func init() {
	f := runCmd.Flags()
	f.StringP("dataset", "d", "", "dataset root directory (default: food101_subset)")
	f.StringP("workers", "w", "", "comma-separated worker counts (default: 1,2,4,8)")
	f.String("variants", "", "comma-separated executor variants (default: bulk,completion-ordered)")
	f.String("settle-delay", "", "idle time between runs, e.g. 2s or 500ms")
	f.String("partition", "", "bulk executor partition: contiguous or round-robin")
	f.String("images-dir", "", "directory for filtered images (default: <results-dir>/output_images)")
	f.String("archive", "", "zip the results directory into this file")

	_ = viper.BindPFlags(f)
}

// runBenchmark drives a full benchmark: dataset check, one sweep per
// variant, persistence, analysis, report and archive. fn replaces the image
// workload when non-nil.
func runBenchmark(ctx context.Context, cfg *config.BenchConfig, console *output.Console, fn bench.WorkFunc) error {
	logger := logging.Get("cli")

	delay, err := cfg.SettleDelay()
	if err != nil {
		return err
	}
	partition, err := executor.ParsePartition(cfg.Executor.Partition)
	if err != nil {
		return err
	}

	console.PrintHeader(cfg.Name, cfg.Description)

	step := 1
	console.PrintStep(step, "Loading dataset")
	if err := enumerate.CheckRoot(cfg.Dataset.Root); err != nil {
		var missing *enumerate.DatasetMissingError
		if errors.As(err, &missing) {
			logger.Warn("dataset missing, nothing to do", "root", missing.Root)
			console.PrintDatasetMissing(missing.Root)
			return nil
		}
		return err
	}

	items, err := enumerate.New(cfg.Dataset.Suffixes...).Enumerate(ctx, cfg.Dataset.Root)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		console.PrintWarning("No images found in %s", cfg.Dataset.Root)
		return nil
	}
	console.PrintInfo("Found %s images in %s", humanize.Comma(int64(len(items))), cfg.Dataset.Root)

	if fn == nil {
		proc, err := workload.NewImageProcessor(workload.Config{
			DatasetRoot: cfg.Dataset.Root,
			OutputDir:   cfg.ImagesDir(),
			Brightness:  cfg.Workload.Brightness,
			JPEGQuality: cfg.Workload.JPEGQuality,
			Logger:      logging.Get("workload"),
		})
		if err != nil {
			return err
		}
		fn = proc.WorkFunc()
	}

	analyses := make([]*metrics.Analysis, 0, len(cfg.Variants))
	for _, variant := range cfg.Variants {
		step++
		console.PrintStep(step, fmt.Sprintf("Running %s sweep", variant))

		exec, err := executor.NewExecutorFromString(variant, fn,
			executor.WithLogger(logging.Get("executor")),
			executor.WithPartition(partition),
			executor.WithProgress(console.Progress))
		if err != nil {
			return err
		}

		result, runErr := runSweep(ctx, exec, items, cfg.Sweep.WorkerCounts, delay, console)
		if result != nil && result.Len() > 0 {
			if err := saveResult(cfg, result, console); err != nil {
				return err
			}
		}
		if runErr != nil {
			return runErr
		}
		analyses = append(analyses, metrics.Analyze(result))
	}

	step++
	console.PrintStep(step, "Performance analysis")
	a, b := pair(analyses)
	console.PrintAnalysis(a, b)

	return writeOutputs(ctx, cfg, console, a, b)
}

// runSweep runs one variant across every worker count. On abort the runs
// completed so far are returned with the error.
func runSweep(ctx context.Context, exec executor.Executor, items []bench.WorkItem, counts []int, delay time.Duration, console *output.Console) (*bench.SweepResult, error) {
	variant := string(exec.Type())

	runner, err := sweep.NewRunner(exec, sweep.Options{
		WorkerCounts: counts,
		SettleDelay:  delay,
		Logger:       logging.Get("sweep"),
		OnRunStart: func(workerCount, index, total int) {
			console.PrintRunStart(variant, workerCount, index, total)
		},
		OnRunComplete: func(rec *bench.RunRecord) {
			console.PrintRunSummary(metrics.Summarize(rec))
		},
	})
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, items)
}

func saveResult(cfg *config.BenchConfig, result *bench.SweepResult, console *output.Console) error {
	path := cfg.ResultPath(result.Variant)
	if err := store.Save(path, result); err != nil {
		return err
	}
	logging.Get("cli").Info("results saved", "variant", result.Variant, "path", path, "runs", result.Len())
	console.PrintSuccess("Saved %s results to %s", result.Variant, path)
	return nil
}

// writeOutputs writes the HTML report and the optional archive.
func writeOutputs(ctx context.Context, cfg *config.BenchConfig, console *output.Console, a, b *metrics.Analysis) error {
	if !cfg.Output.NoReport && (a != nil || b != nil) {
		path := cfg.ReportPath()
		err := report.GenerateHTML(a, b, report.Options{
			Title:       report.DefaultTitle,
			Description: cfg.Description,
			GeneratedAt: time.Now(),
		}, path)
		if err != nil {
			return fmt.Errorf("generating HTML report: %w", err)
		}
		console.PrintSuccess("Report: %s", path)
	}

	if cfg.Output.Archive != "" {
		res, err := archive.Create(ctx, cfg.Output.ResultsDir, cfg.Output.Archive)
		if err != nil {
			return err
		}
		console.PrintArchive(res.Path, res.Size)
	}
	return nil
}

// pair returns the first two analyses; missing ones are nil.
func pair(analyses []*metrics.Analysis) (a, b *metrics.Analysis) {
	if len(analyses) > 0 {
		a = analyses[0]
	}
	if len(analyses) > 1 {
		b = analyses[1]
	}
	return a, b
}

// parseWorkerCounts parses a comma-separated list such as "1,2,4,8".
func parseWorkerCounts(s string) ([]int, error) {
	var counts []int
	for _, part := range parseList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid worker count %q: %w", part, err)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no worker counts in %q", s)
	}
	return counts, nil
}

// parseList splits a comma-separated flag value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
