package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/scaleup/internal/bench/config"
	"github.com/wesleyorama2/scaleup/internal/bench/metrics"
	"github.com/wesleyorama2/scaleup/internal/bench/output"
	"github.com/wesleyorama2/scaleup/internal/bench/store"
	"github.com/wesleyorama2/scaleup/internal/logging"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze saved benchmark results",
	Long: `Load the saved results of every configured variant and print the speedup
and efficiency analysis without running the benchmark again.

Missing or unreadable result files are treated as empty; the affected cells
are shown as N/A.

Examples:
  scaleup analyze
  scaleup analyze --results-dir old-results --no-report`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, console, err := setup(cmd, viper.GetViper())
		if err != nil {
			return err
		}
		defer logging.Close()

		return analyzeResults(cmd, cfg, console)
	},
}

// analyzeResults prints the analysis of previously saved sweeps and
// regenerates the report.
func analyzeResults(cmd *cobra.Command, cfg *config.BenchConfig, console *output.Console) error {
	logger := logging.Get("cli")

	console.PrintHeader(cfg.Name, cfg.Description)

	analyses := make([]*metrics.Analysis, 0, len(cfg.Variants))
	for i, variant := range cfg.Variants {
		path := cfg.ResultPath(variant)
		result := store.LoadOrEmpty(path, logger)
		result.Variant = variant

		console.PrintStep(i+1, "Loaded "+variant+" results")
		if result.Len() == 0 {
			console.PrintWarning("No %s results in %s", variant, path)
		}

		a := metrics.Analyze(result)
		for _, s := range a.Summaries {
			console.PrintRunSummary(s)
		}
		analyses = append(analyses, a)
	}

	console.PrintStep(len(cfg.Variants)+1, "Performance analysis")
	a, b := pair(analyses)
	console.PrintAnalysis(a, b)

	return writeOutputs(cmd.Context(), cfg, console, a, b)
}
