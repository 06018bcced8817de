package cli

import (
	"fmt"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/scaleup/internal/bench/config"
	"github.com/wesleyorama2/scaleup/internal/bench/output"
	"github.com/wesleyorama2/scaleup/internal/logging"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "scaleup",
	Short:   "Measure how a parallel image workload scales with worker count",
	Version: version,
	Long: `Scaleup runs an image-processing workload over a dataset with an
increasing number of workers and reports the speedup and parallel efficiency
of each configuration.

Two pool strategies are compared: a bulk executor that statically splits the
batch across workers, and a completion-ordered executor that submits one
task per image.

Examples:
  scaleup run                          # defaults: food101_subset, 1,2,4,8 workers
  scaleup run --config bench.yaml
  scaleup run --workers 1,2,4 --variants bulk --settle-delay 0
  scaleup analyze --results-dir results
  scaleup executors`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initViper)

	pf := RootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "benchmark config file (default: $XDG_CONFIG_HOME/scaleup/config.yaml)")
	pf.String("results-dir", "", "results directory (default: results)")
	pf.String("format", "", "result file format: json or yaml")
	pf.Bool("no-report", false, "skip the HTML report")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also write logs to this file")
	pf.Bool("log-json", false, "write logs as JSON lines")
	pf.BoolP("quiet", "q", false, "suppress console output")
	pf.Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlags(pf)

	// Add subcommands to root command
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(analyzeCmd)
	RootCmd.AddCommand(executorsCmd)
}

// initViper enables SCALEUP_* environment overrides for every bound flag.
func initViper() {
	viper.SetEnvPrefix("SCALEUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// resolveConfigPath returns the config file to load: the --config flag or
// SCALEUP_CONFIG, then scaleup/config.yaml under the XDG config dirs. An
// empty path means built-in defaults.
func resolveConfigPath(v *viper.Viper) string {
	if path := v.GetString("config"); path != "" {
		return path
	}
	path, err := xdg.SearchConfigFile("scaleup/config.yaml")
	if err != nil {
		return ""
	}
	return path
}

// loadConfig loads the benchmark configuration, applies flag and environment
// overrides, fills defaults and validates the result.
func loadConfig(v *viper.Viper) (*config.BenchConfig, error) {
	var cfg *config.BenchConfig
	if path := resolveConfigPath(v); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.BenchConfig{}
	}

	if err := applyOverrides(v, cfg); err != nil {
		return nil, err
	}
	config.ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides copies every explicitly set flag or environment value into
// cfg. Values left unset keep whatever the config file said.
func applyOverrides(v *viper.Viper, cfg *config.BenchConfig) error {
	if v.IsSet("dataset") {
		cfg.Dataset.Root = v.GetString("dataset")
	}
	if v.IsSet("workers") {
		counts, err := parseWorkerCounts(v.GetString("workers"))
		if err != nil {
			return err
		}
		cfg.Sweep.WorkerCounts = counts
	}
	if v.IsSet("settle-delay") {
		cfg.Sweep.SettleDelay = v.GetString("settle-delay")
	}
	if v.IsSet("variants") {
		cfg.Variants = parseList(v.GetString("variants"))
	}
	if v.IsSet("partition") {
		cfg.Executor.Partition = v.GetString("partition")
	}
	if v.IsSet("images-dir") {
		cfg.Workload.OutputDir = v.GetString("images-dir")
	}
	if v.IsSet("results-dir") {
		cfg.Output.ResultsDir = v.GetString("results-dir")
	}
	if v.IsSet("format") {
		cfg.Output.Format = v.GetString("format")
	}
	if v.IsSet("no-report") {
		cfg.Output.NoReport = v.GetBool("no-report")
	}
	if v.IsSet("archive") {
		cfg.Output.Archive = v.GetString("archive")
	}
	if v.IsSet("log-level") {
		cfg.Logging.Level = v.GetString("log-level")
	}
	if v.IsSet("log-file") {
		cfg.Logging.File = v.GetString("log-file")
	}
	if v.IsSet("log-json") {
		cfg.Logging.JSON = v.GetBool("log-json")
	}
	return nil
}

// setup loads the configuration, initializes logging and builds the console.
func setup(cmd *cobra.Command, v *viper.Viper) (*config.BenchConfig, *output.Console, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, nil, err
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.File,
		Components: cfg.Logging.Components,
		JSON:       cfg.Logging.JSON,
		Writer:     cmd.ErrOrStderr(),
	}); err != nil {
		return nil, nil, fmt.Errorf("initializing logging: %w", err)
	}

	console := output.NewConsole(output.ConsoleConfig{
		Writer:  cmd.OutOrStdout(),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
	})
	return cfg, console, nil
}
