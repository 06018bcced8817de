package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultName        = "Parallel Image Processing"
	DefaultDatasetRoot = "food101_subset"
	DefaultSettleDelay = "2s"
	DefaultPartition   = "contiguous"
	DefaultBrightness  = 1.5
	DefaultJPEGQuality = 95
	DefaultResultsDir  = "results"
	DefaultFormat      = "json"
	DefaultReport      = "performance_comparison.html"
	DefaultLogLevel    = "info"
)

// DefaultWorkerCounts are the sweep points used when none are configured.
var DefaultWorkerCounts = []int{1, 2, 4, 8}

// DefaultVariants are the executor types benchmarked when none are configured.
var DefaultVariants = []string{"bulk", "completion-ordered"}

// LoadConfig loads a benchmark configuration from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*BenchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (*BenchConfig, error) {
	var config BenchConfig

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return &config, nil
}

// ParseDurationString parses a duration string.
//
// Supported formats:
//   - Standard Go duration: "2s", "500ms", "1m30s"
//   - Bare number of seconds: "2", "0.5"
func ParseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// Default returns a configuration with every default applied.
func Default() *BenchConfig {
	cfg := &BenchConfig{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func ApplyDefaults(config *BenchConfig) {
	if config.Name == "" {
		config.Name = DefaultName
	}

	if config.Dataset.Root == "" {
		config.Dataset.Root = DefaultDatasetRoot
	}
	if len(config.Dataset.Suffixes) == 0 {
		config.Dataset.Suffixes = []string{".jpg", ".jpeg", ".png"}
	}

	if len(config.Sweep.WorkerCounts) == 0 {
		config.Sweep.WorkerCounts = append([]int(nil), DefaultWorkerCounts...)
	}
	if config.Sweep.SettleDelay == "" {
		config.Sweep.SettleDelay = DefaultSettleDelay
	}

	if len(config.Variants) == 0 {
		config.Variants = append([]string(nil), DefaultVariants...)
	}

	if config.Executor.Partition == "" {
		config.Executor.Partition = DefaultPartition
	}

	if config.Workload.Brightness == 0 {
		config.Workload.Brightness = DefaultBrightness
	}
	if config.Workload.JPEGQuality == 0 {
		config.Workload.JPEGQuality = DefaultJPEGQuality
	}

	if config.Output.ResultsDir == "" {
		config.Output.ResultsDir = DefaultResultsDir
	}
	if config.Output.Format == "" {
		config.Output.Format = DefaultFormat
	}
	if config.Output.Report == "" {
		config.Output.Report = DefaultReport
	}

	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
}

// SettleDelay returns the parsed settle delay.
func (c *BenchConfig) SettleDelay() (time.Duration, error) {
	return ParseDurationString(c.Sweep.SettleDelay)
}
