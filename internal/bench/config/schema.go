// Package config provides configuration parsing and validation for scaleup
// benchmark runs.
package config

import (
	"path/filepath"
	"strings"
)

// BenchConfig is the root configuration for a benchmark.
//
// Example YAML:
//
//	name: "Parallel Image Processing"
//	dataset:
//	  root: food101_subset
//	  suffixes: [".jpg", ".jpeg", ".png"]
//	sweep:
//	  workerCounts: [1, 2, 4, 8]
//	  settleDelay: 2s
//	variants: [bulk, completion-ordered]
//	output:
//	  resultsDir: results
//	  format: json
type BenchConfig struct {
	// Name of the benchmark (for reporting)
	Name string `json:"name" yaml:"name"`

	// Description of the benchmark (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Dataset locates the work items
	Dataset DatasetConfig `json:"dataset" yaml:"dataset"`

	// Sweep defines the worker counts and the delay between runs
	Sweep SweepConfig `json:"sweep" yaml:"sweep"`

	// Variants are the executor types to benchmark, in order
	Variants []string `json:"variants" yaml:"variants"`

	// Executor holds strategy-specific settings
	Executor ExecutorConfig `json:"executor,omitempty" yaml:"executor,omitempty"`

	// Workload configures the image-processing work function
	Workload WorkloadConfig `json:"workload,omitempty" yaml:"workload,omitempty"`

	// Output controls where results, the report and the archive go
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`

	// Logging configures log level and destination
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// DatasetConfig locates the dataset.
type DatasetConfig struct {
	// Root is the directory walked for items
	Root string `json:"root" yaml:"root"`

	// Suffixes are the recognised file extensions (case-insensitive)
	Suffixes []string `json:"suffixes,omitempty" yaml:"suffixes,omitempty"`
}

// SweepConfig defines the sweep points.
type SweepConfig struct {
	// WorkerCounts are run in order
	WorkerCounts []int `json:"workerCounts" yaml:"workerCounts"`

	// SettleDelay is the idle time between runs (e.g., "2s", "500ms", "2")
	SettleDelay string `json:"settleDelay,omitempty" yaml:"settleDelay,omitempty"`
}

// ExecutorConfig holds strategy-specific settings.
type ExecutorConfig struct {
	// Partition is the bulk executor's assignment: "contiguous" or "round-robin"
	Partition string `json:"partition,omitempty" yaml:"partition,omitempty"`
}

// WorkloadConfig configures the image filters.
type WorkloadConfig struct {
	// OutputDir receives the filtered images. Defaults to <resultsDir>/output_images.
	OutputDir string `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`

	// Brightness is the brightness multiplication factor (>1 brighter)
	Brightness float64 `json:"brightness,omitempty" yaml:"brightness,omitempty"`

	// JPEGQuality is the quality of written images, 1-100
	JPEGQuality int `json:"jpegQuality,omitempty" yaml:"jpegQuality,omitempty"`
}

// OutputConfig controls result files.
type OutputConfig struct {
	// ResultsDir is the root of the results tree
	ResultsDir string `json:"resultsDir,omitempty" yaml:"resultsDir,omitempty"`

	// Format of the persisted sweep results: "json" or "yaml"
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Report is the HTML report file name inside ResultsDir
	Report string `json:"report,omitempty" yaml:"report,omitempty"`

	// NoReport disables the HTML report
	NoReport bool `json:"noReport,omitempty" yaml:"noReport,omitempty"`

	// Archive, when set, is the zip file the results tree is written to
	Archive string `json:"archive,omitempty" yaml:"archive,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is debug, info, warn or error
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// File is an optional log file written besides stderr
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// JSON switches to JSON log lines
	JSON bool `json:"json,omitempty" yaml:"json,omitempty"`

	// Components overrides the level per component
	Components map[string]string `json:"components,omitempty" yaml:"components,omitempty"`
}

// DataDir returns the directory holding persisted sweep results.
func (c *BenchConfig) DataDir() string {
	return filepath.Join(c.Output.ResultsDir, "performance_data")
}

// ResultPath returns the file a variant's sweep result is persisted to.
func (c *BenchConfig) ResultPath(variant string) string {
	ext := ".json"
	if strings.EqualFold(c.Output.Format, "yaml") {
		ext = ".yaml"
	}
	return filepath.Join(c.DataDir(), variant+"_results"+ext)
}

// ReportPath returns the HTML report path.
func (c *BenchConfig) ReportPath() string {
	return filepath.Join(c.Output.ResultsDir, c.Output.Report)
}

// ImagesDir returns the directory the workload writes into.
func (c *BenchConfig) ImagesDir() string {
	if c.Workload.OutputDir != "" {
		return c.Workload.OutputDir
	}
	return filepath.Join(c.Output.ResultsDir, "output_images")
}
