package config

import (
	"fmt"
	"strings"

	"github.com/wesleyorama2/scaleup/internal/bench/executor"
	"github.com/wesleyorama2/scaleup/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the entire configuration.
//
// Returns nil if valid, or a *ValidationErrors containing all errors.
func (c *BenchConfig) Validate() error {
	errs := &ValidationErrors{}

	if strings.TrimSpace(c.Dataset.Root) == "" {
		errs.Add("dataset.root", "dataset root is required")
	}

	validateSweep(&c.Sweep, errs)
	validateVariants(c.Variants, errs)

	if c.Executor.Partition != "" {
		if _, err := executor.ParsePartition(c.Executor.Partition); err != nil {
			errs.Add("executor.partition", err.Error())
		}
	}

	validateWorkload(&c.Workload, errs)
	validateOutput(&c.Output, errs)
	validateLogging(&c.Logging, errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// validateSweep validates worker counts and the settle delay.
func validateSweep(s *SweepConfig, errs *ValidationErrors) {
	if len(s.WorkerCounts) == 0 {
		errs.Add("sweep.workerCounts", "at least one worker count is required")
	}

	seen := make(map[int]bool, len(s.WorkerCounts))
	for i, wc := range s.WorkerCounts {
		field := fmt.Sprintf("sweep.workerCounts[%d]", i)
		if wc < 1 {
			errs.Add(field, fmt.Sprintf("worker count must be greater than 0, got %d", wc))
			continue
		}
		if seen[wc] {
			errs.Add(field, fmt.Sprintf("duplicate worker count %d", wc))
		}
		seen[wc] = true
	}

	if s.SettleDelay != "" {
		d, err := ParseDurationString(s.SettleDelay)
		if err != nil {
			errs.Add("sweep.settleDelay", fmt.Sprintf("invalid duration: %v", err))
		} else if d < 0 {
			errs.Add("sweep.settleDelay", "settle delay cannot be negative")
		}
	}
}

// validateVariants validates the executor variants.
func validateVariants(variants []string, errs *ValidationErrors) {
	if len(variants) == 0 {
		errs.Add("variants", "at least one variant is required")
	}

	seen := make(map[string]bool, len(variants))
	for i, v := range variants {
		field := fmt.Sprintf("variants[%d]", i)
		if !executor.IsValidExecutorType(v) {
			errs.Add(field, fmt.Sprintf("unknown executor type: %s", v))
			continue
		}
		if seen[v] {
			errs.Add(field, fmt.Sprintf("duplicate variant %s", v))
		}
		seen[v] = true
	}
}

// validateWorkload validates image filter settings.
func validateWorkload(w *WorkloadConfig, errs *ValidationErrors) {
	if w.Brightness < 0 {
		errs.Add("workload.brightness", "brightness factor cannot be negative")
	}
	if w.JPEGQuality < 0 || w.JPEGQuality > 100 {
		errs.Add("workload.jpegQuality", "jpeg quality must be between 1 and 100")
	}
}

// validateOutput validates output settings.
func validateOutput(o *OutputConfig, errs *ValidationErrors) {
	switch strings.ToLower(o.Format) {
	case "", "json", "yaml":
	default:
		errs.Add("output.format", fmt.Sprintf("invalid format: %s (expected json or yaml)", o.Format))
	}

	if o.Archive != "" && !strings.EqualFold(filepathExt(o.Archive), ".zip") {
		errs.Add("output.archive", "archive must be a .zip file")
	}
}

// validateLogging validates logging settings.
func validateLogging(l *LoggingConfig, errs *ValidationErrors) {
	if l.Level != "" {
		if _, err := logging.ParseLevel(l.Level); err != nil {
			errs.Add("logging.level", err.Error())
		}
	}
	for comp, lvl := range l.Components {
		if _, err := logging.ParseLevel(lvl); err != nil {
			errs.Add("logging.components."+comp, err.Error())
		}
	}
}

func filepathExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 && !strings.ContainsAny(path[i:], `/\`) {
		return path[i:]
	}
	return ""
}
