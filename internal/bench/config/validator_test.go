package config

import (
	"errors"
	"strings"
	"testing"
)

func validConfig() *BenchConfig {
	return Default()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *BenchConfig)
		wantField string
	}{
		{"valid", func(c *BenchConfig) {}, ""},
		{"empty dataset root", func(c *BenchConfig) { c.Dataset.Root = " " }, "dataset.root"},
		{"no worker counts", func(c *BenchConfig) { c.Sweep.WorkerCounts = nil }, "sweep.workerCounts"},
		{"zero worker count", func(c *BenchConfig) { c.Sweep.WorkerCounts = []int{1, 0} }, "sweep.workerCounts[1]"},
		{"negative worker count", func(c *BenchConfig) { c.Sweep.WorkerCounts = []int{-2} }, "sweep.workerCounts[0]"},
		{"duplicate worker count", func(c *BenchConfig) { c.Sweep.WorkerCounts = []int{1, 2, 2} }, "sweep.workerCounts[2]"},
		{"negative settle delay", func(c *BenchConfig) { c.Sweep.SettleDelay = "-1s" }, "sweep.settleDelay"},
		{"invalid settle delay", func(c *BenchConfig) { c.Sweep.SettleDelay = "later" }, "sweep.settleDelay"},
		{"no variants", func(c *BenchConfig) { c.Variants = nil }, "variants"},
		{"unknown variant", func(c *BenchConfig) { c.Variants = []string{"bulk", "threads"} }, "variants[1]"},
		{"duplicate variant", func(c *BenchConfig) { c.Variants = []string{"bulk", "bulk"} }, "variants[1]"},
		{"unknown partition", func(c *BenchConfig) { c.Executor.Partition = "striped" }, "executor.partition"},
		{"negative brightness", func(c *BenchConfig) { c.Workload.Brightness = -1 }, "workload.brightness"},
		{"jpeg quality too high", func(c *BenchConfig) { c.Workload.JPEGQuality = 101 }, "workload.jpegQuality"},
		{"unknown format", func(c *BenchConfig) { c.Output.Format = "csv" }, "output.format"},
		{"archive not zip", func(c *BenchConfig) { c.Output.Archive = "results.tar" }, "output.archive"},
		{"unknown log level", func(c *BenchConfig) { c.Logging.Level = "loud" }, "logging.level"},
		{"unknown component level", func(c *BenchConfig) {
			c.Logging.Components = map[string]string{"sweep": "chatty"}
		}, "logging.components.sweep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want *ValidationErrors", err)
			}
			found := false
			for _, e := range verrs.Errors {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() missing error on %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := validConfig()
	c.Sweep.WorkerCounts = []int{0}
	c.Variants = []string{"nope"}
	c.Output.Format = "xml"

	err := c.Validate()
	var verrs *ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(verrs.Errors) != 3 {
		t.Errorf("len(Errors) = %d, want 3: %v", len(verrs.Errors), err)
	}
	if !strings.HasPrefix(err.Error(), "3 validation errors:") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{Field: "sweep.workerCounts", Message: "bad"}
	if got, want := e.Error(), "validation error on field 'sweep.workerCounts': bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	e = &ValidationError{Message: "bad"}
	if got, want := e.Error(), "validation error: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	single := &ValidationErrors{}
	single.Add("variants", "missing")
	if got, want := single.Error(), "validation error on field 'variants': missing"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
