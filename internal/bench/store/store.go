// Package store persists sweep results to disk and reads them back.
//
// Documents are nested key-value structures keyed by worker count. JSON and
// YAML are both supported, chosen by file extension. The JSON reader is
// tolerant: keys may be textual or numeric, the top level may be an array of
// records, and the field names written by earlier tooling (num_processes,
// num_images, total_time, processing_times) are accepted.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/moby/sys/atomicwriter"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

// PersistenceError reports a failure reading or writing a results file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// VariantFromPath derives a variant name from a results file name:
// "results/bulk_results.json" -> "bulk".
func VariantFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "_results")
}

// Save writes result to path, creating parent directories. The file is
// replaced atomically.
func Save(path string, result *bench.SweepResult) error {
	if result == nil {
		return &PersistenceError{Op: "save", Path: path, Err: errors.New("nil sweep result")}
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(result)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return &PersistenceError{Op: "encode", Path: path, Err: err}
	}

	if err := writeAtomic(path, data); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomicwriter.WriteFile(path, data, 0o644)
}

// Load reads a results file. The variant is taken from the file name.
func Load(path string) (*bench.SweepResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	result, err := Decode(data, isYAML(path))
	if err != nil {
		return nil, &PersistenceError{Op: "decode", Path: path, Err: err}
	}
	result.Variant = VariantFromPath(path)
	return result, nil
}

// Decode parses a results document.
func Decode(data []byte, asYAML bool) (*bench.SweepResult, error) {
	result := bench.NewSweepResult("")
	if asYAML {
		if err := yaml.Unmarshal(data, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := validateDocument(data); err != nil {
		return nil, err
	}
	if err := decodeTolerant(data, result); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadOrEmpty loads a results file, degrading to an empty result on any
// failure. A missing file is reported at info level, anything else as a
// warning.
func LoadOrEmpty(path string, logger *log.Logger) *bench.SweepResult {
	result, err := Load(path)
	if err == nil {
		return result
	}

	if logger != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("no prior results", "path", path)
		} else {
			logger.Warn("ignoring unreadable results", "path", path, "err", err)
		}
	}
	return bench.NewSweepResult(VariantFromPath(path))
}
