// Package enumerate discovers the work items of a benchmark by walking a
// dataset directory.
package enumerate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/charmbracelet/log"

	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/logging"
)

// DefaultSuffixes are the image extensions recognised when none are
// configured.
var DefaultSuffixes = []string{".jpg", ".jpeg", ".png"}

// DatasetMissingError reports that the dataset root does not exist or is not
// a directory.
type DatasetMissingError struct {
	Root string
	Err  error
}

func (e *DatasetMissingError) Error() string {
	return fmt.Sprintf("dataset not found at %s", e.Root)
}

func (e *DatasetMissingError) Unwrap() error {
	return e.Err
}

// CheckRoot verifies that root is an existing directory. A missing root
// yields a *DatasetMissingError; other stat failures are returned wrapped.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &DatasetMissingError{Root: root, Err: err}
		}
		return fmt.Errorf("checking dataset root: %w", err)
	}
	if !info.IsDir() {
		return &DatasetMissingError{Root: root, Err: fmt.Errorf("%s is not a directory", root)}
	}
	return nil
}

// Enumerator finds files under a root whose names end in one of Suffixes.
type Enumerator struct {
	// Suffixes are matched case-insensitively. Empty means DefaultSuffixes.
	Suffixes []string

	// Logger receives walk errors. Nil uses the "enumerate" component logger.
	Logger *log.Logger
}

// New creates an Enumerator for the given suffixes.
func New(suffixes ...string) *Enumerator {
	return &Enumerator{Suffixes: suffixes}
}

// Enumerate walks root recursively and returns every matching file, sorted
// lexically. A file matching several suffixes is listed once. A missing root
// or a root without matches yields an empty slice and no error; callers
// decide whether empty input is fatal.
func (e *Enumerator) Enumerate(ctx context.Context, root string) ([]bench.WorkItem, error) {
	logger := e.Logger
	if logger == nil {
		logger = logging.Get("enumerate")
	}

	items := []bench.WorkItem{}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		logger.Debug("dataset root unavailable", "root", root, "err", err)
		return items, nil
	}

	suffixes := normalizeSuffixes(e.Suffixes)

	var mu sync.Mutex
	conf := fastwalk.Config{
		Follow: false,
	}

	walkErr := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logger.Warn("skipping unreadable entry", "path", path, "err", err)
			return nil
		}
		if d.IsDir() || !matches(d.Name(), suffixes) {
			return nil
		}

		mu.Lock()
		items = append(items, path)
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	sort.Strings(items)
	logger.Debug("enumerated dataset", "root", root, "items", len(items))
	return items, nil
}

// normalizeSuffixes lower-cases suffixes, adds a leading dot and drops
// duplicates.
func normalizeSuffixes(in []string) []string {
	if len(in) == 0 {
		in = DefaultSuffixes
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func matches(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// RelativeItem returns item relative to root, using forward slashes. Items
// outside root are returned unchanged.
func RelativeItem(root string, item bench.WorkItem) string {
	rel, err := filepath.Rel(root, item)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(item)
	}
	return filepath.ToSlash(rel)
}
