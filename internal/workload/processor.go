// Package workload implements the image-processing work function that the
// scaling benchmark measures.
package workload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/bench/enumerate"
	"github.com/wesleyorama2/scaleup/internal/logging"
)

// Config configures an ImageProcessor.
type Config struct {
	// DatasetRoot is used to derive collision-free output names.
	DatasetRoot string

	// OutputDir receives the filtered images.
	OutputDir string

	// Brightness is the brightness multiplication factor.
	Brightness float64

	// JPEGQuality is the quality of written images, 1-100.
	JPEGQuality int

	Logger *log.Logger
}

// ImageProcessor applies the benchmark filters to one image per call.
type ImageProcessor struct {
	root    string
	outDir  string
	quality int
	filters []Filter
	logger  *log.Logger
}

// NewImageProcessor creates the output directory and returns a processor.
func NewImageProcessor(cfg Config) (*ImageProcessor, error) {
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if cfg.Brightness <= 0 {
		cfg.Brightness = 1.5
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = 95
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Get("workload")
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &ImageProcessor{
		root:    cfg.DatasetRoot,
		outDir:  cfg.OutputDir,
		quality: cfg.JPEGQuality,
		filters: Filters(cfg.Brightness),
		logger:  cfg.Logger,
	}, nil
}

// WorkFunc returns Process as a bench.WorkFunc.
func (p *ImageProcessor) WorkFunc() bench.WorkFunc {
	return p.Process
}

// Process loads the image at item, applies every filter and writes one JPEG
// per filter. It returns the time spent, I/O included.
func (p *ImageProcessor) Process(ctx context.Context, item bench.WorkItem) (time.Duration, error) {
	start := time.Now()

	img, err := imaging.Open(item, imaging.AutoOrientation(true))
	if err != nil {
		return 0, fmt.Errorf("opening image: %w", err)
	}

	names := p.OutputNames(item)
	for i, f := range p.filters {
		out := f.Apply(img)
		if err := imaging.Save(out, names[i], imaging.JPEGQuality(p.quality)); err != nil {
			return 0, fmt.Errorf("writing %s output: %w", f.Name, err)
		}
	}

	elapsed := time.Since(start)
	p.logger.Debug("processed", "item", item, "elapsed", elapsed)
	return elapsed, nil
}

// OutputNames returns the files Process writes for item, one per filter.
//
// Names combine the file stem with a short name-based hash of the item's
// path relative to the dataset root, so equal stems in different
// directories do not collide.
func (p *ImageProcessor) OutputNames(item bench.WorkItem) []string {
	rel := enumerate.RelativeItem(p.root, item)
	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))
	tag := uuid.NewSHA1(uuid.NameSpaceURL, []byte(rel)).String()[:8]

	names := make([]string, len(p.filters))
	for i, f := range p.filters {
		names[i] = filepath.Join(p.outDir, fmt.Sprintf("%s_%s_%s.jpg", stem, tag, f.Name))
	}
	return names
}
