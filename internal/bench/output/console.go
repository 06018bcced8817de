// Package output provides console output for scaling benchmarks.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/wesleyorama2/scaleup/internal/bench/metrics"
)

const (
	boxHorizontal = "━"
	rule          = "="

	progressFilled = "█"
	progressEmpty  = "░"

	notAvailable = "N/A"
)

// palette holds the colors used by the console.
type palette struct {
	header *color.Color
	title  *color.Color
	value  *color.Color
	dim    *color.Color
	good   *color.Color
	warn   *color.Color
	bad    *color.Color
	accent *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		header: color.New(color.FgCyan),
		title:  color.New(color.Bold),
		value:  color.New(color.FgCyan),
		dim:    color.New(color.Faint),
		good:   color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		bad:    color.New(color.FgRed),
		accent: color.New(color.FgMagenta, color.Bold),
	}
	for _, c := range []*color.Color{p.header, p.title, p.value, p.dim, p.good, p.warn, p.bad, p.accent} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Console writes progress, run summaries and the final analysis.
type Console struct {
	writer io.Writer
	isTTY  bool
	quiet  bool
	colors *palette

	mu           sync.Mutex
	progressLive bool
}

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer      io.Writer
	Quiet       bool
	NoColor     bool
	ForceColors bool
	ForceTTY    bool
}

// NewConsole creates a new console output handler.
func NewConsole(config ConsoleConfig) *Console {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	isTTY := config.ForceTTY || isTerminal(config.Writer)
	useColors := !config.NoColor && (config.ForceColors || (isTTY && supportsColors()))

	return &Console{
		writer: config.Writer,
		isTTY:  isTTY,
		quiet:  config.Quiet,
		colors: newPalette(useColors),
	}
}

// supportsColors checks the environment for color preferences.
func supportsColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// IsTTY returns whether the output is a terminal.
func (c *Console) IsTTY() bool {
	return c.isTTY
}

// PrintHeader prints the benchmark title box.
func (c *Console) PrintHeader(title, description string) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := strings.Repeat(boxHorizontal, 60)
	c.writeln(c.colors.header.Sprint(line))
	c.writeln(c.colors.title.Sprint(title))
	if description != "" {
		c.writeln(c.colors.dim.Sprint(description))
	}
	c.writeln(c.colors.header.Sprint(line))
}

// PrintStep prints a numbered step banner.
func (c *Console) PrintStep(n int, title string) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := strings.Repeat(rule, 60)
	c.writeln("")
	c.writeln(c.colors.header.Sprint(line))
	c.writeln(c.colors.title.Sprintf("STEP %d: %s", n, title))
	c.writeln(c.colors.header.Sprint(line))
}

// PrintRunStart announces a sweep configuration.
func (c *Console) PrintRunStart(variant string, workerCount, index, total int) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeln("")
	c.writeln(fmt.Sprintf("[%s] run %d/%d with %s workers",
		c.colors.accent.Sprint(variant), index+1, total,
		c.colors.value.Sprint(workerCount)))
}

// Progress renders an in-place progress bar. It is a no-op unless the
// output is a terminal. Safe for concurrent use.
func (c *Console) Progress(done, total int) {
	if c.quiet || !c.isTTY || total <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fraction := float64(done) / float64(total)
	c.write(fmt.Sprintf("\r%s %s %s",
		c.colors.good.Sprint(renderProgressBar(fraction, 40)),
		c.colors.title.Sprintf("%3.0f%%", fraction*100),
		c.colors.dim.Sprintf("%s/%s", humanize.Comma(int64(done)), humanize.Comma(int64(total)))))
	c.progressLive = done < total
	if !c.progressLive {
		c.write("\n")
	}
}

// renderProgressBar renders a progress bar of the given width.
func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	return "[" + strings.Repeat(progressFilled, filled) + strings.Repeat(progressEmpty, width-filled) + "]"
}

// PrintRunSummary prints the statistics of one completed run.
func (c *Console) PrintRunSummary(s metrics.RunSummary) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.progressLive {
		c.write("\n")
		c.progressLive = false
	}

	c.writeln(fmt.Sprintf("  Workers:                %s", c.colors.value.Sprint(s.WorkerCount)))
	c.writeln(fmt.Sprintf("  Items processed:        %s", c.colors.value.Sprint(humanize.Comma(int64(s.NumItems)))))
	if s.Failures > 0 {
		c.writeln(fmt.Sprintf("  Failed items:           %s", c.colors.bad.Sprint(humanize.Comma(int64(s.Failures)))))
	}
	c.writeln(fmt.Sprintf("  Wall-clock time:        %s", c.colors.value.Sprint(formatSeconds(s.WallClock))))
	c.writeln(fmt.Sprintf("  Processing time (sum):  %s", formatSeconds(s.TotalItem)))
	c.writeln(fmt.Sprintf("  Average per item:       %s", formatDurationShort(s.AverageItem)))
	if s.Items.Count > 0 {
		c.writeln(c.colors.dim.Sprintf("  Item latency:           p50 %s  p95 %s  max %s",
			formatDurationShort(s.Items.P50),
			formatDurationShort(s.Items.P95),
			formatDurationShort(s.Items.Max)))
	}
}

// PrintAnalysis prints the speedup and efficiency tables for two variants
// side by side. Either analysis may be nil or empty.
func (c *Console) PrintAnalysis(a, b *metrics.Analysis) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	labelA, labelB := variantLabel(a, "A"), variantLabel(b, "B")
	rows := metrics.Compare(a, b)

	line := strings.Repeat(rule, 60)
	c.writeln("")
	c.writeln(c.colors.header.Sprint(line))
	c.writeln(c.colors.title.Sprint("PERFORMANCE ANALYSIS SUMMARY"))
	c.writeln(c.colors.header.Sprint(line))

	if len(rows) == 0 {
		c.writeln(c.colors.warn.Sprint("No results to analyze."))
		return
	}

	c.writeln("")
	c.writeln(c.colors.title.Sprint("SPEEDUP ANALYSIS"))
	speedup := [][]string{{"Workers", labelA + " time", labelA + " speedup", labelB + " time", labelB + " speedup"}}
	for _, r := range rows {
		speedup = append(speedup, []string{
			fmt.Sprint(r.WorkerCount),
			timeCell(r.A), speedupCell(r.A),
			timeCell(r.B), speedupCell(r.B),
		})
	}
	c.writeTable(speedup)

	c.writeln("")
	c.writeln(c.colors.title.Sprint("EFFICIENCY ANALYSIS"))
	efficiency := [][]string{{"Workers", labelA + " efficiency", labelB + " efficiency"}}
	for _, r := range rows {
		efficiency = append(efficiency, []string{
			fmt.Sprint(r.WorkerCount),
			efficiencyCell(r.A), efficiencyCell(r.B),
		})
	}
	c.writeTable(efficiency)

	c.writeln("")
	for _, an := range []*metrics.Analysis{a, b} {
		if an == nil {
			continue
		}
		if wc, s := an.Best(); wc > 0 {
			c.writeln(fmt.Sprintf("Best %s speedup: %s at %d workers",
				an.Variant, c.colors.good.Sprintf("%.2fx", s), wc))
		} else if an.Result.Len() > 0 {
			c.writeln(c.colors.warn.Sprintf("%s: no single-worker baseline, speedup unavailable", an.Variant))
		}
	}
}

func variantLabel(a *metrics.Analysis, fallback string) string {
	if a == nil || a.Variant == "" {
		return fallback
	}
	return a.Variant
}

func timeCell(p metrics.Point) string {
	if !p.Present {
		return notAvailable
	}
	return fmt.Sprintf("%.2fs", p.WallClockSeconds)
}

func speedupCell(p metrics.Point) string {
	if !p.Present || p.Speedup == 0 {
		return notAvailable
	}
	return fmt.Sprintf("%.2fx", p.Speedup)
}

func efficiencyCell(p metrics.Point) string {
	if !p.Present || p.Efficiency == 0 {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", p.Efficiency*100)
}

// writeTable writes rows with the first column left-aligned and the rest
// right-aligned. The first row is the header.
func (c *Console) writeTable(rows [][]string) {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == 0 {
				cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
			} else {
				cells[i] = fmt.Sprintf("%*s", widths[i], cell)
			}
			if cell == notAvailable {
				cells[i] = c.colors.dim.Sprint(cells[i])
			}
		}
		text := strings.Join(cells, "  ")
		if r == 0 {
			c.writeln(c.colors.title.Sprint(text))
			total := 0
			for _, w := range widths {
				total += w
			}
			c.writeln(c.colors.dim.Sprint(strings.Repeat("-", total+2*(len(widths)-1))))
			continue
		}
		c.writeln(text)
	}
}

// PrintDatasetMissing explains that no dataset was found.
func (c *Console) PrintDatasetMissing(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeln(c.colors.bad.Sprintf("✗ Dataset not found: %s", root))
	c.writeln("  Place the images under that directory or pass --dataset.")
}

// PrintSuccess prints a line prefixed with a check mark.
func (c *Console) PrintSuccess(format string, args ...interface{}) {
	c.printIcon(c.colors.good, "✓", format, args...)
}

// PrintInfo prints a line prefixed with an info mark.
func (c *Console) PrintInfo(format string, args ...interface{}) {
	c.printIcon(c.colors.value, "ℹ", format, args...)
}

// PrintWarning prints a line prefixed with a warning mark.
func (c *Console) PrintWarning(format string, args ...interface{}) {
	c.printIcon(c.colors.warn, "⚠", format, args...)
}

func (c *Console) printIcon(col *color.Color, icon, format string, args ...interface{}) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeln(col.Sprint(icon) + " " + fmt.Sprintf(format, args...))
}

// PrintArchive reports a written archive with its size.
func (c *Console) PrintArchive(path string, size int64) {
	c.PrintSuccess("Archive written to %s (%s)", path, humanize.Bytes(uint64(size)))
}

func (c *Console) write(s string) {
	fmt.Fprint(c.writer, s)
}

func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// formatSeconds formats a duration as seconds with two decimals.
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f seconds", d.Seconds())
}

// formatDurationShort formats a duration in a short format.
func formatDurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
