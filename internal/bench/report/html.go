// Package report provides HTML report generation for scaling benchmark results.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wesleyorama2/scaleup/internal/bench/metrics"
)

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "Parallel Image Processing Performance Analysis"

// Options controls report metadata.
type Options struct {
	Title       string
	Description string
	GeneratedAt time.Time
}

// VariantData is one variant's section of the report.
type VariantData struct {
	Name        string
	RunID       string
	BestWorkers int
	BestSpeedup float64
	Summaries   []metrics.RunSummary
}

// ReportData contains all data needed to render the HTML report.
type ReportData struct {
	Options
	Variants  []VariantData
	Rows      []metrics.ComparisonRow
	LabelA    string
	LabelB    string
	ChartJSON template.JS
}

// chartSeries holds one variant's chart values. Absent points are null.
type chartSeries struct {
	Name       string     `json:"name"`
	Time       []*float64 `json:"time"`
	Speedup    []*float64 `json:"speedup"`
	Efficiency []*float64 `json:"efficiency"`
}

type chartData struct {
	Labels []int       `json:"labels"`
	A      chartSeries `json:"a"`
	B      chartSeries `json:"b"`
}

// GenerateHTML generates an HTML report comparing two variants and writes it to a file.
func GenerateHTML(a, b *metrics.Analysis, opts Options, outputPath string) error {
	html, err := GenerateHTMLString(a, b, opts)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString generates an HTML report comparing two variants and
// returns it as a string. Either analysis may be nil, not both.
func GenerateHTMLString(a, b *metrics.Analysis, opts Options) (string, error) {
	if a == nil && b == nil {
		return "", fmt.Errorf("at least one analysis is required")
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	rows := metrics.Compare(a, b)
	data := ReportData{
		Options: opts,
		Rows:    rows,
		LabelA:  label(a, "A"),
		LabelB:  label(b, "B"),
	}
	for _, an := range []*metrics.Analysis{a, b} {
		if an == nil {
			continue
		}
		wc, sp := an.Best()
		v := VariantData{
			Name:        an.Variant,
			BestWorkers: wc,
			BestSpeedup: sp,
			Summaries:   an.Summaries,
		}
		if an.Result != nil {
			v.RunID = an.Result.RunID
		}
		data.Variants = append(data.Variants, v)
	}

	chartJSON, err := convertChartJSON(rows, data.LabelA, data.LabelB)
	if err != nil {
		return "", fmt.Errorf("failed to convert chart data: %w", err)
	}
	data.ChartJSON = template.JS(chartJSON)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func label(a *metrics.Analysis, fallback string) string {
	if a == nil || a.Variant == "" {
		return fallback
	}
	return a.Variant
}

// convertChartJSON flattens comparison rows into per-series arrays.
func convertChartJSON(rows []metrics.ComparisonRow, labelA, labelB string) (string, error) {
	data := chartData{
		Labels: make([]int, 0, len(rows)),
		A:      chartSeries{Name: labelA},
		B:      chartSeries{Name: labelB},
	}

	for _, r := range rows {
		data.Labels = append(data.Labels, r.WorkerCount)
		appendPoint(&data.A, r.A)
		appendPoint(&data.B, r.B)
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "{}", err
	}
	return string(jsonBytes), nil
}

func appendPoint(s *chartSeries, p metrics.Point) {
	if !p.Present {
		s.Time = append(s.Time, nil)
		s.Speedup = append(s.Speedup, nil)
		s.Efficiency = append(s.Efficiency, nil)
		return
	}
	s.Time = append(s.Time, ptr(p.WallClockSeconds))
	s.Speedup = append(s.Speedup, nonZero(p.Speedup))
	s.Efficiency = append(s.Efficiency, nonZero(p.Efficiency))
}

func ptr(v float64) *float64 {
	return &v
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

// templateFuncs returns the template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatSeconds":    formatSeconds,
		"formatSpeedup":    formatSpeedup,
		"formatEfficiency": formatEfficiency,
		"formatLatency":    formatLatency,
		"formatNumber":     formatNumber,
	}
}

// formatSeconds formats a present wall-clock time.
func formatSeconds(p metrics.Point) string {
	if !p.Present {
		return "N/A"
	}
	return fmt.Sprintf("%.2fs", p.WallClockSeconds)
}

// formatSpeedup formats a speedup, N/A when absent or unavailable.
func formatSpeedup(p metrics.Point) string {
	if !p.Present || p.Speedup == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2fx", p.Speedup)
}

// formatEfficiency formats an efficiency as a percentage.
func formatEfficiency(p metrics.Point) string {
	if !p.Present || p.Efficiency == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", p.Efficiency*100)
}

// formatNumber formats a count with thousands separators.
func formatNumber(n int) string {
	return humanize.Comma(int64(n))
}

// formatLatency formats a duration in a human-readable way.
func formatLatency(d time.Duration) string {
	if d == 0 {
		return "0"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		ms := float64(d.Microseconds()) / 1000.0
		if ms < 10 {
			return fmt.Sprintf("%.2fms", ms)
		}
		if ms < 100 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	}
	s := d.Seconds()
	if s < 10 {
		return fmt.Sprintf("%.2fs", s)
	}
	return fmt.Sprintf("%.1fs", s)
}
