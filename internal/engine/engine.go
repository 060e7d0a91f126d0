// Package engine runs analyses and comparisons over a table source and
// publishes results through a report writer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
	"golang.org/x/sync/errgroup"
)

// ErrNoWriter is returned by Publish when the engine has no report writer.
var ErrNoWriter = errors.New("no report writer configured")

// consultationMarkers identify tabs that hold consultation data.
var consultationMarkers = []string{"상담데이터", "상담 데이터"}

// IsConsultationSheet reports whether a tab title names a consultation tab.
func IsConsultationSheet(title string) bool {
	for _, m := range consultationMarkers {
		if strings.Contains(title, m) {
			return true
		}
	}
	return false
}

// Config holds configuration options for the engine.
type Config struct {
	Options    report.Options
	TrendLimit int
	Workers    int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Options:    report.DefaultOptions(),
		TrendLimit: 20,
		Workers:    4,
	}
}

// ProgressFunc is called after each sheet of a multi-sheet load finishes.
type ProgressFunc func(sheet string, done, total int)

// Engine orchestrates loading, analysis and publishing.
type Engine struct {
	source service.TableSource
	writer service.ReportWriter
	logger *slog.Logger
	config Config
}

// New creates an engine. writer may be nil when results are never published.
func New(source service.TableSource, writer service.ReportWriter, config Config, logger *slog.Logger) *Engine {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		source: source,
		writer: writer,
		config: config,
		logger: logger,
	}
}

// Options returns the analysis options the engine runs with.
func (e *Engine) Options() report.Options {
	return e.config.Options
}

// Sheets returns every tab of the source.
func (e *Engine) Sheets(ctx context.Context) ([]service.SheetInfo, error) {
	infos, err := e.source.ListSheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	return infos, nil
}

// ConsultationSheets returns the consultation tabs, newest title first.
func (e *Engine) ConsultationSheets(ctx context.Context) ([]service.SheetInfo, error) {
	infos, err := e.Sheets(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]service.SheetInfo, 0, len(infos))
	for _, info := range infos {
		if IsConsultationSheet(info.Title) {
			out = append(out, info)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Title > out[j].Title
	})
	return out, nil
}

// Analyze loads one tab and builds its analysis.
func (e *Engine) Analyze(ctx context.Context, sheet string) (*report.Analysis, error) {
	start := time.Now()

	table, err := e.source.LoadTable(ctx, sheet)
	if err != nil {
		return nil, err
	}

	analysis, err := report.Build(sheet, table, e.config.Options)
	if err != nil {
		return nil, err
	}

	e.logger.Info("analysis complete",
		"sheet", sheet,
		"rows", analysis.Rows,
		"tags", len(analysis.TagCounts),
		"policy", analysis.Policy,
		"duration", time.Since(start))

	return analysis, nil
}

// AnalyzeMany analyzes several tabs concurrently. Results keep the order of
// sheets; the first failure cancels the remaining loads.
func (e *Engine) AnalyzeMany(ctx context.Context, sheets []string, progress ProgressFunc) ([]*report.Analysis, error) {
	results := make([]*report.Analysis, len(sheets))

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for i, sheet := range sheets {
		g.Go(func() error {
			a, err := e.Analyze(gctx, sheet)
			if err != nil {
				return fmt.Errorf("sheet %q: %w", sheet, err)
			}
			results[i] = a

			if progress != nil {
				mu.Lock()
				done++
				progress(sheet, done, len(sheets))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Compare analyzes the tabs and lines them up in the given order.
func (e *Engine) Compare(ctx context.Context, sheets []string, progress ProgressFunc) (*report.Comparison, error) {
	if len(sheets) < 2 {
		return nil, fmt.Errorf("%w: got %d", report.ErrTooFewAnalyses, len(sheets))
	}

	analyses, err := e.AnalyzeMany(ctx, sheets, progress)
	if err != nil {
		return nil, err
	}

	return report.Compare(analyses, e.config.TrendLimit)
}

// PublishResult describes what Publish wrote.
type PublishResult struct {
	SummarySheet string  `json:"sheet_name"`
	ChartIDs     []int64 `json:"chart_ids,omitempty"`
}

// Publish writes the summary tab and, when charts is set, adds the charts.
func (e *Engine) Publish(ctx context.Context, analysis *report.Analysis, charts bool, layout service.ChartLayout) (*PublishResult, error) {
	if e.writer == nil {
		return nil, ErrNoWriter
	}

	title, err := e.writer.WriteSummary(ctx, analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}
	result := &PublishResult{SummarySheet: title}

	if charts {
		ids, err := e.AddCharts(ctx, analysis, layout)
		if err != nil {
			return result, err
		}
		result.ChartIDs = ids
	}
	return result, nil
}

// AddCharts adds charts to an existing summary tab.
func (e *Engine) AddCharts(ctx context.Context, analysis *report.Analysis, layout service.ChartLayout) ([]int64, error) {
	if e.writer == nil {
		return nil, ErrNoWriter
	}
	ids, err := e.writer.AddCharts(ctx, analysis, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to add charts: %w", err)
	}
	return ids, nil
}

// CanPublish reports whether the engine has a report writer.
func (e *Engine) CanPublish() bool {
	return e.writer != nil
}
