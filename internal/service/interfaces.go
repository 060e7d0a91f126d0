// Package service defines the interfaces between the analysis pipeline and its collaborators.
package service

import (
	"context"
	"time"

	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/report"
)

// SheetInfo describes one tab of the backing spreadsheet.
type SheetInfo struct {
	Title       string `json:"title"`
	Type        string `json:"sheet_type"`
	ID          int64  `json:"sheet_id"`
	Index       int64  `json:"index"`
	RowCount    int64  `json:"row_count"`
	ColumnCount int64  `json:"column_count"`
}

// TableSource supplies consultation tables. Implementations must return
// tables whose rows are already aligned to the header.
type TableSource interface {
	ListSheets(ctx context.Context) ([]SheetInfo, error)
	LoadTable(ctx context.Context, sheet string) (*model.Table, error)
}

// ChartLayout controls where and how large generated charts are.
type ChartLayout struct {
	StartRow int
	Width    int
	Height   int
}

// DefaultChartLayout returns the layout used when the caller sets none.
func DefaultChartLayout() ChartLayout {
	return ChartLayout{StartRow: 1, Width: 1050, Height: 500}
}

// ReportWriter writes analysis artifacts back to the spreadsheet.
type ReportWriter interface {
	// WriteSummary (re)creates the summary tab for the analysis and returns its title.
	WriteSummary(ctx context.Context, analysis *report.Analysis) (string, error)
	// AddCharts adds one chart per non-empty category to an existing summary tab.
	AddCharts(ctx context.Context, analysis *report.Analysis, layout ChartLayout) ([]int64, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
