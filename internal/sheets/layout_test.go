package sheets

import (
	"errors"
	"net/http"
	"testing"

	"github.com/saladlab/consult-tags/internal/common"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func layoutAnalysis() *report.Analysis {
	cats := model.NewCategoryMapping()
	cats[model.CategoryReview] = model.FrequencyMapping{"리뷰/a": 3, "리뷰/b": 7}
	cats[model.CategoryPush] = model.FrequencyMapping{"푸시/c": 1}
	return &report.Analysis{Sheet: "s", Categories: cats}
}

func TestSummaryGrid(t *testing.T) {
	tables := summaryTables(layoutAnalysis())
	require.Len(t, tables, 2)
	assert.Equal(t, 0, tables[0].column)
	assert.Equal(t, 3, tables[1].column)

	grid := summaryGrid(tables)
	require.Len(t, grid, minGridRows)
	require.Len(t, grid[0], 6)

	assert.Equal(t, []any{"리뷰 상담태그", "개수", "", "푸시 상담태그", "개수", ""}, grid[0])
	assert.Equal(t, []any{"b", 7, "", "c", 1, ""}, grid[1])
	assert.Equal(t, []any{"a", 3, "", "", "", ""}, grid[2])
	assert.Equal(t, []any{"", "", "", "소계", 1, ""}, grid[3])
	assert.Equal(t, []any{"소계", 10, "", "", "", ""}, grid[4])
}

func TestSummaryGrid_TallTable(t *testing.T) {
	freq := model.FrequencyMapping{}
	for _, tag := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		freq["리뷰/"+tag] = 1
	}
	cats := model.NewCategoryMapping()
	cats[model.CategoryReview] = freq

	grid := summaryGrid(summaryTables(&report.Analysis{Categories: cats}))
	assert.Len(t, grid, len(freq)+3)
}

func TestFormatRequests(t *testing.T) {
	tables := summaryTables(layoutAnalysis())
	reqs := formatRequests(42, tables)
	require.Len(t, reqs, 4)

	subtotal := reqs[1].RepeatCell
	require.NotNil(t, subtotal)
	assert.Equal(t, int64(42), subtotal.Range.SheetId)
	assert.Equal(t, int64(4), subtotal.Range.StartRowIndex)
	assert.Equal(t, int64(0), subtotal.Range.StartColumnIndex)
	assert.Equal(t, int64(2), subtotal.Range.EndColumnIndex)
	assert.True(t, subtotal.Cell.UserEnteredFormat.TextFormat.Bold)
	assert.InDelta(t, 0.9, subtotal.Cell.UserEnteredFormat.BackgroundColor.Red, 1e-9)
}

func TestChartRequests(t *testing.T) {
	tables := summaryTables(layoutAnalysis())
	reqs := chartRequests(7, tables, service.ChartLayout{StartRow: 3, Width: 800, Height: 400})
	require.Len(t, reqs, 2)

	push := reqs[1].AddChart.Chart
	assert.Equal(t, "푸시 상담태그", push.Spec.Title)
	assert.Equal(t, "COLUMN", push.Spec.BasicChart.ChartType)
	assert.Equal(t, chartColors[model.BranchPush], push.Spec.BasicChart.Series[0].Color)

	domain := push.Spec.BasicChart.Domains[0].Domain.SourceRange.Sources[0]
	assert.Equal(t, int64(1), domain.StartRowIndex)
	assert.Equal(t, int64(2), domain.EndRowIndex)
	assert.Equal(t, int64(3), domain.StartColumnIndex)

	anchor := push.Position.OverlayPosition.AnchorCell
	assert.Equal(t, int64(2+chartSpacing), anchor.RowIndex)
	assert.Equal(t, int64(6), anchor.ColumnIndex)
	assert.Equal(t, int64(800), push.Position.OverlayPosition.WidthPixels)
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'2024 상담데이터'!A:Z", a1Range("2024 상담데이터", "A:Z"))
	assert.Equal(t, "'it''s'!A1", a1Range("it's", "A1"))
	assert.Equal(t, "it's", rangeTitle(a1Range("it's", "A1")))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err       error
		sentinel  error
		name      string
		retryable bool
	}{
		{name: "rate limit", err: &googleapi.Error{Code: http.StatusTooManyRequests}, retryable: true, sentinel: common.ErrRateLimit},
		{name: "server error", err: &googleapi.Error{Code: http.StatusBadGateway}, retryable: true},
		{name: "bad range", err: &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: x!A:Z"}, sentinel: common.ErrSheetNotFound},
		{name: "forbidden", err: &googleapi.Error{Code: http.StatusForbidden}},
		{name: "transport", err: errors.New("connection reset"), retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.Equal(t, tt.retryable, common.IsRetryable(got))
			if tt.sentinel != nil {
				assert.ErrorIs(t, got, tt.sentinel)
			}
		})
	}

	assert.NoError(t, classifyError(nil))
}
