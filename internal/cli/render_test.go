package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis(t *testing.T) *report.Analysis {
	t.Helper()
	table := model.NewTable([]string{"id", "name", "tags"}, [][]string{
		{"1", "Acme", "리뷰/요청사항/위젯, 업셀/기능문의"},
		{"2", "Beta", "리뷰/요청사항/위젯"},
		{"3", "Gamma", "리뷰/도입문의/가격, 단순문의"},
	})
	a, err := report.Build("2024-05 상담데이터", table, report.DefaultOptions())
	require.NoError(t, err)
	return a
}

func TestHighlightColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#ffffff"), HighlightColor(0))
	assert.Equal(t, lipgloss.Color("#ffff00"), HighlightColor(1))
	assert.NotEqual(t, HighlightColor(0.3), HighlightColor(0.8))
}

func TestHighlightStyle(t *testing.T) {
	ranks := map[int]int{9: 0, 5: 1, 3: 2}
	base := lipgloss.NewStyle()

	top := highlightStyle(base, ranks, TableHighlight, 9)
	assert.Equal(t, HighlightColor(0.8), top.GetBackground())

	third := highlightStyle(base, ranks, TableHighlight, 3)
	assert.Equal(t, HighlightColor(0.3), third.GetBackground())

	plain := highlightStyle(base, ranks, TableHighlight, 1)
	assert.Equal(t, base.GetBackground(), plain.GetBackground())
}

func TestRenderCategory(t *testing.T) {
	freq := model.FrequencyMapping{"리뷰/a": 4, "리뷰/b": 2, "리뷰/c": 1}

	out := RenderCategory(model.CategoryReview, freq, 2)
	assert.Contains(t, out, "리뷰 상담태그")
	assert.Contains(t, out, "소계")
	assert.Contains(t, out, "7")
	assert.NotContains(t, out, " c ")
	assert.Contains(t, out, "1 more")
}

func TestRenderAnalysis(t *testing.T) {
	out := RenderAnalysis(sampleAnalysis(t), 10)

	assert.Contains(t, out, "2024-05 상담데이터")
	assert.Contains(t, out, "총 상담 3건")
	assert.Contains(t, out, "리뷰+업셀")
	assert.Contains(t, out, "요청사항/위젯")
	assert.Contains(t, out, "기타")
	assert.Contains(t, out, "단순문의")
}

func TestRenderAnalysis_NoTags(t *testing.T) {
	a := &report.Analysis{Sheet: "s", Categories: model.NewCategoryMapping()}
	assert.Contains(t, RenderAnalysis(a, 10), "No tags found")
}

func TestRenderComparison(t *testing.T) {
	first := sampleAnalysis(t)
	second := sampleAnalysis(t)
	second.Sheet = "2024-06 상담데이터"

	cmp, err := report.Compare([]*report.Analysis{first, second}, 10)
	require.NoError(t, err)

	out := RenderComparison(cmp, 10)
	assert.Contains(t, out, "2024-05 상담데이터 · 2024-06 상담데이터")
	assert.Contains(t, out, "변화량")
	assert.Contains(t, out, "리뷰 상담태그")
	assert.Equal(t, len(cmp.Categories), strings.Count(out, "소계"))
}

func TestRenderSheets(t *testing.T) {
	out := RenderSheets([]service.SheetInfo{
		{Index: 0, Title: "2024-05 상담데이터", RowCount: 1000, ColumnCount: 26},
	})
	assert.Contains(t, out, "2024-05 상담데이터")
	assert.Contains(t, out, "1000")
}

func TestFormatDelta(t *testing.T) {
	up, down, zero := 3, -2, 0
	assert.Empty(t, FormatDelta(nil))
	assert.Contains(t, FormatDelta(&up), "▲ 3")
	assert.Contains(t, FormatDelta(&down), "▼ 2")
	assert.Contains(t, FormatDelta(&zero), "0")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 2, "Loading sheets")
	p.Step("a", 1, 2)
	p.Step("b", 2, 2)
	p.Done()

	assert.Contains(t, buf.String(), "2/2")
}
