package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
)

// Highlight opacities for the largest counts, strongest first.
var (
	TableHighlight      = []float64{0.8, 0.5, 0.3}
	ComparisonHighlight = []float64{0.9, 0.7, 0.5, 0.3, 0.1}
)

var (
	highlightBase = mustHex("#ffff00")
	paper         = mustHex("#ffffff")
	ink           = lipgloss.Color("#000000")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HighlightColor blends the highlight yellow over white at the given opacity.
func HighlightColor(opacity float64) lipgloss.Color {
	return lipgloss.Color(paper.BlendRgb(highlightBase, opacity).Clamped().Hex())
}

// highlightStyle returns the cell style for a count, or base when the count
// is not among the ranked values.
func highlightStyle(base lipgloss.Style, ranks map[int]int, opacities []float64, count int) lipgloss.Style {
	rank, ok := ranks[count]
	if !ok || rank >= len(opacities) {
		return base
	}
	return base.Background(HighlightColor(opacities[rank])).Foreground(ink)
}

func newTable(branch model.BranchKey, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BranchColors[branch])).
		Headers(headers...)
}

// RenderSheets lists tabs with their size.
func RenderSheets(infos []service.SheetInfo) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "Title", "Rows", "Columns").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		})
	for _, info := range infos {
		t.Row(
			strconv.FormatInt(info.Index, 10),
			info.Title,
			strconv.FormatInt(info.RowCount, 10),
			strconv.FormatInt(info.ColumnCount, 10),
		)
	}
	return t.String()
}

// RenderCategory renders one category table: the top rows, a blank
// separator and the subtotal. The three largest counts are highlighted.
func RenderCategory(category model.Category, freq model.FrequencyMapping, topN int) string {
	rows := report.Rows(category, freq)
	shown := report.TopN(rows, topN)

	counts := make([]int, len(shown))
	for i, r := range shown {
		counts[i] = r.Count
	}
	ranks := report.TopRanks(counts, len(TableHighlight))

	t := newTable(category.Branch(), category.Title(), "개수")
	for _, r := range shown {
		t.Row(r.Display, strconv.Itoa(r.Count))
	}
	t.Row("소계", strconv.Itoa(report.Subtotal(rows)))

	subtotalRow := len(shown)
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return TableHeaderStyle.Foreground(BranchColors[category.Branch()])
		case row == subtotalRow:
			return TableCellStyle.Bold(true)
		case col == 1:
			return highlightStyle(TableCellStyle.Align(lipgloss.Right), ranks, TableHighlight, counts[row])
		default:
			return TableCellStyle
		}
	})

	out := t.String()
	if len(shown) < len(rows) {
		out += "\n" + SubtleStyle.Render(fmt.Sprintf("  … %d more", len(rows)-len(shown)))
	}
	return out
}

// RenderMembership renders the per-company branch usage table.
func RenderMembership(counts model.MembershipCounts) string {
	t := newTable(model.BranchOther, "구분", "업체 수")
	for _, key := range model.MembershipKeys() {
		t.Row(key.Title(), strconv.Itoa(counts[key]))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return TableHeaderStyle
		}
		if col == 1 {
			return TableCellStyle.Align(lipgloss.Right)
		}
		return TableCellStyle
	})
	return t.String()
}

// RenderAnalysis renders the full single-sheet report.
func RenderAnalysis(a *report.Analysis, topN int) string {
	var b strings.Builder

	b.WriteString(FormatTitle(a.Sheet))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s  %s\n\n",
		BoldStyle.Render(fmt.Sprintf("총 상담 %d건", a.TotalConsultations)),
		SubtleStyle.Render(fmt.Sprintf("rows %d", a.Rows)),
		SubtleStyle.Render(string(a.Policy)))

	b.WriteString(RenderMembership(a.Membership))
	b.WriteString("\n\n")

	cats := a.NonEmptyCategories()
	if len(cats) == 0 {
		b.WriteString(FormatWarning("No tags found"))
		b.WriteString("\n")
		return b.String()
	}

	// Category tables are laid out one branch per line.
	var line []string
	branch := cats[0].Branch()
	flush := func() {
		if len(line) > 0 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
			b.WriteString("\n")
			line = nil
		}
	}
	for _, cat := range cats {
		if cat.Branch() != branch {
			flush()
			branch = cat.Branch()
		}
		line = append(line, lipgloss.NewStyle().MarginRight(2).Render(RenderCategory(cat, a.Categories[cat], topN)))
	}
	flush()

	return b.String()
}

// FormatDelta renders a signed change, empty when there is no baseline.
func FormatDelta(delta *int) string {
	switch {
	case delta == nil:
		return ""
	case *delta > 0:
		return SuccessStyle.Render(fmt.Sprintf("▲ %d", *delta))
	case *delta < 0:
		return ErrorStyle.Render(fmt.Sprintf("▼ %d", -*delta))
	default:
		return SubtleStyle.Render("0")
	}
}

func renderTotals(totals []report.SheetTotal) string {
	cards := make([]string, 0, len(totals))
	for _, tot := range totals {
		body := BoldStyle.Render(strconv.Itoa(tot.Count))
		if d := FormatDelta(tot.Delta); d != "" {
			body += " " + d
		}
		cards = append(cards, BoxStyle.MarginRight(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, SubtleStyle.Render(tot.Sheet), body)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// RenderComparison renders a multi-sheet comparison. Each sheet column
// highlights its five largest counts.
func RenderComparison(c *report.Comparison, topN int) string {
	var b strings.Builder

	b.WriteString(FormatTitle(strings.Join(c.Sheets, " · ")))
	b.WriteString("\n")
	b.WriteString(renderTotals(c.Totals))
	b.WriteString("\n\n")

	headers := append([]string{"구분"}, c.Sheets...)
	mt := newTable(model.BranchOther, headers...)
	for _, m := range c.Membership {
		cells := []string{m.Title}
		for i, n := range m.Counts {
			cell := strconv.Itoa(n)
			if m.Changes[i] != "" {
				cell += " (" + m.Changes[i] + ")"
			}
			cells = append(cells, cell)
		}
		mt.Row(cells...)
	}
	mt.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return TableHeaderStyle
		}
		return TableCellStyle
	})
	b.WriteString(mt.String())
	b.WriteString("\n\n")

	for _, cat := range c.Categories {
		b.WriteString(renderCategoryComparison(cat, c.Sheets, topN))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCategoryComparison(cat report.CategoryComparison, sheets []string, topN int) string {
	rows := cat.Rows
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}

	columnRanks := make([]map[int]int, len(sheets))
	for s := range sheets {
		col := make([]int, len(rows))
		for i, r := range rows {
			col[i] = r.Counts[s]
		}
		columnRanks[s] = report.TopRanks(col, len(ComparisonHighlight))
	}

	headers := append([]string{cat.Title}, sheets...)
	headers = append(headers, "변화량")
	t := newTable(cat.Category.Branch(), headers...)
	for _, r := range rows {
		cells := []string{r.Display}
		for _, n := range r.Counts {
			cells = append(cells, strconv.Itoa(n))
		}
		t.Row(append(cells, strconv.Itoa(r.Spread))...)
	}

	totals := []string{"소계"}
	for _, tot := range cat.Totals {
		cell := strconv.Itoa(tot.Count)
		if tot.Delta != nil {
			cell += fmt.Sprintf(" (%+d)", *tot.Delta)
		}
		totals = append(totals, cell)
	}
	t.Row(append(totals, "")...)

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return TableHeaderStyle.Foreground(BranchColors[cat.Category.Branch()])
		case row >= len(rows):
			return TableCellStyle.Bold(true)
		case col >= 1 && col <= len(sheets):
			return highlightStyle(TableCellStyle.Align(lipgloss.Right), columnRanks[col-1], ComparisonHighlight, rows[row].Counts[col-1])
		default:
			return TableCellStyle
		}
	})
	return t.String()
}
