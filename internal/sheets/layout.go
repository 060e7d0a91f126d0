package sheets

import (
	"strings"

	"github.com/saladlab/consult-tags/internal/model"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
	"google.golang.org/api/sheets/v4"
)

// Summary tab geometry.
const (
	SummaryRows    = 1000
	SummaryColumns = 50

	tableStride  = 3 // two data columns and a spacer
	chartSpacing = 15
	minGridRows  = 10
)

const (
	countHeader   = "개수"
	subtotalLabel = "소계"
)

var chartColors = map[model.BranchKey]*sheets.Color{
	model.BranchReview: {Red: 0.26, Green: 0.52, Blue: 0.96},
	model.BranchUpsell: {Red: 0.20, Green: 0.66, Blue: 0.33},
	model.BranchPush:   {Red: 0.92, Green: 0.26, Blue: 0.21},
	model.BranchOther:  {Red: 0.60, Green: 0.63, Blue: 0.65},
}

var highlight = &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9}

// SummaryTitle returns the title of the summary tab for a source tab.
func SummaryTitle(sheet string) string {
	return "[beta]" + sheet + "_분석"
}

// summaryTable is one category table placed on the summary tab.
type summaryTable struct {
	category model.Category
	rows     []report.TagCount
	column   int
}

// headerRow is always 0; tags follow, then a blank row and the subtotal.
func (t summaryTable) subtotalRow() int { return len(t.rows) + 2 }

func summaryTables(a *report.Analysis) []summaryTable {
	cats := a.NonEmptyCategories()
	tables := make([]summaryTable, 0, len(cats))
	for i, cat := range cats {
		tables = append(tables, summaryTable{
			category: cat,
			column:   i * tableStride,
			rows:     report.Rows(cat, a.Categories[cat]),
		})
	}
	return tables
}

// summaryGrid lays the tables side by side starting at A1.
func summaryGrid(tables []summaryTable) [][]any {
	height := minGridRows
	for _, t := range tables {
		if h := t.subtotalRow() + 1; h > height {
			height = h
		}
	}
	width := len(tables) * tableStride

	grid := make([][]any, height)
	for r := range grid {
		grid[r] = make([]any, width)
		for c := range grid[r] {
			grid[r][c] = ""
		}
	}

	for _, t := range tables {
		grid[0][t.column] = t.category.Title()
		grid[0][t.column+1] = countHeader
		for i, row := range t.rows {
			grid[i+1][t.column] = row.Display
			grid[i+1][t.column+1] = row.Count
		}
		grid[t.subtotalRow()][t.column] = subtotalLabel
		grid[t.subtotalRow()][t.column+1] = report.Subtotal(t.rows)
	}
	return grid
}

func recreateRequests(existing *int64, title string) []*sheets.Request {
	var reqs []*sheets.Request
	if existing != nil {
		reqs = append(reqs, &sheets.Request{
			DeleteSheet: &sheets.DeleteSheetRequest{
				SheetId:         *existing,
				ForceSendFields: []string{"SheetId"},
			},
		})
	}
	return append(reqs, &sheets.Request{
		AddSheet: &sheets.AddSheetRequest{
			Properties: &sheets.SheetProperties{
				Title: title,
				GridProperties: &sheets.GridProperties{
					RowCount:    SummaryRows,
					ColumnCount: SummaryColumns,
				},
			},
		},
	})
}

// formatRequests makes header and subtotal rows bold on a grey background.
func formatRequests(sheetID int64, tables []summaryTable) []*sheets.Request {
	reqs := make([]*sheets.Request, 0, 2*len(tables))
	for _, t := range tables {
		for _, row := range []int{0, t.subtotalRow()} {
			reqs = append(reqs, &sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: gridRange(sheetID, row, row+1, t.column, t.column+2),
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat:      &sheets.TextFormat{Bold: true},
							BackgroundColor: highlight,
						},
					},
					Fields: "userEnteredFormat.textFormat.bold,userEnteredFormat.backgroundColor",
				},
			})
		}
	}
	return reqs
}

// chartRequests builds one column chart per table, stacked vertically to
// the right of the tables.
func chartRequests(sheetID int64, tables []summaryTable, layout service.ChartLayout) []*sheets.Request {
	anchorColumn := int64(len(tables) * tableStride)
	startRow := layout.StartRow
	if startRow < 1 {
		startRow = 1
	}

	reqs := make([]*sheets.Request, 0, len(tables))
	for i, t := range tables {
		end := len(t.rows) + 1
		reqs = append(reqs, &sheets.Request{
			AddChart: &sheets.AddChartRequest{
				Chart: &sheets.EmbeddedChart{
					Spec: &sheets.ChartSpec{
						Title: t.category.Title(),
						BasicChart: &sheets.BasicChartSpec{
							ChartType:      "COLUMN",
							LegendPosition: "BOTTOM_LEGEND",
							Axis: []*sheets.BasicChartAxis{
								{Position: "BOTTOM_AXIS", Title: "태그"},
								{Position: "LEFT_AXIS", Title: countHeader},
							},
							Domains: []*sheets.BasicChartDomain{{
								Domain: sourceData(gridRange(sheetID, 1, end, t.column, t.column+1)),
							}},
							Series: []*sheets.BasicChartSeries{{
								Series: sourceData(gridRange(sheetID, 1, end, t.column+1, t.column+2)),
								Color:  chartColors[t.category.Branch()],
							}},
						},
					},
					Position: &sheets.EmbeddedObjectPosition{
						OverlayPosition: &sheets.OverlayPosition{
							AnchorCell: &sheets.GridCoordinate{
								SheetId:         sheetID,
								RowIndex:        int64(startRow - 1 + i*chartSpacing),
								ColumnIndex:     anchorColumn,
								ForceSendFields: []string{"SheetId", "RowIndex"},
							},
							WidthPixels:  int64(layout.Width),
							HeightPixels: int64(layout.Height),
						},
					},
				},
			},
		})
	}
	return reqs
}

func sourceData(r *sheets.GridRange) *sheets.ChartData {
	return &sheets.ChartData{
		SourceRange: &sheets.ChartSourceRange{Sources: []*sheets.GridRange{r}},
	}
}

func gridRange(sheetID int64, startRow, endRow, startCol, endCol int) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(startRow),
		EndRowIndex:      int64(endRow),
		StartColumnIndex: int64(startCol),
		EndColumnIndex:   int64(endCol),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

// a1Range quotes a tab title for A1 notation.
func a1Range(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}
