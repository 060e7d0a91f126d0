package tui

import (
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
)

// sheetsLoadedMsg carries the consultation tabs found in the spreadsheet.
type sheetsLoadedMsg struct {
	err    error
	sheets []service.SheetInfo
}

// analysisMsg carries the result of a single-sheet analysis.
type analysisMsg struct {
	analysis *report.Analysis
	err      error
	seq      int
}

// comparisonMsg carries the result of a multi-sheet comparison.
type comparisonMsg struct {
	comparison *report.Comparison
	err        error
	seq        int
}

// progressMsg reports one finished sheet during a comparison.
type progressMsg struct {
	sheet string
	done  int
	total int
	seq   int
}
