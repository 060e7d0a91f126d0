package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/saladlab/consult-tags/internal/model"
)

// ErrTooFewAnalyses is returned when a comparison gets fewer than two sheets.
var ErrTooFewAnalyses = errors.New("at least two analyses are required for comparison")

// TrendMinimum is the smallest peak count a tag needs to appear in the
// trend series of the busy review categories.
const TrendMinimum = 5

// SheetTotal is a per-sheet figure together with its change from the
// previous sheet. Delta is nil for the first sheet or when no baseline exists.
type SheetTotal struct {
	Delta *int   `json:"delta,omitempty" yaml:"delta,omitempty"`
	Sheet string `json:"sheet" yaml:"sheet"`
	Count int    `json:"count" yaml:"count"`
}

// MembershipRow compares one membership key across sheets.
type MembershipRow struct {
	Key     model.MembershipKey `json:"key" yaml:"key"`
	Title   string              `json:"title" yaml:"title"`
	Counts  []int               `json:"counts" yaml:"counts"`
	Changes []string            `json:"changes" yaml:"changes"`
}

// ComparisonRow is one tag's counts across sheets.
type ComparisonRow struct {
	Tag     string `json:"tag" yaml:"tag"`
	Display string `json:"display" yaml:"display"`
	Counts  []int  `json:"counts" yaml:"counts"`
	Spread  int    `json:"spread" yaml:"spread"`
}

// CategoryComparison compares one category across sheets.
type CategoryComparison struct {
	Category model.Category  `json:"category" yaml:"category"`
	Title    string          `json:"title" yaml:"title"`
	Totals   []SheetTotal    `json:"totals" yaml:"totals"`
	Rows     []ComparisonRow `json:"rows" yaml:"rows"`
	Trend    []ComparisonRow `json:"trend" yaml:"trend"`
}

// Comparison is the result of comparing several analyses in sheet order.
type Comparison struct {
	GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
	ID          string               `json:"id" yaml:"id"`
	Sheets      []string             `json:"sheets" yaml:"sheets"`
	Totals      []SheetTotal         `json:"totals" yaml:"totals"`
	Membership  []MembershipRow      `json:"company_stats" yaml:"company_stats"`
	Categories  []CategoryComparison `json:"categories" yaml:"categories"`
}

// Compare lines up analyses in the given order. Categories that are empty
// in every sheet are left out. trendLimit caps the trend series length.
func Compare(analyses []*Analysis, trendLimit int) (*Comparison, error) {
	if len(analyses) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAnalyses, len(analyses))
	}

	cmp := &Comparison{
		ID:          ulid.Make().String(),
		GeneratedAt: time.Now().UTC(),
		Sheets:      make([]string, len(analyses)),
		Totals:      make([]SheetTotal, len(analyses)),
	}

	for i, a := range analyses {
		cmp.Sheets[i] = a.Sheet
		cmp.Totals[i] = SheetTotal{Sheet: a.Sheet, Count: a.TotalConsultations}
		if i > 0 {
			d := a.TotalConsultations - analyses[i-1].TotalConsultations
			cmp.Totals[i].Delta = &d
		}
	}

	for _, key := range model.MembershipKeys() {
		row := MembershipRow{
			Key:     key,
			Title:   key.Title(),
			Counts:  make([]int, len(analyses)),
			Changes: make([]string, len(analyses)),
		}
		for i, a := range analyses {
			row.Counts[i] = a.Membership[key]
			if i > 0 {
				row.Changes[i] = ChangeText(row.Counts[i-1], row.Counts[i])
			}
		}
		cmp.Membership = append(cmp.Membership, row)
	}

	for _, cat := range model.Categories() {
		if c, ok := compareCategory(cat, analyses, trendLimit); ok {
			cmp.Categories = append(cmp.Categories, c)
		}
	}

	return cmp, nil
}

func compareCategory(cat model.Category, analyses []*Analysis, trendLimit int) (CategoryComparison, bool) {
	tags := make(map[string]struct{})
	for _, a := range analyses {
		for tag := range a.Categories[cat] {
			tags[tag] = struct{}{}
		}
	}
	if len(tags) == 0 {
		return CategoryComparison{}, false
	}

	out := CategoryComparison{
		Category: cat,
		Title:    cat.Title(),
		Totals:   make([]SheetTotal, len(analyses)),
		Rows:     make([]ComparisonRow, 0, len(tags)),
	}

	for i, a := range analyses {
		total := a.Categories[cat].Total()
		out.Totals[i] = SheetTotal{Sheet: a.Sheet, Count: total}
		if i > 0 {
			if prev := analyses[i-1].Categories[cat].Total(); prev > 0 {
				d := total - prev
				out.Totals[i].Delta = &d
			}
		}
	}

	for tag := range tags {
		row := ComparisonRow{
			Tag:     tag,
			Display: DisplayTag(cat, tag),
			Counts:  make([]int, len(analyses)),
		}
		lo, hi := 0, 0
		for i, a := range analyses {
			n := a.Categories[cat][tag]
			row.Counts[i] = n
			if i == 0 || n < lo {
				lo = n
			}
			if i == 0 || n > hi {
				hi = n
			}
		}
		row.Spread = hi - lo
		out.Rows = append(out.Rows, row)
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		if out.Rows[i].Spread != out.Rows[j].Spread {
			return out.Rows[i].Spread > out.Rows[j].Spread
		}
		return out.Rows[i].Tag < out.Rows[j].Tag
	})

	out.Trend = trend(cat, out.Rows, trendLimit)
	return out, true
}

// trend keeps the tags worth plotting, ordered by the latest sheet.
func trend(cat model.Category, rows []ComparisonRow, limit int) []ComparisonRow {
	busy := cat == model.CategoryReview || cat == model.CategoryReviewRequest

	out := make([]ComparisonRow, 0, len(rows))
	for _, r := range rows {
		if busy && maxOf(r.Counts) < TrendMinimum {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return last(out[i].Counts) > last(out[j].Counts)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ChangeText describes the change from prev to cur as a signed percentage,
// "new" when there was no baseline, or "" when nothing changed.
func ChangeText(prev, cur int) string {
	change := cur - prev
	if change == 0 {
		return ""
	}
	if prev > 0 {
		return fmt.Sprintf("%+.1f%%", float64(change)/float64(prev)*100)
	}
	return "new"
}

func maxOf(values []int) int {
	m := 0
	for i, v := range values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

func last(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}
