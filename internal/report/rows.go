package report

import (
	"sort"
	"strings"

	"github.com/saladlab/consult-tags/internal/model"
)

// TagCount is one display row of a category table.
type TagCount struct {
	Tag     string `json:"tag" yaml:"tag"`
	Display string `json:"display" yaml:"display"`
	Count   int    `json:"count" yaml:"count"`
}

// Rows returns the tags of a category sorted by count, highest first. Ties
// are broken by tag so the order is stable.
func Rows(category model.Category, freq model.FrequencyMapping) []TagCount {
	rows := make([]TagCount, 0, len(freq))
	for tag, n := range freq {
		rows = append(rows, TagCount{Tag: tag, Display: DisplayTag(category, tag), Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Tag < rows[j].Tag
	})
	return rows
}

// TopN returns at most n rows. A non-positive n returns all rows.
func TopN(rows []TagCount, n int) []TagCount {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// Subtotal sums the counts of rows.
func Subtotal(rows []TagCount) int {
	total := 0
	for _, r := range rows {
		total += r.Count
	}
	return total
}

var subPrefixes = []string{"도입문의/", "요청사항/", "기능문의/"}

// DisplayTag shortens a tag for a category table. Branch tables drop the
// branch segment; sub-bucket tables also drop the sub-category marker and a
// trailing feature marker. Tags without a path are returned as is.
func DisplayTag(category model.Category, tag string) string {
	if !strings.Contains(tag, "/") {
		return tag
	}

	_, rest, _ := strings.Cut(tag, "/")
	switch {
	case category == model.CategoryOther:
		return tag
	case category.IsBranchAll():
		return rest
	}

	for _, p := range subPrefixes {
		if strings.HasPrefix(rest, p) {
			rest = strings.ReplaceAll(rest, p, "")
		}
	}
	if strings.HasSuffix(rest, "/기능문의") {
		rest = strings.ReplaceAll(rest, "/기능문의", "")
	}
	return rest
}

// TopRanks assigns ranks 0..n-1 to the n largest distinct positive values.
// Values outside the top n are absent from the result.
func TopRanks(values []int, n int) map[int]int {
	distinct := make([]int, 0, len(values))
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if v > 0 && !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(distinct)))

	ranks := make(map[int]int, n)
	for i, v := range distinct {
		if i >= n {
			break
		}
		ranks[v] = i
	}
	return ranks
}
