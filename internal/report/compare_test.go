package report

import (
	"testing"

	"github.com/saladlab/consult-tags/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisFor(sheet string, total int, freq model.FrequencyMapping, members model.MembershipCounts) *Analysis {
	cats := model.NewCategoryMapping()
	for tag, n := range freq {
		cats[model.CategoryReview][tag] = n
	}
	return &Analysis{
		Sheet:              sheet,
		TotalConsultations: total,
		TagCounts:          freq,
		Categories:         cats,
		Membership:         members,
	}
}

func TestCompare_TooFew(t *testing.T) {
	_, err := Compare([]*Analysis{analysisFor("a", 1, nil, nil)}, 10)
	assert.ErrorIs(t, err, ErrTooFewAnalyses)
}

func TestCompare(t *testing.T) {
	jan := analysisFor("1월", 10,
		model.FrequencyMapping{"리뷰/a": 6, "리뷰/b": 1},
		model.MembershipCounts{model.MembershipReview: 4})
	feb := analysisFor("2월", 7,
		model.FrequencyMapping{"리뷰/a": 2, "리뷰/c": 8},
		model.MembershipCounts{model.MembershipReview: 5, model.MembershipUpsell: 2})

	cmp, err := Compare([]*Analysis{jan, feb}, 10)
	require.NoError(t, err)

	assert.NotEmpty(t, cmp.ID)
	assert.Equal(t, []string{"1월", "2월"}, cmp.Sheets)
	assert.Nil(t, cmp.Totals[0].Delta)
	require.NotNil(t, cmp.Totals[1].Delta)
	assert.Equal(t, -3, *cmp.Totals[1].Delta)

	require.Len(t, cmp.Membership, 7)
	assert.Equal(t, []int{4, 5}, cmp.Membership[0].Counts)
	assert.Equal(t, []string{"", "+25.0%"}, cmp.Membership[0].Changes)
	assert.Equal(t, []string{"", "new"}, cmp.Membership[1].Changes)

	require.Len(t, cmp.Categories, 1)
	review := cmp.Categories[0]
	assert.Equal(t, model.CategoryReview, review.Category)
	assert.Equal(t, 7, review.Totals[0].Count)
	require.NotNil(t, review.Totals[1].Delta)
	assert.Equal(t, 3, *review.Totals[1].Delta)

	require.Len(t, review.Rows, 3)
	assert.Equal(t, "리뷰/c", review.Rows[0].Tag)
	assert.Equal(t, 8, review.Rows[0].Spread)
	assert.Equal(t, "c", review.Rows[0].Display)
	assert.Equal(t, []int{6, 2}, review.Rows[1].Counts)

	// Review trend drops tags that never reach the minimum and sorts by the latest sheet.
	require.Len(t, review.Trend, 2)
	assert.Equal(t, "리뷰/c", review.Trend[0].Tag)
	assert.Equal(t, "리뷰/a", review.Trend[1].Tag)
}

func TestCompare_CategoryDeltaNeedsBaseline(t *testing.T) {
	a := analysisFor("a", 1, model.FrequencyMapping{}, nil)
	b := analysisFor("b", 1, model.FrequencyMapping{"리뷰/x": 2}, nil)

	cmp, err := Compare([]*Analysis{a, b}, 0)
	require.NoError(t, err)
	require.Len(t, cmp.Categories, 1)
	assert.Nil(t, cmp.Categories[0].Totals[1].Delta)
}

func TestChangeText(t *testing.T) {
	tests := []struct {
		want      string
		prev, cur int
	}{
		{prev: 4, cur: 4, want: ""},
		{prev: 4, cur: 5, want: "+25.0%"},
		{prev: 8, cur: 6, want: "-25.0%"},
		{prev: 0, cur: 3, want: "new"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChangeText(tt.prev, tt.cur), "%d -> %d", tt.prev, tt.cur)
	}
}
