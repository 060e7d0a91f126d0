package analyzer

import (
	"testing"

	"github.com/saladlab/consult-tags/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEndScenario(t *testing.T) {
	table := model.NewTable(
		[]string{"id", "name", "tags"},
		[][]string{
			{"1", "Acme", "리뷰/요청사항"},
			{"2", "Acme", "업셀/기능문의"},
			{"3", "Beta", "푸시/도입문의"},
		},
	)

	freq, err := Aggregate(table, "tags", model.PerOccurrence)
	require.NoError(t, err)
	assert.Equal(t, model.FrequencyMapping{
		"리뷰/요청사항": 1,
		"업셀/기능문의": 1,
		"푸시/도입문의": 1,
	}, freq)

	cats := Classify(freq)
	assert.Equal(t, model.FrequencyMapping{"리뷰/요청사항": 1}, cats[model.CategoryReviewRequest])
	assert.Equal(t, model.FrequencyMapping{"업셀/기능문의": 1}, cats[model.CategoryUpsellFeature])
	assert.Equal(t, model.FrequencyMapping{"푸시/도입문의": 1}, cats[model.CategoryPushOnboarding])

	members, err := AnalyzeMembership(table, "tags", "name")
	require.NoError(t, err)
	assert.Equal(t, model.MembershipCounts{
		model.MembershipReview:           1,
		model.MembershipUpsell:           1,
		model.MembershipPush:             1,
		model.MembershipReviewUpsell:     1,
		model.MembershipUpsellPush:       0,
		model.MembershipPushReview:       0,
		model.MembershipReviewUpsellPush: 0,
	}, members)
}
