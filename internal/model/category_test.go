package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryMapping_FreshPerCall(t *testing.T) {
	first := NewCategoryMapping()
	require.Len(t, first, len(Categories()))

	first[CategoryReview]["리뷰/x"] = 3

	second := NewCategoryMapping()
	assert.Empty(t, second[CategoryReview], "buckets must not be shared between calls")
}

func TestBranchKey_Category(t *testing.T) {
	tests := []struct {
		branch BranchKey
		bucket Bucket
		want   Category
	}{
		{BranchReview, BucketAll, CategoryReview},
		{BranchReview, BucketRequest, CategoryReviewRequest},
		{BranchUpsell, BucketOnboarding, CategoryUpsellOnboarding},
		{BranchPush, BucketFeature, CategoryPushFeature},
		{BranchOther, BucketFeature, CategoryOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			got := tt.branch.Category(tt.bucket)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, Categories(), got)
		})
	}
}

func TestCategory_BranchAndTitle(t *testing.T) {
	for _, c := range Categories() {
		assert.NotEqual(t, string(c), c.Title(), "category %s should have a display title", c)
	}

	assert.Equal(t, BranchUpsell, CategoryUpsellFeature.Branch())
	assert.Equal(t, BranchOther, CategoryOther.Branch())
	assert.True(t, CategoryPush.IsBranchAll())
	assert.False(t, CategoryPushRequest.IsBranchAll())
	assert.Equal(t, "기타", CategoryOther.Title())
}

func TestFrequencyMapping_Total(t *testing.T) {
	assert.Equal(t, 0, FrequencyMapping{}.Total())
	assert.Equal(t, 6, FrequencyMapping{"a": 1, "b": 5}.Total())
}

func TestParseCountingPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    CountingPolicy
		wantErr bool
	}{
		{input: "per-occurrence", want: PerOccurrence},
		{input: "per-row-unique", want: PerRowUnique},
		{input: "", wantErr: true},
		{input: "unique", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCountingPolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMembershipKey_Members(t *testing.T) {
	keys := MembershipKeys()
	require.Len(t, keys, 7)

	for _, k := range keys {
		assert.NotEmpty(t, k.Members(), "key %s", k)
	}
	assert.Len(t, MembershipReviewUpsellPush.Members(), 3)
	assert.Equal(t, "리뷰+업셀", MembershipReviewUpsell.Title())
}
