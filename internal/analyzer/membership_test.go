package analyzer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeMembership_DistinctEntities(t *testing.T) {
	table := model.NewTable(
		[]string{"name", "tags"},
		[][]string{
			{"A", "리뷰/x"},
			{"A", "리뷰/y"},
			{"B", "업셀/z"},
		},
	)

	got, err := AnalyzeMembership(table, "tags", "name")
	require.NoError(t, err)

	assert.Equal(t, 1, got[model.MembershipReview])
	assert.Equal(t, 1, got[model.MembershipUpsell])
	assert.Equal(t, 0, got[model.MembershipReviewUpsell])
}

func TestAnalyzeMembership_Combinations(t *testing.T) {
	table := model.NewTable(
		[]string{"name", "tags"},
		[][]string{
			{"All", "리뷰/a, 업셀/b, 푸시/c"},
			{"Pair", "푸시/a,리뷰목록/b"},
			{"Split", "리뷰/a"},
			{"Split", "업셀/a"},
			{" Pair ", "업셀/x"},
			{"Solo", "푸시/a"},
		},
	)

	got, err := AnalyzeMembership(table, "tags", "name")
	require.NoError(t, err)

	want := model.MembershipCounts{
		model.MembershipReview:           3,
		model.MembershipUpsell:           3,
		model.MembershipPush:             3,
		model.MembershipReviewUpsell:     3,
		model.MembershipUpsellPush:       2,
		model.MembershipPushReview:       2,
		model.MembershipReviewUpsellPush: 2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AnalyzeMembership() mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeMembership_CombinationsAcrossRows(t *testing.T) {
	tests := []struct {
		name string
		want model.MembershipCounts
		rows [][]string
	}{
		{
			name: "pair on separate rows",
			rows: [][]string{
				{"Acme", "리뷰/요청사항"},
				{"Acme", "업셀/기능문의"},
				{"Beta", "푸시/도입문의"},
			},
			want: model.MembershipCounts{
				model.MembershipReview:           1,
				model.MembershipUpsell:           1,
				model.MembershipPush:             1,
				model.MembershipReviewUpsell:     1,
				model.MembershipUpsellPush:       0,
				model.MembershipPushReview:       0,
				model.MembershipReviewUpsellPush: 0,
			},
		},
		{
			name: "triple on three rows",
			rows: [][]string{
				{"Acme", "리뷰/요청사항"},
				{"Beta", "업셀/기능문의"},
				{"Acme", "업셀/기능문의"},
				{"Acme ", "푸시/도입문의"},
			},
			want: model.MembershipCounts{
				model.MembershipReview:           1,
				model.MembershipUpsell:           2,
				model.MembershipPush:             1,
				model.MembershipReviewUpsell:     1,
				model.MembershipUpsellPush:       1,
				model.MembershipPushReview:       1,
				model.MembershipReviewUpsellPush: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := model.NewTable([]string{"name", "tags"}, tt.rows)

			got, err := AnalyzeMembership(table, "tags", "name")
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AnalyzeMembership() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeMembership_SkipsBlankEntities(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{name: "empty", row: []string{"리뷰/a", ""}},
		{name: "whitespace only", row: []string{"리뷰/a", "   "}},
		{name: "tab and spaces", row: []string{"업셀/a", "\t "}},
		{name: "missing cell", row: []string{"리뷰/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := model.NewTable(
				[]string{"tags", "name"},
				[][]string{tt.row, {"리뷰/a", "Acme"}},
			)

			got, err := AnalyzeMembership(table, "tags", "name")
			require.NoError(t, err)
			assert.Equal(t, 1, got[model.MembershipReview])
			assert.Zero(t, got[model.MembershipUpsell])
		})
	}
}

func TestAnalyzeMembership_AllKeysPresent(t *testing.T) {
	table := model.NewTable([]string{"name", "tags"}, nil)

	got, err := AnalyzeMembership(table, "tags", "name")
	require.NoError(t, err)
	require.Len(t, got, len(model.MembershipKeys()))
	for _, k := range model.MembershipKeys() {
		v, ok := got[k]
		assert.True(t, ok, "key %s", k)
		assert.Zero(t, v)
	}
}

func TestAnalyzeMembership_SchemaErrors(t *testing.T) {
	table := model.NewTable([]string{"name", "tags"}, [][]string{{"A", "리뷰/x"}})

	tests := []struct {
		name        string
		tagField    string
		entityField string
		wantField   string
	}{
		{name: "missing tag field", tagField: "labels", entityField: "name", wantField: "labels"},
		{name: "missing entity field", tagField: "tags", entityField: "company", wantField: "company"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AnalyzeMembership(table, tt.tagField, tt.entityField)
			assert.Nil(t, got)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.wantField, schemaErr.Field)
		})
	}
}
