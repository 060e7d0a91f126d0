package analyzer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saladlab/consult-tags/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *model.Table {
	return model.NewTable(
		[]string{"id", "name", "tags"},
		[][]string{
			{"1", "Acme", "리뷰/요청사항, 리뷰/요청사항, 업셀/기능문의"},
			{"2", "Acme", "리뷰/요청사항"},
			{"3", "Beta", ""},
			{"4", "Beta"},
			{"5", "Gamma", " , 푸시/도입문의 ,"},
		},
	)
}

func TestAggregate_Policies(t *testing.T) {
	tests := []struct {
		want   model.FrequencyMapping
		name   string
		policy model.CountingPolicy
	}{
		{
			name:   "per occurrence counts repeats within a row",
			policy: model.PerOccurrence,
			want: model.FrequencyMapping{
				"리뷰/요청사항": 3,
				"업셀/기능문의": 1,
				"푸시/도입문의": 1,
			},
		},
		{
			name:   "per row unique counts a row once",
			policy: model.PerRowUnique,
			want: model.FrequencyMapping{
				"리뷰/요청사항": 2,
				"업셀/기능문의": 1,
				"푸시/도입문의": 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(sampleTable(), "tags", tt.policy)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregate_MissingColumn(t *testing.T) {
	_, err := Aggregate(sampleTable(), "labels", model.PerOccurrence)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "labels", schemaErr.Field)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), `"labels"`)
}

func TestAggregate_UnknownPolicy(t *testing.T) {
	_, err := Aggregate(sampleTable(), "tags", model.CountingPolicy("sometimes"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchema)
}

func TestAggregate_EmptyTable(t *testing.T) {
	table := model.NewTable([]string{"tags"}, nil)

	for _, policy := range []model.CountingPolicy{model.PerOccurrence, model.PerRowUnique} {
		got, err := Aggregate(table, "tags", policy)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
}

func TestAggregate_TotalEqualsTokenCount(t *testing.T) {
	table := sampleTable()

	tokens := 0
	for _, row := range table.Rows() {
		tokens += len(ParseTags(row.Value("tags")))
	}

	got, err := Aggregate(table, "tags", model.PerOccurrence)
	require.NoError(t, err)
	assert.Equal(t, tokens, got.Total())
}

func TestAggregate_PerRowUniqueBoundedByRows(t *testing.T) {
	table := model.NewTable(
		[]string{"tags"},
		[][]string{
			{"a,a,a,a"},
			{"a, b, a"},
			{"b"},
		},
	)

	got, err := Aggregate(table, "tags", model.PerRowUnique)
	require.NoError(t, err)
	for tag, n := range got {
		assert.LessOrEqual(t, n, table.Len(), "tag %q", tag)
	}
	assert.Equal(t, model.FrequencyMapping{"a": 2, "b": 2}, got)
}

func TestAggregate_DoesNotMutateTable(t *testing.T) {
	table := sampleTable()
	before := make([][]string, 0, table.Len())
	for _, r := range table.Rows() {
		before = append(before, r.Values())
	}

	_, err := Aggregate(table, "tags", model.PerRowUnique)
	require.NoError(t, err)

	for i, r := range table.Rows() {
		assert.Equal(t, before[i], r.Values())
	}
}
