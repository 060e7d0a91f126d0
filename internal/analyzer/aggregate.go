package analyzer

import (
	"fmt"

	"github.com/saladlab/consult-tags/internal/model"
)

// Aggregate counts the tags found in tagField across every row of table.
//
// With model.PerOccurrence each parsed token counts once; with
// model.PerRowUnique a row contributes at most one to any tag. A missing
// tag column is reported as a *SchemaError before any row is read.
func Aggregate(table *model.Table, tagField string, policy model.CountingPolicy) (model.FrequencyMapping, error) {
	if !table.HasColumn(tagField) {
		return nil, &SchemaError{Field: tagField}
	}
	if policy != model.PerOccurrence && policy != model.PerRowUnique {
		return nil, fmt.Errorf("aggregate tags: unknown counting policy %q", policy)
	}

	counts := model.FrequencyMapping{}
	for _, row := range table.Rows() {
		raw, _ := row.Get(tagField)
		tags := ParseTags(raw)

		if policy == model.PerRowUnique {
			seen := make(map[string]struct{}, len(tags))
			for _, tag := range tags {
				if _, dup := seen[tag]; dup {
					continue
				}
				seen[tag] = struct{}{}
				counts[tag]++
			}
			continue
		}

		for _, tag := range tags {
			counts[tag]++
		}
	}

	return counts, nil
}
