package analyzer

import (
	"strings"

	"github.com/saladlab/consult-tags/internal/model"
)

// AnalyzeMembership counts, for every branch and branch combination, the
// distinct entities that have at least one tag in each member branch.
//
// Entity names are trimmed; rows whose entity is missing or blank (including
// whitespace only) are skipped. A branch is touched by an entity when any tag
// on any of its rows starts with the branch name, so combinations are judged
// over all of an entity's rows. Both columns must exist
// in the header; otherwise a *SchemaError is returned before any row is read.
func AnalyzeMembership(table *model.Table, tagField, entityField string) (model.MembershipCounts, error) {
	return analyzeMembership(DefaultTaxonomy(), table, tagField, entityField)
}

func analyzeMembership(taxonomy Taxonomy, table *model.Table, tagField, entityField string) (model.MembershipCounts, error) {
	if !table.HasColumn(tagField) {
		return nil, &SchemaError{Field: tagField}
	}
	if !table.HasColumn(entityField) {
		return nil, &SchemaError{Field: entityField}
	}

	touched := make(map[string]map[model.BranchKey]bool)
	for _, row := range table.Rows() {
		entity, ok := row.Get(entityField)
		if !ok {
			continue
		}
		entity = strings.TrimSpace(entity)
		if entity == "" {
			continue
		}

		branches, ok := touched[entity]
		if !ok {
			branches = make(map[model.BranchKey]bool, len(taxonomy.Branches))
			touched[entity] = branches
		}
		markBranches(branches, taxonomy.Branches, ParseTags(row.Value(tagField)))
	}

	keys := model.MembershipKeys()
	counts := make(model.MembershipCounts, len(keys))
	for _, k := range keys {
		counts[k] = 0
		for _, branches := range touched {
			if satisfies(branches, k.Members()) {
				counts[k]++
			}
		}
	}
	return counts, nil
}

func markBranches(touched map[model.BranchKey]bool, branches []model.Branch, tags []string) {
	for _, b := range branches {
		for _, tag := range tags {
			if strings.HasPrefix(tag, b.Name) {
				touched[b.Key] = true
				break
			}
		}
	}
}

func satisfies(touched map[model.BranchKey]bool, members []model.BranchKey) bool {
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		if !touched[m] {
			return false
		}
	}
	return true
}
