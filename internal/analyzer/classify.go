package analyzer

import (
	"strings"

	"github.com/saladlab/consult-tags/internal/model"
)

// Classifier sorts tags into report categories.
type Classifier struct {
	branches map[string]model.BranchKey
	taxonomy Taxonomy
	rules    []Rule
}

// NewClassifier builds a classifier for the taxonomy using DefaultRules.
func NewClassifier(taxonomy Taxonomy) *Classifier {
	branches := make(map[string]model.BranchKey)
	for _, b := range taxonomy.Branches {
		branches[b.Name] = b.Key
		for _, alias := range b.Aliases {
			branches[alias] = b.Key
		}
	}

	return &Classifier{
		taxonomy: taxonomy,
		branches: branches,
		rules:    DefaultRules(taxonomy.Markers),
	}
}

// Classify copies every entry of freq into each category its tag belongs to.
// The result holds a bucket for every category, including empty ones.
func (c *Classifier) Classify(freq model.FrequencyMapping) model.CategoryMapping {
	out := model.NewCategoryMapping()
	for tag, count := range freq {
		for _, cat := range c.Categories(tag) {
			out[cat][tag] += count
		}
	}
	return out
}

// Categories returns the categories tag is counted in, in rule order.
// Tags without a path or with an unknown branch go only to model.CategoryOther.
func (c *Classifier) Categories(tag string) []model.Category {
	seg, ok := c.split(tag)
	if !ok {
		return []model.Category{model.CategoryOther}
	}

	branch, known := c.branches[seg.Branch]
	if !known {
		return []model.Category{model.CategoryOther}
	}

	cats := make([]model.Category, 0, len(c.rules))
	for _, r := range c.rules {
		if r.Match(seg) {
			cats = append(cats, branch.Category(r.Bucket))
		}
	}
	return cats
}

func (c *Classifier) split(tag string) (Segments, bool) {
	if !strings.Contains(tag, c.taxonomy.Delimiter) {
		return Segments{}, false
	}
	parts := strings.Split(tag, c.taxonomy.Delimiter)
	if len(parts) < 2 {
		return Segments{}, false
	}

	seg := Segments{Branch: parts[0], Subcategory: parts[1]}
	if len(parts) > 2 {
		seg.Leaf = parts[2]
	}
	return seg, true
}

// Classify sorts freq into categories using the default taxonomy.
func Classify(freq model.FrequencyMapping) model.CategoryMapping {
	return NewClassifier(DefaultTaxonomy()).Classify(freq)
}
