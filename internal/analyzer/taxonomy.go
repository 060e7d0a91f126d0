package analyzer

import "github.com/saladlab/consult-tags/internal/model"

// PathDelimiter separates the segments of a hierarchical tag.
const PathDelimiter = "/"

// Markers holds the sub-category texts that select sub-buckets.
type Markers struct {
	Request    string
	Onboarding string
	Feature    string
}

// Taxonomy describes how tag paths map onto branches and buckets.
type Taxonomy struct {
	Delimiter string
	Branches  []model.Branch
	Markers   Markers
}

// DefaultTaxonomy returns the consultation taxonomy used by all reports.
// It returns a new value on every call.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Delimiter: PathDelimiter,
		Branches:  model.Branches(),
		Markers: Markers{
			Request:    "요청사항",
			Onboarding: "도입문의",
			Feature:    "기능문의",
		},
	}
}

// Segments is a tag split into its first three path levels.
type Segments struct {
	Branch      string
	Subcategory string
	Leaf        string
}
