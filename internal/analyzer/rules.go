package analyzer

import (
	"strings"

	"github.com/saladlab/consult-tags/internal/model"
)

// Rule places a tag of a recognized branch into Bucket when Match holds.
// Rules are evaluated independently, so one tag may land in several buckets.
type Rule struct {
	Match  func(Segments) bool
	Name   string
	Bucket model.Bucket
}

// DefaultRules returns the inclusive bucket rules for the given markers:
//   - every tag goes to the branch's "all" bucket
//   - request when the subcategory contains the request marker
//   - onboarding when the subcategory contains the onboarding marker
//   - feature when the subcategory or the leaf equals the feature marker
func DefaultRules(m Markers) []Rule {
	return []Rule{
		{
			Name:   "all",
			Bucket: model.BucketAll,
			Match:  func(Segments) bool { return true },
		},
		{
			Name:   "request",
			Bucket: model.BucketRequest,
			Match: func(s Segments) bool {
				return strings.Contains(s.Subcategory, m.Request)
			},
		},
		{
			Name:   "onboarding",
			Bucket: model.BucketOnboarding,
			Match: func(s Segments) bool {
				return strings.Contains(s.Subcategory, m.Onboarding)
			},
		},
		{
			Name:   "feature",
			Bucket: model.BucketFeature,
			Match: func(s Segments) bool {
				return s.Subcategory == m.Feature || s.Leaf == m.Feature
			},
		},
	}
}
