package model

// Category names one of the fixed report buckets a tag can be counted in.
type Category string

// The closed set of categories. Every recognized branch has an "all" bucket
// plus request, onboarding and feature sub-buckets.
const (
	CategoryReview           Category = "review"
	CategoryReviewRequest    Category = "review_request"
	CategoryReviewOnboarding Category = "review_onboarding"
	CategoryReviewFeature    Category = "review_feature"

	CategoryUpsell           Category = "upsell"
	CategoryUpsellRequest    Category = "upsell_request"
	CategoryUpsellOnboarding Category = "upsell_onboarding"
	CategoryUpsellFeature    Category = "upsell_feature"

	CategoryPush           Category = "push"
	CategoryPushRequest    Category = "push_request"
	CategoryPushOnboarding Category = "push_onboarding"
	CategoryPushFeature    Category = "push_feature"

	CategoryOther Category = "other"
)

var categoryTitles = map[Category]string{
	CategoryReview:           "리뷰 상담태그",
	CategoryReviewRequest:    "리뷰 요청사항 상담태그",
	CategoryReviewOnboarding: "리뷰 도입문의 상담태그",
	CategoryReviewFeature:    "리뷰 기능문의 상담태그",
	CategoryUpsell:           "업셀 상담태그",
	CategoryUpsellRequest:    "업셀 요청사항 상담태그",
	CategoryUpsellOnboarding: "업셀 도입문의 상담태그",
	CategoryUpsellFeature:    "업셀 기능문의 상담태그",
	CategoryPush:             "푸시 상담태그",
	CategoryPushRequest:      "푸시 요청사항 상담태그",
	CategoryPushOnboarding:   "푸시 도입문의 상담태그",
	CategoryPushFeature:      "푸시 기능문의 상담태그",
	CategoryOther:            "기타",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryReview, CategoryReviewRequest, CategoryReviewOnboarding, CategoryReviewFeature,
		CategoryUpsell, CategoryUpsellRequest, CategoryUpsellOnboarding, CategoryUpsellFeature,
		CategoryPush, CategoryPushRequest, CategoryPushOnboarding, CategoryPushFeature,
		CategoryOther,
	}
}

// Title returns the Korean display title used in reports and sheets.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// Branch returns the branch key a category belongs to ("review", "upsell",
// "push" or "other").
func (c Category) Branch() BranchKey {
	switch c {
	case CategoryReview, CategoryReviewRequest, CategoryReviewOnboarding, CategoryReviewFeature:
		return BranchReview
	case CategoryUpsell, CategoryUpsellRequest, CategoryUpsellOnboarding, CategoryUpsellFeature:
		return BranchUpsell
	case CategoryPush, CategoryPushRequest, CategoryPushOnboarding, CategoryPushFeature:
		return BranchPush
	default:
		return BranchOther
	}
}

// IsBranchAll reports whether the category is a branch's superset bucket.
func (c Category) IsBranchAll() bool {
	return c == CategoryReview || c == CategoryUpsell || c == CategoryPush
}

// FrequencyMapping maps a tag to the number of times it was counted.
// Tags with zero occurrences are absent.
type FrequencyMapping map[string]int

// Total returns the sum of all counts.
func (f FrequencyMapping) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// CategoryMapping maps every category to the tags counted in it.
type CategoryMapping map[Category]FrequencyMapping

// NewCategoryMapping returns a fresh mapping with an empty bucket for every
// category. Each call allocates new buckets.
func NewCategoryMapping() CategoryMapping {
	cats := Categories()
	m := make(CategoryMapping, len(cats))
	for _, c := range cats {
		m[c] = FrequencyMapping{}
	}
	return m
}
