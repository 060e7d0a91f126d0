package model

// BranchKey identifies a top-level taxonomy branch.
type BranchKey string

// Known branches.
const (
	BranchReview BranchKey = "review"
	BranchUpsell BranchKey = "upsell"
	BranchPush   BranchKey = "push"
	BranchOther  BranchKey = "other"
)

// Branch describes a product line as it appears in tag paths.
type Branch struct {
	Key     BranchKey
	Name    string   // display name and first path segment, e.g. "리뷰"
	Aliases []string // additional first segments accepted for this branch
}

// Branches returns the three product branches in display order.
func Branches() []Branch {
	return []Branch{
		{Key: BranchReview, Name: "리뷰", Aliases: []string{"리뷰목록"}},
		{Key: BranchUpsell, Name: "업셀"},
		{Key: BranchPush, Name: "푸시"},
	}
}

// Category returns the category for this branch and bucket.
func (k BranchKey) Category(b Bucket) Category {
	if k == BranchOther || k == "" {
		return CategoryOther
	}
	if b == BucketAll {
		return Category(k)
	}
	return Category(string(k) + "_" + string(b))
}

// Bucket is a subdivision within a branch.
type Bucket string

// Buckets within a branch.
const (
	BucketAll        Bucket = "all"
	BucketRequest    Bucket = "request"
	BucketOnboarding Bucket = "onboarding"
	BucketFeature    Bucket = "feature"
)
