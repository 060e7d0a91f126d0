package model

// MembershipKey names a branch or a combination of branches for distinct
// entity counting.
type MembershipKey string

// Membership keys: three singles, three pairs and the triple.
const (
	MembershipReview           MembershipKey = "review"
	MembershipUpsell           MembershipKey = "upsell"
	MembershipPush             MembershipKey = "push"
	MembershipReviewUpsell     MembershipKey = "review_upsell"
	MembershipUpsellPush       MembershipKey = "upsell_push"
	MembershipPushReview       MembershipKey = "push_review"
	MembershipReviewUpsellPush MembershipKey = "review_upsell_push"
)

var membershipTitles = map[MembershipKey]string{
	MembershipReview:           "리뷰",
	MembershipUpsell:           "업셀",
	MembershipPush:             "푸시",
	MembershipReviewUpsell:     "리뷰+업셀",
	MembershipUpsellPush:       "업셀+푸시",
	MembershipPushReview:       "푸시+리뷰",
	MembershipReviewUpsellPush: "리뷰+업셀+푸시",
}

// MembershipKeys returns all keys in display order.
func MembershipKeys() []MembershipKey {
	return []MembershipKey{
		MembershipReview, MembershipUpsell, MembershipPush,
		MembershipReviewUpsell, MembershipUpsellPush, MembershipPushReview,
		MembershipReviewUpsellPush,
	}
}

// Title returns the Korean display title.
func (k MembershipKey) Title() string {
	if t, ok := membershipTitles[k]; ok {
		return t
	}
	return string(k)
}

// Members returns the branches that must all be present for the key.
func (k MembershipKey) Members() []BranchKey {
	switch k {
	case MembershipReview:
		return []BranchKey{BranchReview}
	case MembershipUpsell:
		return []BranchKey{BranchUpsell}
	case MembershipPush:
		return []BranchKey{BranchPush}
	case MembershipReviewUpsell:
		return []BranchKey{BranchReview, BranchUpsell}
	case MembershipUpsellPush:
		return []BranchKey{BranchUpsell, BranchPush}
	case MembershipPushReview:
		return []BranchKey{BranchPush, BranchReview}
	case MembershipReviewUpsellPush:
		return []BranchKey{BranchReview, BranchUpsell, BranchPush}
	default:
		return nil
	}
}

// MembershipCounts maps each key to a count of distinct entities.
type MembershipCounts map[MembershipKey]int
