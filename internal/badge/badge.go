// Package badge computes tiered badge counts from user activity counters.
// Counts are derived on every profile view and never persisted.
package badge

// Tier is a badge level.
type Tier string

const (
	Bronze Tier = "BRONZE"
	Silver Tier = "SILVER"
	Gold   Tier = "GOLD"
)

// CriterionType identifies an activity counter a badge can be earned on.
type CriterionType string

const (
	QuestionCount   CriterionType = "QUESTION_COUNT"
	AnswerCount     CriterionType = "ANSWER_COUNT"
	QuestionUpvotes CriterionType = "QUESTION_UPVOTES"
	AnswerUpvotes   CriterionType = "ANSWER_UPVOTES"
	TotalViews      CriterionType = "TOTAL_VIEWS"
)

// Criteria maps each criterion to its ascending per-tier thresholds.
// A counter meeting a threshold earns one badge of that tier, so a user
// can hold several golds from different criteria.
var Criteria = map[CriterionType]map[Tier]int64{
	QuestionCount:   {Bronze: 10, Silver: 50, Gold: 100},
	AnswerCount:     {Bronze: 10, Silver: 50, Gold: 100},
	QuestionUpvotes: {Bronze: 10, Silver: 50, Gold: 100},
	AnswerUpvotes:   {Bronze: 10, Silver: 50, Gold: 100},
	TotalViews:      {Bronze: 1000, Silver: 10000, Gold: 100000},
}

// CriterionCount pairs a criterion with the user's current counter value.
type CriterionCount struct {
	Type  CriterionType `json:"type"`
	Count int64         `json:"count"`
}

// Counts is the number of badges held at each tier.
type Counts struct {
	Bronze int `json:"bronze"`
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

// Assign maps activity counters to badge counts per tier. Unknown
// criterion types are ignored.
func Assign(criteria []CriterionCount) Counts {
	var counts Counts
	for _, c := range criteria {
		thresholds, ok := Criteria[c.Type]
		if !ok {
			continue
		}
		if c.Count >= thresholds[Bronze] {
			counts.Bronze++
		}
		if c.Count >= thresholds[Silver] {
			counts.Silver++
		}
		if c.Count >= thresholds[Gold] {
			counts.Gold++
		}
	}
	return counts
}
