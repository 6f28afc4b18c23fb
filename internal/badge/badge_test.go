package badge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignNoActivity(t *testing.T) {
	counts := Assign([]CriterionCount{
		{Type: QuestionCount, Count: 0},
		{Type: AnswerCount, Count: 0},
		{Type: TotalViews, Count: 0},
	})
	require.Equal(t, Counts{}, counts)
}

func TestAssignBelowThreshold(t *testing.T) {
	counts := Assign([]CriterionCount{
		{Type: QuestionCount, Count: 9},
		{Type: TotalViews, Count: 999},
	})
	require.Equal(t, Counts{}, counts)
}

func TestAssignHigherTiersImplyLower(t *testing.T) {
	// A counter past gold earns one badge at every tier.
	counts := Assign([]CriterionCount{
		{Type: AnswerUpvotes, Count: 150},
	})
	require.Equal(t, Counts{Bronze: 1, Silver: 1, Gold: 1}, counts)
}

func TestAssignMultipleCriteria(t *testing.T) {
	counts := Assign([]CriterionCount{
		{Type: QuestionCount, Count: 12},
		{Type: AnswerCount, Count: 55},
		{Type: QuestionUpvotes, Count: 120},
		{Type: AnswerUpvotes, Count: 5},
		{Type: TotalViews, Count: 100000},
	})
	require.Equal(t, Counts{Bronze: 4, Silver: 3, Gold: 2}, counts)
}

func TestAssignExactThresholds(t *testing.T) {
	counts := Assign([]CriterionCount{
		{Type: QuestionCount, Count: 10},
		{Type: AnswerCount, Count: 50},
		{Type: TotalViews, Count: 100000},
	})
	require.Equal(t, Counts{Bronze: 3, Silver: 2, Gold: 1}, counts)
}

func TestAssignUnknownCriterionIgnored(t *testing.T) {
	counts := Assign([]CriterionCount{
		{Type: CriterionType("BOGUS"), Count: 1000000},
	})
	require.Equal(t, Counts{}, counts)
}
