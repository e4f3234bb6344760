package report

import (
	"github.com/shopspring/decimal"

	"finbook/internal/core"
)

// ContributionResult reports before/after state for progress animation.
type ContributionResult struct {
	OldSaved decimal.Decimal `json:"oldSaved"`
	NewSaved decimal.Decimal `json:"newSaved"`
	Target   decimal.Decimal `json:"target"`
}

// ApplyContribution adds amount to the goal's saved total. The stored value
// is never clamped and may exceed the target; only the displayed progress is
// capped. Returns the updated goal and the before/after figures.
func ApplyContribution(g core.SavingsGoal, amount decimal.Decimal) (core.SavingsGoal, ContributionResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return g, ContributionResult{}, core.ErrInvalidAmount
	}
	result := ContributionResult{
		OldSaved: g.Saved,
		NewSaved: g.Saved.Add(amount),
		Target:   g.Target,
	}
	g.Saved = result.NewSaved
	return g, result, nil
}

// GoalProgress returns saved/target*100 with one decimal, capped at 100 for
// display. A non-positive target yields 0.
func GoalProgress(saved, target decimal.Decimal) float64 {
	pct := core.Percent(saved, target)
	if pct > 100 {
		return 100
	}
	return pct
}
