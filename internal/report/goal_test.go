package report

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"finbook/internal/core"
)

func TestApplyContribution(t *testing.T) {
	goal := core.SavingsGoal{
		ID:     "g1",
		Name:   "Emergency Fund",
		Target: decimal.NewFromInt(1000),
		Saved:  decimal.NewFromInt(400),
	}

	updated, result, err := ApplyContribution(goal, decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Saved.Equal(decimal.NewFromInt(600)) {
		t.Errorf("saved = %s, want 600", updated.Saved)
	}
	if !result.OldSaved.Equal(decimal.NewFromInt(400)) {
		t.Errorf("old saved = %s, want 400", result.OldSaved)
	}
	if !result.NewSaved.Equal(decimal.NewFromInt(600)) {
		t.Errorf("new saved = %s, want 600", result.NewSaved)
	}
	if got := GoalProgress(updated.Saved, updated.Target); got != 60 {
		t.Errorf("progress = %v, want 60", got)
	}
}

func TestApplyContributionRejectsNonPositive(t *testing.T) {
	goal := core.SavingsGoal{Target: decimal.NewFromInt(1000), Saved: decimal.NewFromInt(400)}

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		updated, _, err := ApplyContribution(goal, amount)
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("amount %s: err = %v, want ErrInvalidAmount", amount, err)
		}
		if !updated.Saved.Equal(goal.Saved) {
			t.Fatalf("amount %s: saved changed to %s", amount, updated.Saved)
		}
	}
}

func TestApplyContributionCanExceedTarget(t *testing.T) {
	goal := core.SavingsGoal{Target: decimal.NewFromInt(1000), Saved: decimal.NewFromInt(950)}

	updated, _, err := ApplyContribution(goal, decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// stored value keeps the overshoot
	if !updated.Saved.Equal(decimal.NewFromInt(1150)) {
		t.Errorf("saved = %s, want 1150", updated.Saved)
	}
	// displayed progress is capped
	if got := GoalProgress(updated.Saved, updated.Target); got != 100 {
		t.Errorf("progress = %v, want 100", got)
	}
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		saved, target string
		want          float64
	}{
		{"0", "1000", 0},
		{"333", "1000", 33.3},
		{"1000", "1000", 100},
		{"1500", "1000", 100},
		{"100", "0", 0},
	}
	for _, tc := range cases {
		got := GoalProgress(decimal.RequireFromString(tc.saved), decimal.RequireFromString(tc.target))
		if got != tc.want {
			t.Errorf("GoalProgress(%s, %s) = %v, want %v", tc.saved, tc.target, got, tc.want)
		}
	}
}
