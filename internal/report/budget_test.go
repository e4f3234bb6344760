package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finbook/internal/core"
)

func TestMatchBudgetByStartOrEndMonth(t *testing.T) {
	budgets := []core.Budget{
		{
			ID:        "b-apr",
			Name:      "April 2024",
			StartDate: core.NewDate(2024, time.April, 1),
			EndDate:   core.NewDate(2024, time.April, 30),
		},
		{
			ID:        "b-straddle",
			Name:      "Mid May to Mid June",
			StartDate: core.NewDate(2024, time.May, 15),
			EndDate:   core.NewDate(2024, time.June, 14),
		},
	}

	cases := []struct {
		name  string
		year  int
		month time.Month
		want  string
		found bool
	}{
		{"start month", 2024, time.April, "b-apr", true},
		{"straddling budget by start", 2024, time.May, "b-straddle", true},
		{"straddling budget by end", 2024, time.June, "b-straddle", true},
		{"no match", 2024, time.August, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := MatchBudget(budgets, tc.year, tc.month)
			if ok != tc.found {
				t.Fatalf("found = %v, want %v", ok, tc.found)
			}
			if b.ID != tc.want {
				t.Fatalf("id = %q, want %q", b.ID, tc.want)
			}
		})
	}
}

func TestMatchBudgetFirstWins(t *testing.T) {
	budgets := []core.Budget{
		{ID: "first", StartDate: core.NewDate(2024, time.April, 1), EndDate: core.NewDate(2024, time.April, 30)},
		{ID: "second", StartDate: core.NewDate(2024, time.April, 1), EndDate: core.NewDate(2024, time.April, 30)},
	}

	b, ok := MatchBudget(budgets, 2024, time.April)
	if !ok || b.ID != "first" {
		t.Fatalf("got %q, want first budget in list order", b.ID)
	}
}

func TestMatchBudgetIdempotent(t *testing.T) {
	budgets := []core.Budget{
		{ID: "b1", StartDate: core.NewDate(2024, time.April, 1), EndDate: core.NewDate(2024, time.April, 30)},
	}

	a, _ := MatchBudget(budgets, 2024, time.April)
	b, _ := MatchBudget(budgets, 2024, time.April)
	if a.ID != b.ID {
		t.Fatalf("repeated matching differed: %q vs %q", a.ID, b.ID)
	}
}

func TestSpendByCategory(t *testing.T) {
	cats := []core.BudgetCategory{
		{ID: "bc-1", CategoryID: "cat-food", Name: "Food", Budget: decimal.NewFromInt(400)},
		{ID: "bc-2", CategoryID: "cat-fun", Name: "Entertainment", Budget: decimal.NewFromInt(100)},
		{ID: "bc-3", CategoryID: "cat-rent", Name: "Rent", Budget: decimal.NewFromInt(1000)},
	}
	txs := []core.Transaction{
		expenseIn("cat-food", "380", 2024, time.April, 5),
		expenseIn("cat-fun", "80", 2024, time.April, 10),
		expenseIn("cat-rent", "500", 2024, time.April, 1),
		// legacy name reference counts toward the Food line
		expenseIn("food", "10", 2024, time.April, 20),
		// wrong month
		expenseIn("cat-food", "999", 2024, time.March, 5),
		// income never counts as spend
		{Type: core.Income, Category: "cat-food", Amount: decimal.NewFromInt(50), Date: core.NewDate(2024, time.April, 3)},
	}

	spends := SpendByCategory(cats, txs, 2024, time.April)
	if len(spends) != 3 {
		t.Fatalf("len = %d, want 3", len(spends))
	}

	food := spends[0]
	if !food.Spent.Equal(decimal.NewFromInt(390)) {
		t.Errorf("food spent = %s, want 390", food.Spent)
	}
	if food.Percent != 97.5 {
		t.Errorf("food percent = %v, want 97.5", food.Percent)
	}
	if food.Status != StatusDanger {
		t.Errorf("food status = %q, want danger", food.Status)
	}

	fun := spends[1]
	if fun.Percent != 80 {
		t.Errorf("fun percent = %v, want 80", fun.Percent)
	}
	if fun.Status != StatusWarning {
		t.Errorf("fun status = %q, want warning", fun.Status)
	}

	rent := spends[2]
	if rent.Percent != 50 {
		t.Errorf("rent percent = %v, want 50", rent.Percent)
	}
	if rent.Status != StatusGood {
		t.Errorf("rent status = %q, want good", rent.Status)
	}
}

func TestSpendByCategoryZeroAllocation(t *testing.T) {
	cats := []core.BudgetCategory{{ID: "bc", CategoryID: "cat-x", Name: "X"}}
	txs := []core.Transaction{expenseIn("cat-x", "50", 2024, time.April, 1)}

	spends := SpendByCategory(cats, txs, 2024, time.April)
	if spends[0].Percent != 0 {
		t.Fatalf("percent with zero allocation = %v, want 0", spends[0].Percent)
	}
	if spends[0].Status != StatusGood {
		t.Fatalf("status = %q, want good", spends[0].Status)
	}
}

func TestStatusBands(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, StatusGood},
		{74.9, StatusGood},
		{75, StatusWarning},
		{89.9, StatusWarning},
		{90, StatusDanger},
		{150, StatusDanger},
	}
	for _, tc := range cases {
		if got := statusFor(tc.pct); got != tc.want {
			t.Errorf("statusFor(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}
