package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finbook/internal/core"
)

func expenseIn(cat, amount string, year int, month time.Month, day int) core.Transaction {
	return core.Transaction{
		Type:     core.Expense,
		Category: cat,
		Amount:   decimal.RequireFromString(amount),
		Date:     core.NewDate(year, month, day),
	}
}

func TestCategoryRollupSumsByResolvedName(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cats := []core.Category{
		{ID: "cat-food", Name: "Food", Color: "#ef4444", Icon: "utensils"},
	}
	txs := []core.Transaction{
		expenseIn("cat-food", "100", 2024, time.March, 1),
		expenseIn("cat-food", "50", 2024, time.February, 10),
		// a legacy reference by name lands in the same bucket
		expenseIn("food", "25", 2024, time.January, 5),
		// outside the three-month window
		expenseIn("cat-food", "999", 2023, time.December, 31),
		// income does not count toward expense rollups
		{Type: core.Income, Category: "cat-food", Amount: decimal.NewFromInt(500), Date: core.NewDate(2024, time.March, 1)},
	}

	entries := CategoryRollup(txs, cats, now)
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	food := entries[0]
	if food.Name != "Food" {
		t.Fatalf("name = %q, want Food", food.Name)
	}
	if !food.Amount.Equal(decimal.RequireFromString("175")) {
		t.Errorf("amount = %s, want 175", food.Amount)
	}
	if food.Count != 3 {
		t.Errorf("count = %d, want 3", food.Count)
	}
	if food.Share != 100 {
		t.Errorf("share = %v, want 100", food.Share)
	}
}

func TestCategoryRollupMergesDuplicateNames(t *testing.T) {
	// Two category ids with the same display name become one bucket.
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cats := []core.Category{
		{ID: "cat-1", Name: "Food"},
		{ID: "cat-2", Name: "Food"},
	}
	txs := []core.Transaction{
		expenseIn("cat-1", "100", 2024, time.March, 1),
		expenseIn("cat-2", "50", 2024, time.March, 2),
	}

	entries := CategoryRollup(txs, cats, now)
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1 merged bucket", len(entries))
	}
	if !entries[0].Amount.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("amount = %s, want 150", entries[0].Amount)
	}
}

func TestCategoryRollupSortedDescending(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cats := []core.Category{
		{ID: "a", Name: "Rent"},
		{ID: "b", Name: "Food"},
		{ID: "c", Name: "Transport"},
	}
	txs := []core.Transaction{
		expenseIn("b", "100", 2024, time.March, 1),
		expenseIn("a", "900", 2024, time.March, 1),
		expenseIn("c", "300", 2024, time.March, 1),
	}

	entries := CategoryRollup(txs, cats, now)
	want := []string{"Rent", "Transport", "Food"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("position %d = %q, want %q", i, entries[i].Name, name)
		}
	}
}

func TestRollupConservation(t *testing.T) {
	// The sum over buckets equals the sum of raw in-window transactions,
	// whatever the category references look like.
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cats := []core.Category{{ID: "cat-1", Name: "Food"}}
	txs := []core.Transaction{
		expenseIn("cat-1", "10.50", 2024, time.March, 1),
		expenseIn("unknown-ref", "20.25", 2024, time.February, 1),
		expenseIn("another-one", "5", 2024, time.January, 20),
		expenseIn("cat-1", "7.75", 2024, time.March, 9),
	}

	entries := CategoryRollup(txs, cats, now)
	total := RollupTotal(entries)
	if !total.Equal(decimal.RequireFromString("43.50")) {
		t.Fatalf("total = %s, want 43.50", total)
	}

	var count int
	for _, e := range entries {
		count += e.Count
	}
	if count != len(txs) {
		t.Fatalf("bucket count sum = %d, want %d", count, len(txs))
	}
}

func TestCategoryRollupSynthesizesUnknown(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{expenseIn("xyz-123", "40", 2024, time.March, 1)}

	entries := CategoryRollup(txs, nil, now)
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	if entries[0].Name != "Xyz 123" {
		t.Errorf("name = %q, want %q", entries[0].Name, "Xyz 123")
	}
	if entries[0].Color != core.DefaultColor {
		t.Errorf("color = %q, want %q", entries[0].Color, core.DefaultColor)
	}
}

func TestIncomeRollup(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	cats := []core.Category{{ID: "cat-salary", Name: "Salary", Type: core.Income}}
	txs := []core.Transaction{
		{Type: core.Income, Category: "cat-salary", Amount: decimal.NewFromInt(3000), Date: core.NewDate(2024, time.March, 1)},
		{Type: core.Income, Category: "freelance", Amount: decimal.NewFromInt(500), Date: core.NewDate(2024, time.February, 15)},
		expenseIn("cat-salary", "100", 2024, time.March, 1),
	}

	entries := IncomeRollup(txs, cats, now)
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].Name != "Salary" {
		t.Fatalf("top source = %q, want Salary", entries[0].Name)
	}
	if !RollupTotal(entries).Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("total = %s, want 3500", RollupTotal(entries))
	}
}

func TestTopN(t *testing.T) {
	entries := make([]RollupEntry, 8)
	for i := range entries {
		entries[i].Amount = decimal.NewFromInt(int64(100 - i))
	}

	if got := TopN(entries, TopExpenseCount); len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if got := TopN(entries[:3], TopExpenseCount); len(got) != 3 {
		t.Fatalf("len = %d, want 3 when fewer buckets than n", len(got))
	}
	if got := TopN(entries, 0); len(got) != 8 {
		t.Fatalf("n<=0 must return everything, got %d", len(got))
	}
}
