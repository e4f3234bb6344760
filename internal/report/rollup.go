package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finbook/internal/core"
)

const (
	// RollupTrailingMonths is the window for category and income rollups.
	RollupTrailingMonths = 3
	// TopExpenseCount is how many expense buckets dashboard widgets show.
	TopExpenseCount = 5
)

// RollupEntry is one aggregation bucket, keyed by resolved category name.
type RollupEntry struct {
	Name   string          `json:"name"`
	Color  string          `json:"color,omitempty"`
	Icon   string          `json:"icon,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
	// Share is this bucket's percentage of the rollup total, one decimal.
	Share float64 `json:"share"`
}

// CategoryRollup aggregates expense transactions from the trailing
// three-month window ending at now by resolved category name. Two category
// ids sharing a display name merge into one bucket. Shares are computed only
// after all amounts are summed so rounding does not depend on input order.
func CategoryRollup(txs []core.Transaction, cats []core.Category, now time.Time) []RollupEntry {
	return rollup(txs, cats, now, core.Expense)
}

// IncomeRollup aggregates income transactions by source over the same
// trailing window, using the same name resolution as expenses.
func IncomeRollup(txs []core.Transaction, cats []core.Category, now time.Time) []RollupEntry {
	return rollup(txs, cats, now, core.Income)
}

func rollup(txs []core.Transaction, cats []core.Category, now time.Time, kind core.TxType) []RollupEntry {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(RollupTrailingMonths - 1), 0)
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0)

	buckets := make(map[string]*RollupEntry)
	var order []string
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type != kind || tx.Date.IsZero() {
			continue
		}
		if tx.Date.Before(from) || !tx.Date.Before(to) {
			continue
		}
		res := core.ResolveCategory(cats, tx.Category)
		name := res.Category.Name
		b, ok := buckets[name]
		if !ok {
			b = &RollupEntry{
				Name:   name,
				Color:  res.Category.Color,
				Icon:   res.Category.Icon,
				Amount: decimal.Zero,
			}
			buckets[name] = b
			order = append(order, name)
		}
		b.Amount = b.Amount.Add(tx.Amount)
		b.Count++
		total = total.Add(tx.Amount)
	}

	entries := make([]RollupEntry, 0, len(order))
	for _, name := range order {
		e := *buckets[name]
		e.Share = core.Percent(e.Amount, total)
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})
	return entries
}

// TopN returns the first n entries of a sorted rollup. The remainder is not
// folded into an "other" bucket; widgets show the total separately.
func TopN(entries []RollupEntry, n int) []RollupEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// RollupTotal sums all bucket amounts. For any transaction set the total
// equals the sum of the matching raw transactions.
func RollupTotal(entries []RollupEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
