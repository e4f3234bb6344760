// Package report is the aggregation engine: pure functions over in-memory
// snapshots of transactions, categories, and budgets. Nothing here performs
// I/O, and malformed input degrades to zeros instead of raising errors.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"finbook/internal/core"
)

// DefaultTrailingMonths is the dashboard's monthly series window.
const DefaultTrailingMonths = 6

// MonthSummary is one row of the trailing monthly series.
type MonthSummary struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
	// SavingsRate is (income-expenses)/income as a percentage with one
	// decimal, 0 when the month had no income.
	SavingsRate float64 `json:"savingsRate"`
}

// MonthlySeries aggregates transactions into a trailing window of n calendar
// months ending at now's month, oldest first. Months without transactions
// produce all-zero rows; negative savings are preserved, never clamped.
func MonthlySeries(txs []core.Transaction, now time.Time, n int) []MonthSummary {
	if n <= 0 {
		n = DefaultTrailingMonths
	}
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	series := make([]MonthSummary, 0, n)
	for i := n - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		row := MonthSummary{
			Year:     m.Year(),
			Month:    m.Month(),
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
		for _, tx := range txs {
			if !tx.Date.InMonth(m.Year(), m.Month()) {
				continue
			}
			switch tx.Type {
			case core.Income:
				row.Income = row.Income.Add(tx.Amount)
			case core.Expense:
				row.Expenses = row.Expenses.Add(tx.Amount)
			}
		}
		row.Savings = row.Income.Sub(row.Expenses)
		row.SavingsRate = core.Percent(row.Savings, row.Income)
		series = append(series, row)
	}
	return series
}
