package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbook/internal/core"
)

// Budget usage status bands.
const (
	StatusGood    = "good"
	StatusWarning = "warning"
	StatusDanger  = "danger"
)

// CategorySpend is a budget category with its recomputed actual spend.
type CategorySpend struct {
	Category core.BudgetCategory `json:"category"`
	Spent    decimal.Decimal     `json:"spent"`
	// Percent is spent/allocated*100 with one decimal; 0 when nothing is
	// allocated.
	Percent float64 `json:"percent"`
	Status  string  `json:"status"`
}

// MatchBudget resolves which budget represents the given calendar month: a
// budget matches when its start or end date falls in that month. When several
// match (a data anomaly the store does not prevent) the first in list order
// wins. Matching is a pure lookup and is idempotent for an unchanged list.
func MatchBudget(budgets []core.Budget, year int, month time.Month) (core.Budget, bool) {
	for _, b := range budgets {
		if b.StartDate.InMonth(year, month) || b.EndDate.InMonth(year, month) {
			return b, true
		}
	}
	return core.Budget{}, false
}

// SpendByCategory computes actual spend for each budget category from the
// transaction set, scoped to the given budget month. Spend is derived on
// every call and never persisted.
func SpendByCategory(cats []core.BudgetCategory, txs []core.Transaction, year int, month time.Month) []CategorySpend {
	out := make([]CategorySpend, 0, len(cats))
	for _, bc := range cats {
		spent := decimal.Zero
		for _, tx := range txs {
			if tx.Type != core.Expense || !tx.Date.InMonth(year, month) {
				continue
			}
			if !matchesBudgetCategory(bc, tx.Category) {
				continue
			}
			spent = spent.Add(tx.Amount)
		}
		pct := core.Percent(spent, bc.Budget)
		out = append(out, CategorySpend{
			Category: bc,
			Spent:    spent,
			Percent:  pct,
			Status:   statusFor(pct),
		})
	}
	return out
}

// matchesBudgetCategory accepts the category id or, for legacy transactions
// that stored a name, the normalized display name.
func matchesBudgetCategory(bc core.BudgetCategory, ref string) bool {
	if bc.CategoryID != "" && bc.CategoryID == ref {
		return true
	}
	return strings.EqualFold(bc.Name, core.NormalizeName(ref))
}

func statusFor(percent float64) string {
	switch {
	case percent >= 90:
		return StatusDanger
	case percent >= 75:
		return StatusWarning
	default:
		return StatusGood
	}
}
