package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"finbook/internal/core"
	"finbook/internal/report"
	"finbook/internal/restapi"
)

// ErrBudgetMonthExists is returned when a budget already covers the month a
// new budget targets. The store has no uniqueness constraint, so this guard
// is the only enforcement.
var ErrBudgetMonthExists = errors.New("a budget already exists for this month")

// BudgetService handles budget CRUD and month matching. Creation is
// serialized through a single writer per process: the store cannot reject
// duplicates, so the check-then-create sequence must not interleave.
type BudgetService struct {
	api *restapi.Client

	createMu sync.Mutex
}

func NewBudgetService(api *restapi.Client) *BudgetService {
	return &BudgetService{api: api}
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]core.Budget, error) {
	var budgets []core.Budget
	if err := s.api.Get(ctx, restapi.Budgets, restapi.UserQuery(userID), &budgets); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// ForMonth resolves the budget representing the given month, if any.
func (s *BudgetService) ForMonth(ctx context.Context, userID string, year int, month time.Month) (core.Budget, bool, error) {
	budgets, err := s.List(ctx, userID)
	if err != nil {
		return core.Budget{}, false, err
	}
	b, ok := report.MatchBudget(budgets, year, month)
	return b, ok, nil
}

// Create validates, re-queries the budget list, and rejects the new budget if
// its start month is already covered. The re-query runs under the creation
// lock so two local callers cannot both pass the check.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.List(ctx, b.UserID)
	if err != nil {
		return core.Budget{}, err
	}
	if _, ok := report.MatchBudget(existing, b.StartDate.Year(), b.StartDate.Month()); ok {
		return core.Budget{}, ErrBudgetMonthExists
	}
	// A budget straddling a month boundary claims its end month too.
	if !b.EndDate.InMonth(b.StartDate.Year(), b.StartDate.Month()) {
		if _, ok := report.MatchBudget(existing, b.EndDate.Year(), b.EndDate.Month()); ok {
			return core.Budget{}, ErrBudgetMonthExists
		}
	}

	var created core.Budget
	if err := s.api.Post(ctx, restapi.Budgets, b, &created); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	slog.InfoContext(ctx, "Budget created",
		"id", created.ID,
		"name", created.Name,
		"start", created.StartDate.Format("2006-01-02"))
	return created, nil
}

func (s *BudgetService) Update(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	var updated core.Budget
	if err := s.api.Patch(ctx, restapi.Budgets+"/"+b.ID, b, &updated); err != nil {
		return core.Budget{}, fmt.Errorf("update budget %s: %w", b.ID, err)
	}
	return updated, nil
}

// Categories lists the allocation rows belonging to a budget.
func (s *BudgetService) Categories(ctx context.Context, budgetID string) ([]core.BudgetCategory, error) {
	q := url.Values{}
	q.Set("budgetId", budgetID)
	var cats []core.BudgetCategory
	if err := s.api.Get(ctx, restapi.BudgetCategories, q, &cats); err != nil {
		return nil, fmt.Errorf("list budget categories: %w", err)
	}
	return cats, nil
}

// AddCategory creates an allocation row under a budget.
func (s *BudgetService) AddCategory(ctx context.Context, bc core.BudgetCategory) (core.BudgetCategory, error) {
	if bc.BudgetID == "" {
		return core.BudgetCategory{}, core.ErrEmptyName
	}
	if bc.ID == "" {
		bc.ID = uuid.NewString()
	}
	var created core.BudgetCategory
	if err := s.api.Post(ctx, restapi.BudgetCategories, bc, &created); err != nil {
		return core.BudgetCategory{}, fmt.Errorf("create budget category: %w", err)
	}
	return created, nil
}

// Delete removes a budget and then its allocation rows. The two steps are
// separate store calls with no transaction; a failure between them leaves
// orphaned rows that the next Categories call simply never matches.
func (s *BudgetService) Delete(ctx context.Context, budgetID string) error {
	cats, err := s.Categories(ctx, budgetID)
	if err != nil {
		return err
	}
	if err := s.api.Delete(ctx, restapi.Budgets+"/"+budgetID); err != nil {
		return fmt.Errorf("delete budget %s: %w", budgetID, err)
	}
	for _, bc := range cats {
		if err := s.api.Delete(ctx, restapi.BudgetCategories+"/"+bc.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to delete budget category",
				"budget_id", budgetID, "category_id", bc.ID, "error", err)
		}
	}
	slog.InfoContext(ctx, "Budget deleted", "id", budgetID, "categories", len(cats))
	return nil
}
