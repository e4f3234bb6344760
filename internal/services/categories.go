package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/internal/core"
	"finbook/internal/restapi"
)

// CategoryService owns category CRUD and the counter reconciliation that
// keeps transactions_count/totalAmount equal to the live transaction set.
type CategoryService struct {
	api *restapi.Client
}

func NewCategoryService(api *restapi.Client) *CategoryService {
	return &CategoryService{api: api}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]core.Category, error) {
	var cats []core.Category
	if err := s.api.Get(ctx, restapi.Categories, restapi.UserQuery(userID), &cats); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (core.Category, error) {
	var cat core.Category
	if err := s.api.Get(ctx, restapi.Categories+"/"+id, nil, &cat); err != nil {
		return core.Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return cat, nil
}

func (s *CategoryService) Create(ctx context.Context, cat core.Category) (core.Category, error) {
	if err := cat.Validate(); err != nil {
		return core.Category{}, err
	}
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	var created core.Category
	if err := s.api.Post(ctx, restapi.Categories, cat, &created); err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", "id", created.ID, "name", created.Name, "user_id", created.UserID)
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, cat core.Category) (core.Category, error) {
	if err := cat.Validate(); err != nil {
		return core.Category{}, err
	}
	var updated core.Category
	if err := s.api.Patch(ctx, restapi.Categories+"/"+cat.ID, cat, &updated); err != nil {
		return core.Category{}, fmt.Errorf("update category %s: %w", cat.ID, err)
	}
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, restapi.Categories+"/"+id); err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

// Reconcile recomputes the denormalized counters of one category from the
// user's full transaction set and patches the stored record. This is the
// single write path for counters; call it after every transaction mutation.
func (s *CategoryService) Reconcile(ctx context.Context, userID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	cat, err := s.Get(ctx, categoryID)
	if err != nil {
		return err
	}

	var txs []core.Transaction
	if err := s.api.Get(ctx, restapi.Transactions, restapi.UserQuery(userID), &txs); err != nil {
		return fmt.Errorf("list transactions for reconcile: %w", err)
	}

	count, total, lastUsed := RecomputeCounters(cat, txs)
	patch := struct {
		TransactionsCount int             `json:"transactions_count"`
		TotalAmount       decimal.Decimal `json:"totalAmount"`
		LastUsed          core.Date       `json:"lastUsed"`
	}{count, total, lastUsed}

	if err := s.api.Patch(ctx, restapi.Categories+"/"+categoryID, patch, nil); err != nil {
		return fmt.Errorf("patch category counters %s: %w", categoryID, err)
	}
	slog.InfoContext(ctx, "Category counters reconciled",
		"category_id", categoryID,
		"count", count,
		"total", total.String())
	return nil
}

// RecomputeCounters derives count, total, and last-used from the transaction
// set. A transaction references the category by id or, for legacy records, by
// normalized display name.
func RecomputeCounters(cat core.Category, txs []core.Transaction) (int, decimal.Decimal, core.Date) {
	count := 0
	total := decimal.Zero
	var lastUsed core.Date
	for _, tx := range txs {
		if !referencesCategory(cat, tx.Category) {
			continue
		}
		count++
		total = total.Add(tx.Amount)
		if lastUsed.IsZero() || tx.Date.After(lastUsed.Time) {
			lastUsed = tx.Date
		}
	}
	return count, total, lastUsed
}

func referencesCategory(cat core.Category, ref string) bool {
	if cat.ID != "" && cat.ID == ref {
		return true
	}
	return strings.EqualFold(cat.Name, core.NormalizeName(ref))
}
