package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"finbook/internal/core"
	"finbook/internal/restapi"
)

// TransactionService handles transaction CRUD. Every mutation reconciles the
// affected category counters and publishes a counter-sync event so the
// worker converges them even if the inline reconcile raced another writer.
type TransactionService struct {
	api        *restapi.Client
	categories *CategoryService
	events     EventPublisher
}

func NewTransactionService(api *restapi.Client, categories *CategoryService, events EventPublisher) *TransactionService {
	return &TransactionService{api: api, categories: categories, events: events}
}

func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := s.api.Get(ctx, restapi.Transactions, restapi.UserQuery(userID), &txs); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	var tx core.Transaction
	if err := s.api.Get(ctx, restapi.Transactions+"/"+id, nil, &tx); err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return tx, nil
}

func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	var created core.Transaction
	if err := s.api.Post(ctx, restapi.Transactions, tx, &created); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction created",
		"id", created.ID,
		"title", created.Title,
		"amount", created.Amount.String(),
		"type", string(created.Type))

	s.syncCounters(ctx, created.UserID, created.Category)
	return created, nil
}

// Update patches a transaction. When the category or amount changed, both the
// old and the new category need their counters reconciled.
func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	prev, err := s.Get(ctx, tx.ID)
	if err != nil {
		return core.Transaction{}, err
	}

	var updated core.Transaction
	if err := s.api.Patch(ctx, restapi.Transactions+"/"+tx.ID, tx, &updated); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}

	s.syncCounters(ctx, updated.UserID, updated.Category)
	if prev.Category != updated.Category {
		s.syncCounters(ctx, updated.UserID, prev.Category)
	}
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	// Fetch first: the category reference is needed for reconciliation.
	tx, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.api.Delete(ctx, restapi.Transactions+"/"+id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)

	s.syncCounters(ctx, tx.UserID, tx.Category)
	return nil
}

// syncCounters reconciles inline and publishes the sync event. Neither
// failure aborts the caller: the transaction write already succeeded and the
// worker retries convergence.
func (s *TransactionService) syncCounters(ctx context.Context, userID, categoryRef string) {
	categoryID := s.resolveCategoryID(ctx, userID, categoryRef)
	if categoryID == "" {
		return
	}
	if err := s.categories.Reconcile(ctx, userID, categoryID); err != nil {
		slog.ErrorContext(ctx, "Inline counter reconcile failed",
			"category_id", categoryID, "error", err)
	}
	if s.events == nil {
		return
	}
	if err := s.events.PublishCounterSync(ctx, userID, categoryID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish counter sync",
			"category_id", categoryID, "error", err)
	}
}

// resolveCategoryID maps a transaction's category reference (id or legacy
// name) to a stored category id. Orphaned references have no counters to
// reconcile and resolve to empty.
func (s *TransactionService) resolveCategoryID(ctx context.Context, userID, ref string) string {
	if ref == "" {
		return ""
	}
	cats, err := s.categories.List(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Could not list categories for counter sync", "error", err)
		return ""
	}
	res := core.ResolveCategory(cats, ref)
	if res.Kind == core.ResolvedDefault {
		return ""
	}
	return res.Category.ID
}
