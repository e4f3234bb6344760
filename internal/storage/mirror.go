// Package storage keeps a local SQLite mirror of each user's records so
// dashboards keep working when the data store is unreachable. The mirror is a
// cache of the last successful snapshot, never a write-ahead of the store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"finbook/internal/core"
	"finbook/internal/services"
)

type Mirror struct {
	db *sql.DB
}

func NewMirror(dbPath string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Mirror{db: db}, nil
}

func (m *Mirror) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// StoreSnapshot replaces the mirrored records for the snapshot's user. The
// whole replacement runs in one transaction so readers never see a half
// mirrored snapshot.
func (m *Mirror) StoreSnapshot(ctx context.Context, snap *services.Snapshot) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mirror tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "categories", "budgets", "goals"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", snap.UserID); err != nil {
			return fmt.Errorf("clear mirrored %s: %w", table, err)
		}
	}

	for _, t := range snap.Transactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, user_id, title, amount, type, category, tx_date, payment_method, status, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.UserID, t.Title, t.Amount.String(), string(t.Type), t.Category,
			dateString(t.Date), t.PaymentMethod, t.Status, t.Notes)
		if err != nil {
			return fmt.Errorf("mirror transaction %s: %w", t.ID, err)
		}
	}

	for _, c := range snap.Categories {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, user_id, name, type, subtype, color, icon, transactions_count, total_amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.UserID, c.Name, string(c.Type), string(c.Subtype), c.Color, c.Icon,
			c.TransactionsCount, c.TotalAmount.String())
		if err != nil {
			return fmt.Errorf("mirror category %s: %w", c.ID, err)
		}
	}

	for _, b := range snap.Budgets {
		recurring := 0
		if b.Recurring {
			recurring = 1
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (id, user_id, name, total_amount, start_date, end_date, description, recurring)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.UserID, b.Name, b.TotalAmount.String(),
			dateString(b.StartDate), dateString(b.EndDate), b.Description, recurring)
		if err != nil {
			return fmt.Errorf("mirror budget %s: %w", b.ID, err)
		}
	}

	for _, g := range snap.Goals {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO goals (id, user_id, name, target, saved, monthly, start_date, deadline)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.UserID, g.Name, g.Target.String(), g.Saved.String(), g.Monthly.String(),
			dateString(g.StartDate), dateString(g.Deadline))
		if err != nil {
			return fmt.Errorf("mirror goal %s: %w", g.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO mirror_state (user_id, fetched_at) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET fetched_at = excluded.fetched_at`,
		snap.UserID, snap.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record mirror state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mirror tx: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot mirrored",
		"user_id", snap.UserID,
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"budgets", len(snap.Budgets),
		"goals", len(snap.Goals))
	return nil
}

// LoadSnapshot reads the last mirrored snapshot for a user. Returns false
// when the user was never mirrored.
func (m *Mirror) LoadSnapshot(ctx context.Context, userID string) (*services.Snapshot, bool, error) {
	var fetchedAt string
	err := m.db.QueryRowContext(ctx,
		"SELECT fetched_at FROM mirror_state WHERE user_id = ?", userID).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read mirror state: %w", err)
	}

	snap := &services.Snapshot{UserID: userID}
	if t, err := time.Parse(time.RFC3339, fetchedAt); err == nil {
		snap.FetchedAt = t
	}

	if err := m.loadTransactions(ctx, snap); err != nil {
		return nil, false, err
	}
	if err := m.loadCategories(ctx, snap); err != nil {
		return nil, false, err
	}
	if err := m.loadBudgets(ctx, snap); err != nil {
		return nil, false, err
	}
	if err := m.loadGoals(ctx, snap); err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

func (m *Mirror) loadTransactions(ctx context.Context, snap *services.Snapshot) error {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, title, amount, type, category, tx_date, payment_method, status, notes
		 FROM transactions WHERE user_id = ?`, snap.UserID)
	if err != nil {
		return fmt.Errorf("load mirrored transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t core.Transaction
		var amount, txType, txDate string
		if err := rows.Scan(&t.ID, &t.Title, &amount, &txType, &t.Category,
			&txDate, &t.PaymentMethod, &t.Status, &t.Notes); err != nil {
			return fmt.Errorf("scan mirrored transaction: %w", err)
		}
		t.UserID = snap.UserID
		t.Amount = parseDecimal(amount)
		t.Type = core.TxType(txType)
		t.Date = core.ParseDate(txDate)
		snap.Transactions = append(snap.Transactions, t)
	}
	return rows.Err()
}

func (m *Mirror) loadCategories(ctx context.Context, snap *services.Snapshot) error {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, name, type, subtype, color, icon, transactions_count, total_amount
		 FROM categories WHERE user_id = ?`, snap.UserID)
	if err != nil {
		return fmt.Errorf("load mirrored categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c core.Category
		var cType, subtype, total string
		if err := rows.Scan(&c.ID, &c.Name, &cType, &subtype, &c.Color, &c.Icon,
			&c.TransactionsCount, &total); err != nil {
			return fmt.Errorf("scan mirrored category: %w", err)
		}
		c.UserID = snap.UserID
		c.Type = core.TxType(cType)
		c.Subtype = core.Subtype(subtype)
		c.TotalAmount = parseDecimal(total)
		snap.Categories = append(snap.Categories, c)
	}
	return rows.Err()
}

func (m *Mirror) loadBudgets(ctx context.Context, snap *services.Snapshot) error {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, name, total_amount, start_date, end_date, description, recurring
		 FROM budgets WHERE user_id = ?`, snap.UserID)
	if err != nil {
		return fmt.Errorf("load mirrored budgets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b core.Budget
		var total, start, end string
		var recurring int
		if err := rows.Scan(&b.ID, &b.Name, &total, &start, &end, &b.Description, &recurring); err != nil {
			return fmt.Errorf("scan mirrored budget: %w", err)
		}
		b.UserID = snap.UserID
		b.TotalAmount = parseDecimal(total)
		b.StartDate = core.ParseDate(start)
		b.EndDate = core.ParseDate(end)
		b.Recurring = recurring != 0
		snap.Budgets = append(snap.Budgets, b)
	}
	return rows.Err()
}

func (m *Mirror) loadGoals(ctx context.Context, snap *services.Snapshot) error {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, name, target, saved, monthly, start_date, deadline
		 FROM goals WHERE user_id = ?`, snap.UserID)
	if err != nil {
		return fmt.Errorf("load mirrored goals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g core.SavingsGoal
		var target, saved, monthly, start, deadline string
		if err := rows.Scan(&g.ID, &g.Name, &target, &saved, &monthly, &start, &deadline); err != nil {
			return fmt.Errorf("scan mirrored goal: %w", err)
		}
		g.UserID = snap.UserID
		g.Target = parseDecimal(target)
		g.Saved = parseDecimal(saved)
		g.Monthly = parseDecimal(monthly)
		g.StartDate = core.ParseDate(start)
		g.Deadline = core.ParseDate(deadline)
		snap.Goals = append(snap.Goals, g)
	}
	return rows.Err()
}

func dateString(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// parseDecimal tolerates empty and malformed mirrored values, mapping them to
// zero like the rest of the aggregation path.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
