// Package seed populates the data store with demo records for local
// development against an empty JSON store.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/shopspring/decimal"

	"finbook/internal/core"
	"finbook/internal/services"
)

var expenseCategories = []struct {
	Name    string
	Subtype core.Subtype
	Color   string
	Icon    string
}{
	{"Groceries", core.Essential, "#22c55e", "shopping-cart"},
	{"Rent", core.Essential, "#3b82f6", "home"},
	{"Transport", core.Essential, "#f59e0b", "bus"},
	{"Dining Out", core.Discretionary, "#ef4444", "utensils"},
	{"Entertainment", core.Discretionary, "#a855f7", "film"},
	{"Savings Transfer", core.Savings, "#06b6d4", "piggy-bank"},
}

var incomeCategories = []struct {
	Name  string
	Color string
	Icon  string
}{
	{"Salary", "#16a34a", "briefcase"},
	{"Freelance", "#0ea5e9", "laptop"},
}

// Seeder creates demo data through the domain services so counters and
// validation behave exactly as they do for real writes.
type Seeder struct {
	transactions *services.TransactionService
	categories   *services.CategoryService
	budgets      *services.BudgetService
	goals        *services.GoalService
	rng          *rand.Rand
}

func New(tx *services.TransactionService, cats *services.CategoryService, budgets *services.BudgetService, goals *services.GoalService) *Seeder {
	return &Seeder{
		transactions: tx,
		categories:   cats,
		budgets:      budgets,
		goals:        goals,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run seeds categories, six months of transactions, a current-month budget,
// and a couple of savings goals for the user.
func (s *Seeder) Run(ctx context.Context, userID string, txCount int) error {
	if txCount <= 0 {
		txCount = 120
	}

	cats, err := s.seedCategories(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.seedTransactions(ctx, userID, cats, txCount); err != nil {
		return err
	}
	if err := s.seedBudget(ctx, userID, cats); err != nil {
		return err
	}
	if err := s.seedGoals(ctx, userID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Seeding completed", "user_id", userID, "transactions", txCount)
	return nil
}

func (s *Seeder) seedCategories(ctx context.Context, userID string) ([]core.Category, error) {
	var created []core.Category
	for i, c := range expenseCategories {
		cat, err := s.categories.Create(ctx, core.Category{
			UserID:  userID,
			Name:    c.Name,
			Type:    core.Expense,
			Subtype: c.Subtype,
			Color:   c.Color,
			Icon:    c.Icon,
			Order:   i,
		})
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		created = append(created, cat)
	}
	for i, c := range incomeCategories {
		cat, err := s.categories.Create(ctx, core.Category{
			UserID: userID,
			Name:   c.Name,
			Type:   core.Income,
			Color:  c.Color,
			Icon:   c.Icon,
			Order:  i,
		})
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		created = append(created, cat)
	}
	return created, nil
}

func (s *Seeder) seedTransactions(ctx context.Context, userID string, cats []core.Category, count int) error {
	for i := 0; i < count; i++ {
		cat := cats[s.rng.Intn(len(cats))]

		amount := decimal.NewFromFloat(float64(s.rng.Intn(20000)+100) / 100)
		if cat.Type == core.Income {
			amount = decimal.NewFromFloat(float64(s.rng.Intn(300000)+50000) / 100)
		}

		date := time.Now().AddDate(0, 0, -s.rng.Intn(180))
		_, err := s.transactions.Create(ctx, core.Transaction{
			UserID:        userID,
			Title:         faker.Sentence(),
			Amount:        amount,
			Type:          cat.Type,
			Category:      cat.ID,
			Date:          core.NewDate(date.Year(), date.Month(), date.Day()),
			PaymentMethod: "card",
			Status:        "completed",
		})
		if err != nil {
			return fmt.Errorf("seed transaction: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedBudget(ctx context.Context, userID string, cats []core.Category) error {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	budget, err := s.budgets.Create(ctx, core.Budget{
		UserID:      userID,
		Name:        now.Month().String() + " Budget",
		TotalAmount: decimal.NewFromInt(2500),
		StartDate:   core.NewDate(first.Year(), first.Month(), first.Day()),
		EndDate:     core.NewDate(last.Year(), last.Month(), last.Day()),
		Description: faker.Sentence(),
	})
	if err != nil {
		return fmt.Errorf("seed budget: %w", err)
	}

	for _, cat := range cats {
		if cat.Type != core.Expense {
			continue
		}
		_, err := s.budgets.AddCategory(ctx, core.BudgetCategory{
			BudgetID:   budget.ID,
			CategoryID: cat.ID,
			Name:       cat.Name,
			Budget:     decimal.NewFromInt(int64(s.rng.Intn(400) + 100)),
			Type:       cat.Type,
			Icon:       cat.Icon,
		})
		if err != nil {
			return fmt.Errorf("seed budget category %s: %w", cat.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedGoals(ctx context.Context, userID string) error {
	goals := []core.SavingsGoal{
		{
			UserID:  userID,
			Name:    "Emergency Fund",
			Target:  decimal.NewFromInt(5000),
			Saved:   decimal.NewFromInt(1200),
			Monthly: decimal.NewFromInt(300),
		},
		{
			UserID:  userID,
			Name:    faker.Word() + " Trip",
			Target:  decimal.NewFromInt(2000),
			Saved:   decimal.NewFromInt(250),
			Monthly: decimal.NewFromInt(150),
		},
	}
	for _, g := range goals {
		if _, err := s.goals.Create(ctx, g); err != nil {
			return fmt.Errorf("seed goal %s: %w", g.Name, err)
		}
	}
	return nil
}
