package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finbook/internal/core"
	"finbook/internal/report"
	"finbook/internal/restapi"
)

// GoalService handles savings goals. Contributions are full-record updates:
// the store has no atomic increment, so concurrent contributions are
// last-writer-wins.
type GoalService struct {
	api *restapi.Client
}

func NewGoalService(api *restapi.Client) *GoalService {
	return &GoalService{api: api}
}

func (s *GoalService) List(ctx context.Context, userID string) ([]core.SavingsGoal, error) {
	var goals []core.SavingsGoal
	if err := s.api.Get(ctx, restapi.SavingsGoals, restapi.UserQuery(userID), &goals); err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) Get(ctx context.Context, id string) (core.SavingsGoal, error) {
	var goal core.SavingsGoal
	if err := s.api.Get(ctx, restapi.SavingsGoals+"/"+id, nil, &goal); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get savings goal %s: %w", id, err)
	}
	return goal, nil
}

func (s *GoalService) Create(ctx context.Context, goal core.SavingsGoal) (core.SavingsGoal, error) {
	if err := goal.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	var created core.SavingsGoal
	if err := s.api.Post(ctx, restapi.SavingsGoals, goal, &created); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create savings goal: %w", err)
	}
	slog.InfoContext(ctx, "Savings goal created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, restapi.SavingsGoals+"/"+id); err != nil {
		return fmt.Errorf("delete savings goal %s: %w", id, err)
	}
	return nil
}

// Contribute adds amount to the goal's saved total and persists the updated
// record, returning before/after figures for progress feedback.
func (s *GoalService) Contribute(ctx context.Context, goalID string, amount decimal.Decimal) (report.ContributionResult, error) {
	goal, err := s.Get(ctx, goalID)
	if err != nil {
		return report.ContributionResult{}, err
	}

	updated, result, err := report.ApplyContribution(goal, amount)
	if err != nil {
		return report.ContributionResult{}, err
	}

	if err := s.api.Put(ctx, restapi.SavingsGoals+"/"+goalID, updated, nil); err != nil {
		return report.ContributionResult{}, fmt.Errorf("save contribution to goal %s: %w", goalID, err)
	}
	slog.InfoContext(ctx, "Goal contribution applied",
		"goal_id", goalID,
		"amount", amount.String(),
		"saved", result.NewSaved.String())
	return result, nil
}
