// Package services wraps the generic REST client with typed, per-user CRUD
// operations and keeps the denormalized category counters consistent. All
// aggregation inputs flow through an explicit Snapshot instead of shared
// module state, so the report package stays pure.
package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finbook/internal/core"
	"finbook/internal/restapi"
)

// Snapshot is a point-in-time copy of one user's records, fetched together
// and handed to the aggregation engine.
type Snapshot struct {
	UserID       string             `json:"userId"`
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
	Budgets      []core.Budget      `json:"budgets"`
	Goals        []core.SavingsGoal `json:"goals"`
	FetchedAt    time.Time          `json:"fetchedAt"`
}

// SnapshotLoader fans out the collection fetches for one user.
type SnapshotLoader struct {
	api *restapi.Client
}

func NewSnapshotLoader(api *restapi.Client) *SnapshotLoader {
	return &SnapshotLoader{api: api}
}

// Load fetches all collections for the user concurrently. Any failed fetch
// fails the whole snapshot; partial snapshots would skew every aggregate.
func (l *SnapshotLoader) Load(ctx context.Context, userID string) (*Snapshot, error) {
	if userID == "" {
		return nil, core.ErrEmptyUserID
	}

	snap := &Snapshot{UserID: userID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return l.api.Get(gctx, restapi.Transactions, restapi.UserQuery(userID), &snap.Transactions)
	})
	g.Go(func() error {
		return l.api.Get(gctx, restapi.Categories, restapi.UserQuery(userID), &snap.Categories)
	})
	g.Go(func() error {
		return l.api.Get(gctx, restapi.Budgets, restapi.UserQuery(userID), &snap.Budgets)
	})
	g.Go(func() error {
		return l.api.Get(gctx, restapi.SavingsGoals, restapi.UserQuery(userID), &snap.Goals)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load snapshot for user %s: %w", userID, err)
	}
	snap.FetchedAt = time.Now()
	return snap, nil
}
