package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbook/internal/core"
	"finbook/internal/report"
	"finbook/internal/services"
)

// Overview is the dashboard payload: monthly series plus rollups.
type Overview struct {
	UserID        string                `json:"userId"`
	Year          int                   `json:"year"`
	Month         time.Month            `json:"month"`
	Months        []report.MonthSummary `json:"months"`
	TopExpenses   []report.RollupEntry  `json:"topExpenses"`
	IncomeSources []report.RollupEntry  `json:"incomeSources"`
	// Stale marks an overview computed from the local mirror because the
	// data store was unreachable.
	Stale     bool      `json:"stale,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	year, month := parseYearMonth(r)
	months := s.defaultMonths
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 24 {
			months = n
		}
	}

	key := overviewKey(userID, year, month, months)
	if ov, found := s.overviewCache.Get(key); found {
		slog.DebugContext(r.Context(), "Overview cache hit", "user_id", userID, "year", year, "month", int(month))
		writeJSON(w, http.StatusOK, ov)
		return
	}

	snap, stale, err := s.loadSnapshot(r, userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Overview snapshot error", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "could not load records from the data store")
		return
	}

	now := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	ov := Overview{
		UserID:        userID,
		Year:          year,
		Month:         month,
		Months:        report.MonthlySeries(snap.Transactions, now, months),
		TopExpenses:   report.TopN(report.CategoryRollup(snap.Transactions, snap.Categories, now), report.TopExpenseCount),
		IncomeSources: report.IncomeRollup(snap.Transactions, snap.Categories, now),
		Stale:         stale,
		FetchedAt:     snap.FetchedAt,
	}

	// Stale overviews are not cached: the next poll should retry the store.
	if !stale {
		s.overviewCache.Set(key, ov)
	}
	writeJSON(w, http.StatusOK, ov)
}

// loadSnapshot loads from the data store, mirroring on success and falling
// back to the last mirrored snapshot when the store is unreachable.
func (s *Server) loadSnapshot(r *http.Request, userID string) (*services.Snapshot, bool, error) {
	snap, err := s.svc.Snapshots.Load(r.Context(), userID)
	if err == nil {
		if s.svc.Mirror != nil {
			if merr := s.svc.Mirror.StoreSnapshot(r.Context(), snap); merr != nil {
				slog.WarnContext(r.Context(), "Mirror write failed", "error", merr, "user_id", userID)
			}
		}
		return snap, false, nil
	}

	if s.svc.Mirror != nil {
		mirrored, ok, merr := s.svc.Mirror.LoadSnapshot(r.Context(), userID)
		if merr == nil && ok {
			slog.WarnContext(r.Context(), "Serving stale overview from mirror",
				"user_id", userID, "fetched_at", mirrored.FetchedAt)
			return mirrored, true, nil
		}
	}
	return nil, false, err
}

// BudgetMonth is the per-month budget payload with recomputed spends.
type BudgetMonth struct {
	Found      bool                   `json:"found"`
	Budget     core.Budget            `json:"budget,omitempty"`
	Categories []report.CategorySpend `json:"categories,omitempty"`
}

func (s *Server) handleBudgetMonth(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	year, month := parseYearMonth(r)

	budget, ok, err := s.svc.Budgets.ForMonth(r.Context(), userID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget lookup error", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "could not load budgets")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, BudgetMonth{Found: false})
		return
	}

	cats, err := s.svc.Budgets.Categories(r.Context(), budget.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget categories error", "error", err, "budget_id", budget.ID)
		writeError(w, http.StatusBadGateway, "could not load budget categories")
		return
	}
	txs, err := s.svc.Transactions.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "could not load transactions")
		return
	}

	writeJSON(w, http.StatusOK, BudgetMonth{
		Found:      true,
		Budget:     budget,
		Categories: report.SpendByCategory(cats, txs, year, month),
	})
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var b core.Budget
	if err := decodeBody(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.svc.Budgets.Create(r.Context(), b)
	switch {
	case errors.Is(err, services.ErrBudgetMonthExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Budget create error", "error", err)
		writeError(w, http.StatusBadGateway, "could not save budget")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "budget id is required")
		return
	}
	if err := s.svc.Budgets.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Budget delete error", "error", err, "budget_id", id)
		writeError(w, http.StatusBadGateway, "could not delete budget")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	txs, err := s.svc.Transactions.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "could not load transactions")
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeBody(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.svc.Transactions.Create(r.Context(), tx)
	switch {
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err)
		writeError(w, http.StatusBadGateway, "could not save transaction")
		return
	}

	s.invalidateOverviews(created.UserID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "transaction id is required")
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if err := s.svc.Transactions.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete error", "error", err, "id", id)
		writeError(w, http.StatusBadGateway, "could not delete transaction")
		return
	}
	if userID != "" {
		s.invalidateOverviews(userID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	goals, err := s.svc.Goals.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Goal list error", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "could not load savings goals")
		return
	}

	type goalView struct {
		core.SavingsGoal
		Progress float64 `json:"progress"`
	}
	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = goalView{SavingsGoal: g, Progress: report.GoalProgress(g.Saved, g.Target)}
	}
	writeJSON(w, http.StatusOK, views)
}

type contributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "goal id is required")
		return
	}
	var req contributeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.svc.Goals.Contribute(r.Context(), id, req.Amount)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "contribution amount must be positive")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Goal contribution error", "error", err, "goal_id", id)
		writeError(w, http.StatusBadGateway, "could not save contribution")
		return
	}

	type contributeResponse struct {
		report.ContributionResult
		Progress float64 `json:"progress"`
	}
	writeJSON(w, http.StatusOK, contributeResponse{
		ContributionResult: result,
		Progress:           report.GoalProgress(result.NewSaved, result.Target),
	})
}

func overviewKey(userID string, year int, month time.Month, months int) string {
	return userID + ":" + strconv.Itoa(year) + "-" + strconv.Itoa(int(month)) + ":" + strconv.Itoa(months)
}

// invalidateOverviews drops cached overviews for a user across window sizes
// and recent months.
func (s *Server) invalidateOverviews(userID string) {
	now := time.Now()
	for n := 1; n <= 24; n++ {
		s.overviewCache.Delete(overviewKey(userID, now.Year(), now.Month(), n))
	}
}

// isValidationError reports whether err is one of the domain validation
// sentinels that map to a 422 rather than a gateway failure.
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range []error{
		core.ErrInvalidAmount,
		core.ErrInvalidType,
		core.ErrInvalidDate,
		core.ErrEmptyTitle,
		core.ErrEmptyName,
		core.ErrEmptyUserID,
		core.ErrInvalidRange,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
