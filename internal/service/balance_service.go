package service

import (
	"context"
	"log/slog"

	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/ledger"
	"github.com/splitsync/splitsync/internal/metrics"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/storage"
)

// BalanceQuery narrows a balance computation. A non-empty UserID selects
// the personal projection for that user; a non-empty GroupID scopes the
// ledger to one group. Dates bound expense timestamps inclusively.
type BalanceQuery struct {
	UserID    string
	GroupID   string
	StartDate int64
	EndDate   int64
}

// BalanceService computes balance and settlement projections over the
// stored ledger. It never mutates state: every call re-derives the full
// picture from expenses and recorded payments.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// Global computes net balances for everyone in scope plus the minimal
// transfer list that would settle them.
func (s *BalanceService) Global(ctx context.Context, q BalanceQuery) (ledger.GlobalView, error) {
	balances, err := s.aggregate(ctx, q)
	if err != nil {
		return ledger.GlobalView{}, err
	}

	transfers := ledger.Settle(balances)
	metrics.SettlementTransfers.Observe(float64(len(transfers)))

	view := ledger.NewGlobalView(balances, transfers)
	view.Users = s.resolveUsers(ctx, balances)
	return view, nil
}

// Personal computes the viewer-centric projection: net balance plus who
// they owe and who owes them, filtered from the same global settlement
// plan everyone else sees.
func (s *BalanceService) Personal(ctx context.Context, q BalanceQuery) (ledger.PersonalView, error) {
	global, err := s.Global(ctx, q)
	if err != nil {
		return ledger.PersonalView{}, err
	}
	return global.Personal(q.UserID), nil
}

func (s *BalanceService) aggregate(ctx context.Context, q BalanceQuery) (map[string]currency.Cents, error) {
	filter := storage.ExpenseFilter{
		GroupID:   q.GroupID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
	expenses, err := s.store.ListExpenses(ctx, filter)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx, filter)
	if err != nil {
		return nil, err
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}

	scope := ledger.Scope{UserID: q.UserID, GroupID: q.GroupID}
	balances, err := ledger.Aggregate(expenses, payments, scope, func(id string) bool { return known[id] })
	if err != nil {
		return nil, err
	}
	metrics.BalanceComputations.Inc()

	slog.Debug("balances computed",
		"expenses", len(expenses), "payments", len(payments), "parties", len(balances))
	return balances, nil
}

// resolveUsers maps the balance keys to display identities. Lookup
// failures just omit the entry; the client falls back to the raw ID.
func (s *BalanceService) resolveUsers(ctx context.Context, balances map[string]currency.Cents) map[string]models.UserRef {
	if len(balances) == 0 {
		return nil
	}
	refs := make(map[string]models.UserRef, len(balances))
	for id := range balances {
		u, err := s.store.GetUserByID(ctx, id)
		if err != nil {
			slog.Warn("failed to resolve user for balance view", "user_id", id, "error", err)
			continue
		}
		refs[id] = u.Ref()
	}
	return refs
}
