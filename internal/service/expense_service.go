package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitsync/splitsync/internal/events"
	"github.com/splitsync/splitsync/internal/ledger"
	"github.com/splitsync/splitsync/internal/metrics"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/storage"
)

// ExpenseService owns expense CRUD. Every write validates the split up
// front (a stored expense must always be splittable) and publishes push
// events so connected clients can refetch.
type ExpenseService struct {
	store storage.Store
	hub   *events.Hub
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store storage.Store, hub *events.Hub) *ExpenseService {
	return &ExpenseService{store: store, hub: hub}
}

// validateExpense checks references and runs the allocator once so invalid
// splits are rejected before anything is stored.
func (s *ExpenseService) validateExpense(ctx context.Context, e *models.Expense) error {
	if e.PaidBy == "" {
		return fmt.Errorf("%w: paidBy is required", ledger.ErrInvalidSplit)
	}
	if _, err := s.store.GetUserByID(ctx, e.PaidBy); err != nil {
		return fmt.Errorf("%w: payer %q", ledger.ErrUnknownUser, e.PaidBy)
	}
	for _, p := range e.Participants {
		if _, err := s.store.GetUserByID(ctx, p); err != nil {
			return fmt.Errorf("%w: participant %q", ledger.ErrUnknownUser, p)
		}
	}
	if e.GroupID != "" {
		if _, err := s.store.GetGroup(ctx, e.GroupID); err != nil {
			return fmt.Errorf("group %q: %w", e.GroupID, err)
		}
	}

	_, err := ledger.Split(e)
	return err
}

// Create validates, persists, and announces a new expense. The creator
// must be the payer or a participant.
func (s *ExpenseService) Create(ctx context.Context, creatorID string, e *models.Expense) (*models.Expense, error) {
	if !touchesUser(e, creatorID) {
		return nil, ErrNotParticipant
	}
	if err := s.validateExpense(ctx, e); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	metrics.ExpensesCreated.Inc()

	s.syncGroupMembers(ctx, e)
	s.hub.Publish(events.Event{Type: events.TypeExpenseNew, Data: expenseRef(e)})
	s.hub.Publish(events.Event{Type: events.TypeBalanceUpdated})

	slog.Info("expense created", "expense_id", e.ID, "amount", e.Amount.String(), "paid_by", e.PaidBy)
	return e, nil
}

// Get retrieves one expense; the viewer must be the payer or a
// participant.
func (s *ExpenseService) Get(ctx context.Context, viewerID, expenseID string) (*models.Expense, error) {
	e, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !touchesUser(e, viewerID) {
		return nil, ErrNotParticipant
	}
	return e, nil
}

// Update validates and replaces an existing expense.
func (s *ExpenseService) Update(ctx context.Context, editorID string, e *models.Expense) (*models.Expense, error) {
	existing, err := s.store.GetExpense(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if !touchesUser(existing, editorID) {
		return nil, ErrNotParticipant
	}
	if err := s.validateExpense(ctx, e); err != nil {
		return nil, err
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = existing.CreatedAt
	}

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	s.syncGroupMembers(ctx, e)
	s.hub.Publish(events.Event{Type: events.TypeExpenseUpdated, Data: expenseRef(e)})
	s.hub.Publish(events.Event{Type: events.TypeBalanceUpdated})
	return e, nil
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, editorID, expenseID string) error {
	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if !touchesUser(existing, editorID) {
		return ErrNotParticipant
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	s.hub.Publish(events.Event{Type: events.TypeExpenseDeleted, Data: expenseRef(existing)})
	s.hub.Publish(events.Event{Type: events.TypeBalanceUpdated})
	return nil
}

// List retrieves expenses matching the filter.
func (s *ExpenseService) List(ctx context.Context, filter storage.ExpenseFilter) ([]*models.Expense, error) {
	return s.store.ListExpenses(ctx, filter)
}

// Preview splits an expense without persisting anything.
func (s *ExpenseService) Preview(e *models.Expense) ([]models.SplitLine, error) {
	return ledger.Split(e)
}

// syncGroupMembers adds any expense participants (and the payer) that are
// not yet members of the expense's group. Failures here only degrade group
// bookkeeping, so they are logged rather than surfaced.
func (s *ExpenseService) syncGroupMembers(ctx context.Context, e *models.Expense) {
	if e.GroupID == "" {
		return
	}
	group, err := s.store.GetGroup(ctx, e.GroupID)
	if err != nil {
		slog.Warn("syncGroupMembers: failed to get group", "group_id", e.GroupID, "error", err)
		return
	}

	var missing []string
	for _, id := range append(append([]string{}, e.Participants...), e.PaidBy) {
		if !group.HasMember(id) {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, e.GroupID, missing); err != nil {
		slog.Error("syncGroupMembers: failed to add members", "group_id", e.GroupID, "error", err)
		return
	}
	slog.Info("added expense participants to group", "group_id", e.GroupID, "new_members", missing)
}

func touchesUser(e *models.Expense, userID string) bool {
	if e.PaidBy == userID {
		return true
	}
	for _, p := range e.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// expenseRef is the minimal identity pushed with expense events; clients
// refetch the full record.
func expenseRef(e *models.Expense) map[string]string {
	ref := map[string]string{"id": e.ID}
	if e.GroupID != "" {
		ref["groupId"] = e.GroupID
	}
	return ref
}
