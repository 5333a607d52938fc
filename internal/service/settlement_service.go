package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitsync/splitsync/internal/events"
	"github.com/splitsync/splitsync/internal/ledger"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/storage"
)

// SettlementService records real-world settle-up payments. A payment is a
// plain ledger entry: it shifts balances like an expense does, and the
// next balance read reflects it.
type SettlementService struct {
	store storage.Store
	hub   *events.Hub
}

// NewSettlementService creates a SettlementService.
func NewSettlementService(store storage.Store, hub *events.Hub) *SettlementService {
	return &SettlementService{store: store, hub: hub}
}

// Record persists a payment from one user to another.
func (s *SettlementService) Record(ctx context.Context, creatorID string, p *models.SettlementPayment) (*models.SettlementPayment, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if p.FromUserID == p.ToUserID {
		return nil, ErrSelfPayment
	}
	if creatorID != p.FromUserID && creatorID != p.ToUserID {
		return nil, ErrNotParticipant
	}
	for _, id := range []string{p.FromUserID, p.ToUserID} {
		if _, err := s.store.GetUserByID(ctx, id); err != nil {
			return nil, fmt.Errorf("%w: %q", ledger.ErrUnknownUser, id)
		}
	}
	if p.GroupID != "" {
		if _, err := s.store.GetGroup(ctx, p.GroupID); err != nil {
			return nil, fmt.Errorf("group %q: %w", p.GroupID, err)
		}
	}
	p.CreatedBy = creatorID

	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	s.hub.Publish(events.Event{Type: events.TypeBalanceUpdated})
	slog.Info("settlement payment recorded",
		"payment_id", p.ID, "from", p.FromUserID, "to", p.ToUserID, "amount", p.Amount.String())
	return p, nil
}

// List returns recorded payments matching the filter.
func (s *SettlementService) List(ctx context.Context, filter storage.ExpenseFilter) ([]*models.SettlementPayment, error) {
	return s.store.ListPayments(ctx, filter)
}

// Delete removes a payment. Only a party to the payment or its creator
// may delete it.
func (s *SettlementService) Delete(ctx context.Context, editorID, paymentID string) error {
	payments, err := s.store.ListPayments(ctx, storage.ExpenseFilter{})
	if err != nil {
		return err
	}
	var target *models.SettlementPayment
	for _, p := range payments {
		if p.ID == paymentID {
			target = p
			break
		}
	}
	if target == nil {
		return fmt.Errorf("payment %s: %w", paymentID, storage.ErrNotFound)
	}
	if editorID != target.FromUserID && editorID != target.ToUserID && editorID != target.CreatedBy {
		return ErrNotParticipant
	}

	if err := s.store.DeletePayment(ctx, paymentID); err != nil {
		return err
	}
	s.hub.Publish(events.Event{Type: events.TypeBalanceUpdated})
	return nil
}
