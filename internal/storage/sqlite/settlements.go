package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/storage"
)

// CreatePayment persists a recorded settlement payment.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.SettlementPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var groupID interface{}
	if payment.GroupID != "" {
		groupID = payment.GroupID
	}
	var note interface{}
	if payment.Note != "" {
		note = payment.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlement_payments (id, group_id, from_user_id, to_user_id, amount, note, created_at, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, groupID, payment.FromUserID, payment.ToUserID,
		int64(payment.Amount), note, payment.CreatedAt, payment.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement payment: %w", err)
	}
	return nil
}

// ListPayments retrieves settlement payments matching the filter, newest
// first. The UserID filter matches payments the user sent or received.
func (s *SQLiteStore) ListPayments(ctx context.Context, filter storage.ExpenseFilter) ([]*models.SettlementPayment, error) {
	var conds []string
	var args []interface{}

	if filter.GroupID != "" {
		conds = append(conds, "group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.UserID != "" {
		conds = append(conds, "(from_user_id = ? OR to_user_id = ?)")
		args = append(args, filter.UserID, filter.UserID)
	}
	if filter.StartDate != 0 {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != 0 {
		conds = append(conds, "created_at <= ?")
		args = append(args, filter.EndDate)
	}

	query := `SELECT id, group_id, from_user_id, to_user_id, amount, note, created_at, created_by
		 FROM settlement_payments`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlement payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.SettlementPayment
	for rows.Next() {
		payment := &models.SettlementPayment{}
		var amount int64
		var groupID, note sql.NullString

		if err := rows.Scan(&payment.ID, &groupID, &payment.FromUserID, &payment.ToUserID,
			&amount, &note, &payment.CreatedAt, &payment.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan settlement payment: %w", err)
		}
		payment.Amount = currency.Cents(amount)
		if groupID.Valid {
			payment.GroupID = groupID.String
		}
		if note.Valid {
			payment.Note = note.String
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlement payments: %w", err)
	}
	return payments, nil
}

// DeletePayment removes a recorded settlement payment.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlement_payments WHERE id = ?", paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("settlement payment %s: %w", paymentID, storage.ErrNotFound)
	}
	return nil
}
