package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/storage"
)

// CreateExpense persists a new expense with its participant rows.
// Participant order is preserved via the position column because equal
// splits assign remainder cents by input order.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertExpense(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertExpense(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	var groupID interface{}
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, paid_by, split_policy, group_id, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, int64(expense.Amount), expense.PaidBy,
		string(expense.Split), groupID, expense.Category, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	percents := make(map[string]string, len(expense.PercentShares))
	for _, ps := range expense.PercentShares {
		percents[ps.UserID] = ps.Percent.String()
	}

	for i, userID := range expense.Participants {
		var percent interface{}
		if p, ok := percents[userID]; ok {
			percent = p
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, position, percent) VALUES (?, ?, ?, ?)",
			expense.ID, userID, i, percent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID including its participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.scanExpenseRow(s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, paid_by, split_policy, group_id, category, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadParticipants(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanExpenseRow(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount int64
	var policy string
	var groupID sql.NullString

	err := row.Scan(&expense.ID, &expense.Description, &amount, &expense.PaidBy,
		&policy, &groupID, &expense.Category, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	expense.Amount = currency.Cents(amount)
	expense.Split = models.SplitPolicy(policy)
	if groupID.Valid {
		expense.GroupID = groupID.String
	}
	return expense, nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, percent FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var percent sql.NullString
		if err := rows.Scan(&userID, &percent); err != nil {
			return fmt.Errorf("failed to scan expense participant: %w", err)
		}
		expense.Participants = append(expense.Participants, userID)
		if percent.Valid {
			p, err := decimal.NewFromString(percent.String)
			if err != nil {
				return fmt.Errorf("failed to parse stored percent %q: %w", percent.String, err)
			}
			expense.PercentShares = append(expense.PercentShares, models.PercentShare{
				UserID:  userID,
				Percent: p,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense participants: %w", err)
	}
	return nil
}

// UpdateExpense replaces an existing expense and its participant rows.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expense.ID)
	if err != nil {
		return fmt.Errorf("failed to replace expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if err := insertExpense(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense and its participant rows.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpenses retrieves expenses matching the filter, newest first.
// The UserID filter matches expenses the user paid or participates in.
func (s *SQLiteStore) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]*models.Expense, error) {
	var conds []string
	var args []interface{}

	if filter.GroupID != "" {
		conds = append(conds, "e.group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.UserID != "" {
		conds = append(conds, `(e.paid_by = ? OR EXISTS (
			SELECT 1 FROM expense_participants p
			WHERE p.expense_id = e.id AND p.user_id = ?))`)
		args = append(args, filter.UserID, filter.UserID)
	}
	if filter.StartDate != 0 {
		conds = append(conds, "e.created_at >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != 0 {
		conds = append(conds, "e.created_at <= ?")
		args = append(args, filter.EndDate)
	}

	query := `SELECT e.id, e.description, e.amount, e.paid_by, e.split_policy, e.group_id, e.category, e.created_at
		 FROM expenses e`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY e.created_at DESC, e.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := s.scanExpenseRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadParticipants(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}
