package ledger

import (
	"fmt"
	"log/slog"

	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/models"
)

// sumTolerance is how far the aggregate of all net balances may drift from
// zero before the ledger is considered inconsistent. One base unit absorbs
// nothing in practice: every expense and payment contributes exactly zero.
const sumTolerance currency.Cents = 1

// Scope restricts an aggregation to one user's expenses or one group.
// The zero Scope means global.
type Scope struct {
	UserID  string
	GroupID string
}

func (s Scope) includesExpense(e *models.Expense) bool {
	if s.GroupID != "" && e.GroupID != s.GroupID {
		return false
	}
	if s.UserID != "" {
		if e.PaidBy == s.UserID {
			return true
		}
		for _, p := range e.Participants {
			if p == s.UserID {
				return true
			}
		}
		return false
	}
	return true
}

func (s Scope) includesPayment(p *models.SettlementPayment) bool {
	if s.GroupID != "" && p.GroupID != s.GroupID {
		return false
	}
	if s.UserID != "" && p.FromUserID != s.UserID && p.ToUserID != s.UserID {
		return false
	}
	return true
}

// Aggregate folds expenses and recorded settlement payments into a net
// balance per user: positive means the user is owed money, negative means
// the user owes. Each expense adds the full amount to the payer and
// subtracts every participant's owed share; a payer who also participates
// nets to their share minus what they fronted. Recorded payments move the
// payer up and the receiver down.
//
// known, when non-nil, is the caller's user directory predicate; any
// reference to an unresolvable ID fails with ErrUnknownUser. The result
// sums to zero across all touched users; a drift beyond one base unit is an
// internal defect reported as ErrInconsistentLedger.
func Aggregate(expenses []*models.Expense, payments []*models.SettlementPayment, scope Scope, known func(string) bool) (map[string]currency.Cents, error) {
	balances := make(map[string]currency.Cents)

	for _, e := range expenses {
		if !scope.includesExpense(e) {
			continue
		}
		if known != nil {
			if !known(e.PaidBy) {
				return nil, fmt.Errorf("%w: payer %q on expense %q", ErrUnknownUser, e.PaidBy, e.ID)
			}
			for _, p := range e.Participants {
				if !known(p) {
					return nil, fmt.Errorf("%w: participant %q on expense %q", ErrUnknownUser, p, e.ID)
				}
			}
		}

		lines, err := Split(e)
		if err != nil {
			return nil, err
		}
		balances[e.PaidBy] += e.Amount
		for _, line := range lines {
			balances[line.UserID] -= line.Owed
		}
	}

	for _, p := range payments {
		if !scope.includesPayment(p) {
			continue
		}
		if known != nil {
			if !known(p.FromUserID) {
				return nil, fmt.Errorf("%w: payer %q on payment %q", ErrUnknownUser, p.FromUserID, p.ID)
			}
			if !known(p.ToUserID) {
				return nil, fmt.Errorf("%w: payee %q on payment %q", ErrUnknownUser, p.ToUserID, p.ID)
			}
		}
		balances[p.FromUserID] += p.Amount
		balances[p.ToUserID] -= p.Amount
	}

	var sum currency.Cents
	for _, b := range balances {
		sum += b
	}
	if sum.Abs() > sumTolerance {
		slog.Error("ledger invariant violated: balances do not sum to zero",
			"sum", sum.String(),
			"users", len(balances),
		)
		return nil, fmt.Errorf("%w: balances sum to %s", ErrInconsistentLedger, sum)
	}

	return balances, nil
}
