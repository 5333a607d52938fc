package models

import (
	"github.com/shopspring/decimal"

	"github.com/splitsync/splitsync/internal/currency"
)

// SplitPolicy selects how an expense total is divided among participants.
type SplitPolicy string

const (
	// SplitEqual divides the total into equal shares; remainder cents go to
	// the first participants in input order.
	SplitEqual SplitPolicy = "equal"

	// SplitPercentage divides the total according to per-participant
	// percentages that must sum to 100.
	SplitPercentage SplitPolicy = "percentage"
)

// Valid reports whether the policy is one of the known split policies.
func (p SplitPolicy) Valid() bool {
	return p == SplitEqual || p == SplitPercentage
}

// PercentShare assigns a percentage of an expense to one participant.
type PercentShare struct {
	// UserID identifies the participant.
	UserID string

	// Percent is the participant's share of the total, 0..100.
	Percent decimal.Decimal
}

// Expense represents one recorded expense: paid by a single user, split
// among a non-empty participant set. The payer may or may not be a
// participant.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g., "Dinner at Olive").
	Description string

	// Amount is the expense total in base units. Always positive.
	Amount currency.Cents

	// PaidBy is the user ID of the payer who fronted the full amount.
	PaidBy string

	// Participants is the ordered, non-empty list of user IDs the expense
	// is split among. Order matters: equal splits assign remainder cents
	// to the first participants.
	Participants []string

	// Split is the policy used to divide Amount among Participants.
	Split SplitPolicy

	// PercentShares holds per-participant percentages. Required when Split
	// is SplitPercentage, ignored otherwise.
	PercentShares []PercentShare

	// GroupID optionally scopes the expense to a group.
	GroupID string

	// Category is an optional free-form label (e.g., "food", "travel").
	Category string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// SplitLine is one participant's owed share of an expense. Owned by the
// expense that produced it; for a given expense the line amounts are
// non-negative and sum exactly to the expense total.
type SplitLine struct {
	ExpenseID string
	UserID    string
	Owed      currency.Cents
}
