package models

import "github.com/splitsync/splitsync/internal/currency"

// SettlementPayment represents a recorded payment between two users to clear
// debt. Recorded payments shift net balances the same way an expense does;
// they are distinct from the suggested transfers the optimizer derives on
// demand.
type SettlementPayment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID optionally scopes the payment to a group.
	GroupID string

	// FromUserID is the debtor who paid.
	FromUserID string

	// ToUserID is the creditor who received the payment.
	ToUserID string

	// Amount is the payment amount in base units. Always positive.
	Amount currency.Cents

	// Note is an optional description.
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded the payment.
	CreatedBy string
}
