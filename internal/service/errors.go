package service

import "errors"

var (
	// ErrNotParticipant is returned when a user acts on an expense or
	// group they are not part of.
	ErrNotParticipant = errors.New("user is not a participant")

	// ErrNotGroupCreator is returned when a destructive group action is
	// attempted by someone other than the group's creator.
	ErrNotGroupCreator = errors.New("only the group creator may do this")

	// ErrSelfPayment is returned when a settlement payment names the
	// same user on both sides.
	ErrSelfPayment = errors.New("payer and recipient must differ")

	// ErrInvalidAmount is returned for zero or negative payment amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)
