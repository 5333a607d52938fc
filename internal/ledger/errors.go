package ledger

import "errors"

var (
	// ErrInvalidSplit indicates malformed split input: empty participants,
	// non-positive total, or percentages that don't cover the participant
	// set and sum to 100.
	ErrInvalidSplit = errors.New("invalid split")

	// ErrUnknownUser indicates an expense or payment references a user ID
	// the caller's directory cannot resolve.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInconsistentLedger indicates aggregation produced a non-zero sum
	// beyond tolerance. This points at an allocator bug upstream, not bad
	// request input.
	ErrInconsistentLedger = errors.New("inconsistent ledger")
)
