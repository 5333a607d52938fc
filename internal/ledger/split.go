// Package ledger implements the balance and settlement engine: splitting
// expenses into per-participant shares, folding expenses into net balances,
// and deriving a short list of settling transfers. Everything is a pure
// function over its inputs; amounts are integer base units throughout.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/models"
)

var (
	hundred      = decimal.NewFromInt(100)
	pctTolerance = decimal.NewFromFloat(0.01)
)

// Split divides an expense total into per-participant owed amounts.
// The returned lines are in participant order and always sum exactly to the
// expense amount; no cent is lost or invented.
func Split(e *models.Expense) ([]models.SplitLine, error) {
	if len(e.Participants) == 0 {
		return nil, fmt.Errorf("%w: participants must not be empty", ErrInvalidSplit)
	}
	if e.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidSplit, e.Amount)
	}
	seen := make(map[string]bool, len(e.Participants))
	for _, p := range e.Participants {
		if seen[p] {
			return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidSplit, p)
		}
		seen[p] = true
	}

	var shares []currency.Cents
	var err error
	switch e.Split {
	case models.SplitEqual:
		shares = splitEqual(e.Amount, len(e.Participants))
	case models.SplitPercentage:
		shares, err = splitPercentage(e.Amount, e.Participants, e.PercentShares)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown split policy %q", ErrInvalidSplit, e.Split)
	}

	lines := make([]models.SplitLine, len(e.Participants))
	for i, p := range e.Participants {
		lines[i] = models.SplitLine{ExpenseID: e.ID, UserID: p, Owed: shares[i]}
	}
	return lines, nil
}

// splitEqual gives everyone floor(total/n) base units and hands the
// remainder out one cent at a time to the first participants, so the result
// is deterministic for a given participant order.
func splitEqual(total currency.Cents, n int) []currency.Cents {
	base := total / currency.Cents(n)
	remainder := total - base*currency.Cents(n)

	shares := make([]currency.Cents, n)
	for i := range shares {
		shares[i] = base
		if currency.Cents(i) < remainder {
			shares[i]++
		}
	}
	return shares
}

// splitPercentage computes round(total × pct / 100) per participant, then
// pushes any rounding drift onto the last participant so the shares still
// sum exactly to the total.
func splitPercentage(total currency.Cents, participants []string, percents []models.PercentShare) ([]currency.Cents, error) {
	byUser := make(map[string]decimal.Decimal, len(percents))
	for _, ps := range percents {
		if ps.Percent.IsNegative() {
			return nil, fmt.Errorf("%w: percentage for %q is negative", ErrInvalidSplit, ps.UserID)
		}
		if _, dup := byUser[ps.UserID]; dup {
			return nil, fmt.Errorf("%w: duplicate percentage for %q", ErrInvalidSplit, ps.UserID)
		}
		byUser[ps.UserID] = ps.Percent
	}

	sum := decimal.Zero
	for _, p := range participants {
		pct, ok := byUser[p]
		if !ok {
			return nil, fmt.Errorf("%w: missing percentage for participant %q", ErrInvalidSplit, p)
		}
		sum = sum.Add(pct)
	}
	if len(byUser) != len(participants) {
		return nil, fmt.Errorf("%w: percentages reference non-participants", ErrInvalidSplit)
	}
	if sum.Sub(hundred).Abs().GreaterThan(pctTolerance) {
		return nil, fmt.Errorf("%w: percentages sum to %s, want 100", ErrInvalidSplit, sum)
	}

	totalDec := decimal.NewFromInt(int64(total))
	shares := make([]currency.Cents, len(participants))
	var allocated currency.Cents
	for i, p := range participants[:len(participants)-1] {
		share := currency.Cents(totalDec.Mul(byUser[p]).Div(hundred).Round(0).IntPart())
		shares[i] = share
		allocated += share
	}
	last := total - allocated
	if last < 0 {
		return nil, fmt.Errorf("%w: rounding drift exceeds last participant's share", ErrInvalidSplit)
	}
	shares[len(participants)-1] = last
	return shares, nil
}
