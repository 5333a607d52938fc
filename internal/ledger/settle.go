package ledger

import (
	"github.com/splitsync/splitsync/internal/currency"
)

// zeroTolerance is the residual below which a balance counts as settled.
// Matches the one-base-unit drift Aggregate tolerates.
const zeroTolerance currency.Cents = 1

// Transfer is one suggested payment from a debtor to a creditor.
type Transfer struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Amount currency.Cents `json:"amount"`
}

type party struct {
	id     string
	amount currency.Cents // always positive: debt owed or credit due
}

// Settle derives a short list of transfers that zeroes every balance.
//
// Greedy max-debtor/max-creditor matching: repeatedly pair the largest
// debtor with the largest creditor (ties broken by lexicographic user ID so
// the output is reproducible) and move min(debt, credit) between them. Each
// step fully settles at least one party, so k non-zero balances need at
// most k−1 transfers. The true minimum-transaction partition is NP-hard;
// this is the standard practical approximation.
//
// An all-zero input yields an empty list. Settle never fails.
func Settle(balances map[string]currency.Cents) []Transfer {
	var debtors, creditors []party
	for id, b := range balances {
		switch {
		case b < -zeroTolerance:
			debtors = append(debtors, party{id: id, amount: -b})
		case b > zeroTolerance:
			creditors = append(creditors, party{id: id, amount: b})
		}
	}

	var transfers []Transfer
	for len(debtors) > 0 && len(creditors) > 0 {
		di := pickLargest(debtors)
		ci := pickLargest(creditors)

		amount := debtors[di].amount
		if creditors[ci].amount < amount {
			amount = creditors[ci].amount
		}
		transfers = append(transfers, Transfer{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: amount,
		})

		debtors[di].amount -= amount
		creditors[ci].amount -= amount
		if debtors[di].amount <= zeroTolerance {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
		if creditors[ci].amount <= zeroTolerance {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
	}
	return transfers
}

// pickLargest returns the index of the party with the largest amount,
// breaking ties by smaller user ID.
func pickLargest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		if parties[i].amount > parties[best].amount ||
			(parties[i].amount == parties[best].amount && parties[i].id < parties[best].id) {
			best = i
		}
	}
	return best
}
