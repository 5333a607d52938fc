package ledger

import (
	"testing"

	"github.com/splitsync/splitsync/internal/currency"
)

// applyTransfers replays a settlement list against a balance set and returns
// the resulting balances.
func applyTransfers(balances map[string]currency.Cents, transfers []Transfer) map[string]currency.Cents {
	out := make(map[string]currency.Cents, len(balances))
	for id, b := range balances {
		out[id] = b
	}
	for _, t := range transfers {
		out[t.From] += t.Amount
		out[t.To] -= t.Amount
	}
	return out
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name         string
		balances     map[string]currency.Cents
		validateFunc func(t *testing.T, transfers []Transfer)
	}{
		{
			name:     "two debtors one creditor",
			balances: map[string]currency.Cents{"alice": 5000, "bob": -3000, "carol": -2000},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				want := []Transfer{
					{From: "bob", To: "alice", Amount: 3000},
					{From: "carol", To: "alice", Amount: 2000},
				}
				if len(transfers) != len(want) {
					t.Fatalf("got %d transfers, want %d: %v", len(transfers), len(want), transfers)
				}
				for i := range want {
					if transfers[i] != want[i] {
						t.Errorf("transfer %d = %+v, want %+v", i, transfers[i], want[i])
					}
				}
			},
		},
		{
			name:     "single pair",
			balances: map[string]currency.Cents{"alice": 1000, "bob": -1000},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 1 || transfers[0] != (Transfer{From: "bob", To: "alice", Amount: 1000}) {
					t.Errorf("transfers = %v, want single bob→alice 1000", transfers)
				}
			},
		},
		{
			name:     "all zero yields empty list",
			balances: map[string]currency.Cents{"alice": 0, "bob": 0},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("transfers = %v, want none", transfers)
				}
			},
		},
		{
			name:     "one-cent residue ignored",
			balances: map[string]currency.Cents{"alice": 1, "bob": -1},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("transfers = %v, want none for sub-tolerance balances", transfers)
				}
			},
		},
		{
			name: "chain of four",
			balances: map[string]currency.Cents{
				"alice": 4000, "bob": 2000, "carol": -3500, "dave": -2500,
			},
		},
		{
			name: "equal magnitudes break ties by user id",
			balances: map[string]currency.Cents{
				"zed": 1000, "amy": 1000, "bob": -1000, "yak": -1000,
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				// amy and zed are both owed 1000; bob and yak both owe 1000.
				// Lexicographic tie-break pairs bob→amy first.
				if transfers[0] != (Transfer{From: "bob", To: "amy", Amount: 1000}) {
					t.Errorf("first transfer = %+v, want bob→amy 1000", transfers[0])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfers := Settle(tt.balances)

			nonZero := 0
			for _, b := range tt.balances {
				if b.Abs() > zeroTolerance {
					nonZero++
				}
			}
			if max := nonZero - 1; nonZero > 0 && len(transfers) > max {
				t.Errorf("%d transfers for %d non-zero balances, want at most %d", len(transfers), nonZero, max)
			}

			for _, tr := range transfers {
				if tr.Amount <= 0 {
					t.Errorf("non-positive transfer amount: %+v", tr)
				}
				if tr.From == tr.To {
					t.Errorf("self transfer: %+v", tr)
				}
			}

			// Applying the settlements must zero every balance.
			final := applyTransfers(tt.balances, transfers)
			for id, b := range final {
				if b.Abs() > zeroTolerance {
					t.Errorf("balance[%s] = %d after settlement, want 0", id, b)
				}
			}

			if tt.validateFunc != nil {
				tt.validateFunc(t, transfers)
			}
		})
	}
}

func TestSettleDeterministic(t *testing.T) {
	balances := map[string]currency.Cents{
		"a": 123, "b": -456, "c": 789, "d": -456, "e": 0,
	}

	first := Settle(balances)
	for i := 0; i < 10; i++ {
		again := Settle(balances)
		if len(again) != len(first) {
			t.Fatalf("run %d: %d transfers, want %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: transfer %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
}
