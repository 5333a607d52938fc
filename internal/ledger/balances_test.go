package ledger

import (
	"errors"
	"testing"

	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/models"
)

func equalExpense(id string, amount currency.Cents, paidBy string, participants ...string) *models.Expense {
	return &models.Expense{
		ID:           id,
		Amount:       amount,
		PaidBy:       paidBy,
		Participants: participants,
		Split:        models.SplitEqual,
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		expenses []*models.Expense
		payments []*models.SettlementPayment
		scope    Scope
		known    func(string) bool
		wantErr  error
		want     map[string]currency.Cents
	}{
		{
			name: "payer outside participant set",
			expenses: []*models.Expense{
				equalExpense("e1", 3000, "alice", "bob", "carol"),
			},
			want: map[string]currency.Cents{"alice": 3000, "bob": -1500, "carol": -1500},
		},
		{
			name: "payer who participates collapses to share minus fronted",
			expenses: []*models.Expense{
				equalExpense("e1", 3000, "alice", "alice", "bob", "carol"),
			},
			want: map[string]currency.Cents{"alice": 2000, "bob": -1000, "carol": -1000},
		},
		{
			name: "multiple expenses accumulate",
			expenses: []*models.Expense{
				equalExpense("e1", 3000, "alice", "alice", "bob"),
				equalExpense("e2", 2000, "bob", "alice", "bob"),
			},
			want: map[string]currency.Cents{"alice": 500, "bob": -500},
		},
		{
			name: "recorded payment shifts balances",
			expenses: []*models.Expense{
				equalExpense("e1", 3000, "alice", "alice", "bob", "carol"),
			},
			payments: []*models.SettlementPayment{
				{ID: "p1", FromUserID: "bob", ToUserID: "alice", Amount: 1000},
			},
			want: map[string]currency.Cents{"alice": 1000, "bob": 0, "carol": -1000},
		},
		{
			name: "group scope filters foreign expenses",
			expenses: []*models.Expense{
				equalExpense("e1", 3000, "alice", "alice", "bob"),
				&models.Expense{
					ID: "e2", Amount: 2000, PaidBy: "carol",
					Participants: []string{"carol", "dave"},
					Split:        models.SplitEqual, GroupID: "g1",
				},
			},
			scope: Scope{GroupID: "g1"},
			want:  map[string]currency.Cents{"carol": 1000, "dave": -1000},
		},
		{
			name: "user scope keeps only expenses touching the user",
			expenses: []*models.Expense{
				equalExpense("e1", 3000, "alice", "alice", "bob"),
				equalExpense("e2", 2000, "carol", "carol", "dave"),
			},
			scope: Scope{UserID: "bob"},
			want:  map[string]currency.Cents{"alice": 1500, "bob": -1500},
		},
		{
			name: "unknown participant fails",
			expenses: []*models.Expense{
				equalExpense("e1", 3000, "alice", "alice", "ghost"),
			},
			known:   func(id string) bool { return id == "alice" },
			wantErr: ErrUnknownUser,
		},
		{
			name: "unknown payment party fails",
			payments: []*models.SettlementPayment{
				{ID: "p1", FromUserID: "alice", ToUserID: "ghost", Amount: 100},
			},
			known:   func(id string) bool { return id == "alice" },
			wantErr: ErrUnknownUser,
		},
		{
			name: "invalid split surfaces from allocator",
			expenses: []*models.Expense{
				{ID: "e1", Amount: -5, PaidBy: "a", Participants: []string{"a"}, Split: models.SplitEqual},
			},
			wantErr: ErrInvalidSplit,
		},
		{
			name: "empty input yields empty balances",
			want: map[string]currency.Cents{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.expenses, tt.payments, tt.scope, tt.known)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Aggregate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Aggregate() failed: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Errorf("Aggregate() touched %d users, want %d: %v", len(got), len(tt.want), got)
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("balance[%s] = %d, want %d", id, got[id], want)
				}
			}

			// Conservation of money: balances sum to zero.
			var sum currency.Cents
			for _, b := range got {
				sum += b
			}
			if sum.Abs() > sumTolerance {
				t.Errorf("balances sum to %d, want 0", sum)
			}
		})
	}
}

func TestAggregateIdempotent(t *testing.T) {
	expenses := []*models.Expense{
		equalExpense("e1", 10000, "alice", "alice", "bob", "carol"),
		equalExpense("e2", 5555, "bob", "bob", "carol"),
	}

	first, err := Aggregate(expenses, nil, Scope{}, nil)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	second, err := Aggregate(expenses, nil, Scope{}, nil)
	if err != nil {
		t.Fatalf("Aggregate failed on repeat: %v", err)
	}
	for id, b := range first {
		if second[id] != b {
			t.Errorf("balance[%s] changed between runs: %d vs %d", id, b, second[id])
		}
	}
}
