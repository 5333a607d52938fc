package ledger

import (
	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/models"
)

// GlobalView is the "all balances + settlements" projection served by the
// balances endpoint. Users carries resolved display identities for every
// user ID appearing in Balances; resolution failures degrade to omitting
// the entry, leaving clients with the raw ID.
type GlobalView struct {
	Balances    map[string]currency.Cents `json:"balances"`
	Settlements []Transfer                `json:"settlements"`
	Users       map[string]models.UserRef `json:"users,omitempty"`
}

// OweEntry is one debt of the viewer in a personal view.
type OweEntry struct {
	To     string         `json:"to"`
	Amount currency.Cents `json:"amount"`
}

// OwedByEntry is one debt owed to the viewer in a personal view.
type OwedByEntry struct {
	From   string         `json:"from"`
	Amount currency.Cents `json:"amount"`
}

// PersonalView is the "my balance + who-I-owe / who-owes-me" projection.
type PersonalView struct {
	NetBalance currency.Cents `json:"netBalance"`
	Owes       []OweEntry     `json:"owes"`
	OwedBy     []OwedByEntry  `json:"owedBy"`
}

// NewGlobalView assembles the global projection from aggregated balances
// and the optimizer's transfer list.
func NewGlobalView(balances map[string]currency.Cents, settlements []Transfer) GlobalView {
	if settlements == nil {
		settlements = []Transfer{}
	}
	return GlobalView{Balances: balances, Settlements: settlements}
}

// Personal projects the view for one user by filtering the global
// settlement list. It deliberately never re-runs the optimizer, so personal
// and global views are always mutually consistent.
func (v GlobalView) Personal(viewer string) PersonalView {
	pv := PersonalView{
		NetBalance: v.Balances[viewer],
		Owes:       []OweEntry{},
		OwedBy:     []OwedByEntry{},
	}
	for _, t := range v.Settlements {
		switch viewer {
		case t.From:
			pv.Owes = append(pv.Owes, OweEntry{To: t.To, Amount: t.Amount})
		case t.To:
			pv.OwedBy = append(pv.OwedBy, OwedByEntry{From: t.From, Amount: t.Amount})
		}
	}
	return pv
}
