package api

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/splitsync/splitsync/internal/currency"
	"github.com/splitsync/splitsync/internal/models"
)

// decode strictly parses a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// userResponse is the public shape of a user account.
type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedBy string   `json:"createdBy"`
	CreatedAt int64    `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return groupResponse{
		ID: g.ID, Name: g.Name, Members: members,
		CreatedBy: g.CreatedBy, CreatedAt: g.CreatedAt,
	}
}

func toGroupResponses(groups []*models.Group) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	return out
}

// percentSplit mirrors the frontend's percentage form rows.
type percentSplit struct {
	UserID     string          `json:"userId"`
	Percentage decimal.Decimal `json:"percentage"`
}

// expenseRequest is the create/update payload for an expense.
type expenseRequest struct {
	Description      string         `json:"description"`
	Amount           currency.Cents `json:"amount"`
	PaidBy           string         `json:"paidBy"`
	Participants     []string       `json:"participants"`
	SplitType        string         `json:"splitType"`
	PercentageSplits []percentSplit `json:"percentageSplits,omitempty"`
	GroupID          string         `json:"groupId,omitempty"`
	Category         string         `json:"category,omitempty"`
}

func (req expenseRequest) toModel() *models.Expense {
	e := &models.Expense{
		Description:  req.Description,
		Amount:       req.Amount,
		PaidBy:       req.PaidBy,
		Participants: req.Participants,
		Split:        models.SplitPolicy(req.SplitType),
		GroupID:      req.GroupID,
		Category:     req.Category,
	}
	if e.Split == "" {
		e.Split = models.SplitEqual
	}
	for _, ps := range req.PercentageSplits {
		e.PercentShares = append(e.PercentShares, models.PercentShare{
			UserID:  ps.UserID,
			Percent: ps.Percentage,
		})
	}
	return e
}

type expenseResponse struct {
	ID               string         `json:"id"`
	Description      string         `json:"description"`
	Amount           currency.Cents `json:"amount"`
	PaidBy           string         `json:"paidBy"`
	Participants     []string       `json:"participants"`
	SplitType        string         `json:"splitType"`
	PercentageSplits []percentSplit `json:"percentageSplits,omitempty"`
	GroupID          string         `json:"groupId,omitempty"`
	Category         string         `json:"category,omitempty"`
	CreatedAt        int64          `json:"createdAt"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	resp := expenseResponse{
		ID:           e.ID,
		Description:  e.Description,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		Participants: e.Participants,
		SplitType:    string(e.Split),
		GroupID:      e.GroupID,
		Category:     e.Category,
		CreatedAt:    e.CreatedAt,
	}
	for _, ps := range e.PercentShares {
		resp.PercentageSplits = append(resp.PercentageSplits, percentSplit{
			UserID:     ps.UserID,
			Percentage: ps.Percent,
		})
	}
	return resp
}

func toExpenseResponses(expenses []*models.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	return out
}

type splitLineResponse struct {
	UserID string         `json:"userId"`
	Owed   currency.Cents `json:"owed"`
}

type paymentRequest struct {
	From    string         `json:"from"`
	To      string         `json:"to"`
	Amount  currency.Cents `json:"amount"`
	GroupID string         `json:"groupId,omitempty"`
	Note    string         `json:"note,omitempty"`
}

type paymentResponse struct {
	ID        string         `json:"id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	Amount    currency.Cents `json:"amount"`
	GroupID   string         `json:"groupId,omitempty"`
	Note      string         `json:"note,omitempty"`
	CreatedAt int64          `json:"createdAt"`
	CreatedBy string         `json:"createdBy"`
}

func toPaymentResponse(p *models.SettlementPayment) paymentResponse {
	return paymentResponse{
		ID: p.ID, From: p.FromUserID, To: p.ToUserID, Amount: p.Amount,
		GroupID: p.GroupID, Note: p.Note, CreatedAt: p.CreatedAt, CreatedBy: p.CreatedBy,
	}
}

func toPaymentResponses(payments []*models.SettlementPayment) []paymentResponse {
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	return out
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}
