package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitsync/splitsync/internal/api/httpx"
	"github.com/splitsync/splitsync/internal/middleware"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/service"
)

type balanceHandler struct {
	balances    *service.BalanceService
	settlements *service.SettlementService
}

// getBalances serves both projections: without a userId query parameter it
// returns the global view (everyone's balances plus the settlement plan);
// with one it returns that user's personal view derived from the same
// plan. groupId, startDate and endDate narrow the ledger either way.
func (h *balanceHandler) getBalances(w http.ResponseWriter, r *http.Request) {
	filter, err := expenseFilterFromQuery(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := service.BalanceQuery{
		UserID:    filter.UserID,
		GroupID:   filter.GroupID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	}

	if q.UserID == "" {
		view, err := h.balances.Global(r.Context(), q)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		httpx.WriteData(w, http.StatusOK, view)
		return
	}

	view, err := h.balances.Personal(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, view)
}

func (h *balanceHandler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment, err := h.settlements.Record(r.Context(), middleware.UserID(r.Context()), &models.SettlementPayment{
		FromUserID: req.From,
		ToUserID:   req.To,
		Amount:     req.Amount,
		GroupID:    req.GroupID,
		Note:       req.Note,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, toPaymentResponse(payment))
}

func (h *balanceHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	filter, err := expenseFilterFromQuery(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := h.settlements.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := toPaymentResponses(payments)
	httpx.WriteList(w, http.StatusOK, out, len(out))
}

func (h *balanceHandler) deletePayment(w http.ResponseWriter, r *http.Request) {
	err := h.settlements.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
}
