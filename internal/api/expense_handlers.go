package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/splitsync/splitsync/internal/api/httpx"
	"github.com/splitsync/splitsync/internal/api/validate"
	"github.com/splitsync/splitsync/internal/middleware"
	"github.com/splitsync/splitsync/internal/service"
	"github.com/splitsync/splitsync/internal/storage"
)

type expenseHandler struct {
	svc *service.ExpenseService
}

func (h *expenseHandler) validateRequest(req expenseRequest) validate.Errs {
	var errs validate.Errs
	for _, e := range []*validate.ErrField{
		validate.Required("description", req.Description),
		validate.Required("paidBy", req.PaidBy),
		validate.NonEmpty("participants", len(req.Participants)),
	} {
		if e != nil {
			errs = append(errs, *e)
		}
	}
	if req.Amount <= 0 {
		errs = append(errs, validate.ErrField{Field: "amount", Msg: "must be positive"})
	}
	return errs
}

func (h *expenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := h.validateRequest(req); len(errs) > 0 {
		writeServiceError(w, r, errs)
		return
	}

	expense, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), req.toModel())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *expenseHandler) get(w http.ResponseWriter, r *http.Request) {
	expense, err := h.svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *expenseHandler) update(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if errs := h.validateRequest(req); len(errs) > 0 {
		writeServiceError(w, r, errs)
		return
	}

	e := req.toModel()
	e.ID = chi.URLParam(r, "id")
	expense, err := h.svc.Update(r.Context(), middleware.UserID(r.Context()), e)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *expenseHandler) delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
}

func (h *expenseHandler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := expenseFilterFromQuery(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.UserID == "" {
		// Default to the caller's expenses rather than the whole ledger.
		filter.UserID = middleware.UserID(r.Context())
	}

	expenses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := toExpenseResponses(expenses)
	httpx.WriteList(w, http.StatusOK, out, len(out))
}

// preview runs the allocator without persisting, so clients can show the
// per-person breakdown while the form is being filled in.
func (h *expenseHandler) preview(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines, err := h.svc.Preview(req.toModel())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]splitLineResponse, 0, len(lines))
	for _, line := range lines {
		out = append(out, splitLineResponse{UserID: line.UserID, Owed: line.Owed})
	}
	httpx.WriteList(w, http.StatusOK, out, len(out))
}

// expenseFilterFromQuery reads the shared listing filters: userId, groupId,
// startDate, endDate. Dates accept Unix seconds or YYYY-MM-DD.
func expenseFilterFromQuery(r *http.Request) (storage.ExpenseFilter, error) {
	q := r.URL.Query()
	filter := storage.ExpenseFilter{
		UserID:  q.Get("userId"),
		GroupID: q.Get("groupId"),
	}

	var err error
	if filter.StartDate, err = parseDate(q.Get("startDate"), false); err != nil {
		return filter, err
	}
	filter.EndDate, err = parseDate(q.Get("endDate"), true)
	return filter, err
}

func parseDate(s string, endOfDay bool) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.Unix(), nil
}
