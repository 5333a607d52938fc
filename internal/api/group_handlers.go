package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitsync/splitsync/internal/api/httpx"
	"github.com/splitsync/splitsync/internal/api/validate"
	"github.com/splitsync/splitsync/internal/middleware"
	"github.com/splitsync/splitsync/internal/models"
	"github.com/splitsync/splitsync/internal/service"
)

type groupHandler struct {
	svc *service.GroupService
}

type groupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

func (h *groupHandler) create(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if e := validate.Required("name", req.Name); e != nil {
		writeServiceError(w, r, validate.Errs{*e})
		return
	}

	group, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), &models.Group{
		Name:    req.Name,
		Members: req.Members,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusCreated, toGroupResponse(group))
}

func (h *groupHandler) list(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := toGroupResponses(groups)
	httpx.WriteList(w, http.StatusOK, out, len(out))
}

func (h *groupHandler) get(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toGroupResponse(group))
}

func (h *groupHandler) update(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if e := validate.Required("name", req.Name); e != nil {
		writeServiceError(w, r, validate.Errs{*e})
		return
	}

	group, err := h.svc.Update(r.Context(), middleware.UserID(r.Context()), &models.Group{
		ID:   chi.URLParam(r, "id"),
		Name: req.Name,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toGroupResponse(group))
}

func (h *groupHandler) delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
}

type addMembersRequest struct {
	Members []string `json:"members"`
}

func (h *groupHandler) addMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if e := validate.NonEmpty("members", len(req.Members)); e != nil {
		writeServiceError(w, r, validate.Errs{*e})
		return
	}

	group, err := h.svc.AddMembers(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), req.Members)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toGroupResponse(group))
}

func (h *groupHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.RemoveMember(r.Context(),
		middleware.UserID(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, toGroupResponse(group))
}
