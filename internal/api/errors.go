package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitsync/splitsync/internal/api/httpx"
	"github.com/splitsync/splitsync/internal/api/validate"
	"github.com/splitsync/splitsync/internal/auth"
	"github.com/splitsync/splitsync/internal/ledger"
	"github.com/splitsync/splitsync/internal/service"
	"github.com/splitsync/splitsync/internal/storage"
)

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; the detail goes to the log
// only.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validate.Errs
	switch {
	case errors.As(err, &fieldErrs):
		httpx.WriteError(w, http.StatusBadRequest, fieldErrs.Error())
	case errors.Is(err, ledger.ErrInvalidSplit),
		errors.Is(err, ledger.ErrUnknownUser),
		errors.Is(err, service.ErrSelfPayment),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, auth.ErrWeakPassword):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrNotGroupCreator):
		httpx.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
