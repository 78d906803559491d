package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"focolare/internal/auth"
	"focolare/internal/core"
	"focolare/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Absent entities and
// forbidden ones stay distinct: 404 and 403 respectively.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, core.ErrGroupNotFound),
		errors.Is(err, core.ErrScheduleNotFound),
		errors.Is(err, core.ErrTransactionNotFound),
		errors.Is(err, core.ErrCategoryNotFound),
		errors.Is(err, core.ErrAssetSourceNotFound),
		errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrMembershipNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, core.ErrAccessDenied):
		status = http.StatusForbidden
		message = "access denied"
	case errors.Is(err, core.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrAlreadyMember):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, core.ErrGroupFull):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", core.ErrInvalidInput, err)
	}
	return nil
}
