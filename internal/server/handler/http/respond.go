// Package http provides HTTP handlers for authentication, notes, and
// notebooks.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/notely/notely/internal/noteerr"
)

// errorResponse is the wire shape of every failure: a taxonomy kind
// and a human-readable message.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a taxonomy error onto an HTTP status and a
// structured body. Unrecognized errors are treated as internal: logged
// with full detail, returned with a generic message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, noteerr.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, noteerr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, noteerr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, noteerr.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, noteerr.ErrConflict):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		message = "internal error"
		if logger != nil {
			logger.Error("internal error", zap.Error(err))
		}
	}

	writeJSON(w, status, errorResponse{Error: noteerr.Kind(err), Message: message})
}
