package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

// errorResponse is the JSON error envelope shared by every endpoint.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// businessRules are the workflow rejections, surfaced as 422 with their own
// error code so clients can tell a rule rejection from a malformed request.
var businessRules = []error{
	domain.ErrSelfApproval,
	domain.ErrInvalidTargetStatus,
	domain.ErrAlreadyInStatus,
	domain.ErrTerminalStatus,
	domain.ErrPastDeparture,
	domain.ErrDuplicateOrderCode,
}

// respondError maps a domain error to its HTTP response. Anything
// unrecognized is a storage or programming error: it is logged with context
// and surfaced as a bare 500 without leaking internal detail.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "travel request not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "you do not have access to this travel request")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", "the travel request was modified concurrently, retry")
	case businessRule(err) != nil:
		writeError(w, http.StatusUnprocessableEntity, "business_rule", businessRule(err).Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	default:
		slog.ErrorContext(r.Context(), "internal error",
			"op", op,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// businessRule returns the matching workflow sentinel, or nil. Reporting the
// sentinel's own text keeps wrapping prefixes out of client-facing messages.
func businessRule(err error) error {
	for _, rule := range businessRules {
		if errors.Is(err, rule) {
			return rule
		}
	}
	return nil
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.TravelRequestService.Create: validation error:
// destination is required" → "destination is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": validation error: "); i >= 0 {
		return msg[i+len(": validation error: "):]
	}
	return strings.TrimPrefix(msg, "validation error: ")
}
