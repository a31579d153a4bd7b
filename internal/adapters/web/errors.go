package web

import (
	"encoding/json"
	"net/http"

	"payroll-ledger/internal/core"
	"payroll-ledger/internal/logger"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeStatusJSON(w, http.StatusOK, v)
}

// writeStatusJSON writes a JSON response with the given status.
func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusForKind maps an error kind to its HTTP status.
func statusForKind(kind core.ErrorKind) int {
	switch kind {
	case core.KindInvalidInput, core.KindReferenceNotFound:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindDuplicateKey, core.KindConflict:
		return http.StatusConflict
	case core.KindUnauthenticated, core.KindInvalidCredential, core.KindPrincipalNotFound:
		return http.StatusUnauthorized
	case core.KindForbidden:
		return http.StatusForbidden
	case core.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeServiceError translates a classified service error into a JSON response.
// Internal faults are logged and reported with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := core.KindOf(err)
	status := statusForKind(kind)

	msg := core.MessageOf(err)
	switch status {
	case http.StatusInternalServerError:
		logger.FromContext(r.Context()).Error().Err(err).Str("kind", string(kind)).Msg("internal error")
		msg = "internal server error"
	case http.StatusServiceUnavailable:
		logger.FromContext(r.Context()).Warn().Err(err).Msg("storage unavailable")
		w.Header().Set("Retry-After", "5")
		msg = "service temporarily unavailable"
	}
	writeError(w, r, msg, string(kind), status)
}
