package api

import (
	"encoding/json"
	"net/http"
)

// Error is the body of every non-2xx response from the status API.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Machine-readable values for Error.Code.
const (
	ErrCodeBadRequest     = "bad_request"        // malformed device id or query
	ErrCodeNotFound       = "not_found"          // unknown route or device slot
	ErrCodeInternal       = "internal_error"     // registry failure or handler panic
	ErrCodeMethodNotAllow = "method_not_allowed" // the API is read-only
)

// writeJSON encodes v as the response body. Encoding errors are ignored:
// the status line has already been sent and the client may be gone.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{Status: status, Code: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
