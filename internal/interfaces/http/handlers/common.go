// Package handlers implements the HTTP endpoints: service info, health
// probes, the discovery search, and the credential pool views.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// writeJSON writes data as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a structured error response with an explicit status.
func writeError(w http.ResponseWriter, statusCode int, code errors.ErrorCode, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Code:    string(code),
		Message: message,
	})
}

// writeAppError maps an application error to its HTTP status via the error
// code taxonomy.  Server-side details stay in the logs; the body only carries
// the code's canonical message.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := errors.DefaultMessageForCode(code)
	if errors.IsClientError(code) {
		// Client mistakes get the concrete reason.
		message = err.Error()
	}
	writeError(w, status, code, message)
}
