// Package httpapi is the HTTP facade the storefront UI consumes. It renders
// cart state, session, catalog and checkout over the underlying manager and
// gateways.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/GOSUGING/levelup-storefront-go/internal/middleware"
)

type errorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// writeAdvisory carries a machine-readable code so the UI can render the
// distinct out-of-stock / stock-exhausted / ceiling-reached messages.
func writeAdvisory(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:         msg,
		Code:          code,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}
