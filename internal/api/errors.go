// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"

	"github.com/forgebridge/forgebridge/internal/log"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(r *http.Request, msg string) map[string]string {
	body := map[string]string{"error": msg}
	if reqID := log.RequestIDFromContext(r.Context()); reqID != "" {
		body["requestId"] = reqID
	}
	return body
}

// writeUnauthorized writes a 401 Unauthorized response.
func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, errorBody(r, "unauthorized"))
}

// writeBadGateway writes a 502 Bad Gateway response.
func writeBadGateway(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusBadGateway, errorBody(r, "upstream error"))
}

// writeInternalError writes a 500 Internal Server Error response.
func writeInternalError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusInternalServerError, errorBody(r, "internal server error"))
}
