package httpapi

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUnexpected is spec.md §6's "Unexpected supervisor responses at
// any endpoint yield 500 with an 'Unexpected response' body" clause.
func writeUnexpected(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Unexpected response")
}
