package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
)

// errorResponse is the wire shape for every failure
type errorResponse struct {
	Error  string             `json:"error"`
	Fields domain.FieldErrors `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondFieldErrors reports every invalid field, not just the first
func respondFieldErrors(w http.ResponseWriter, fe domain.FieldErrors) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: fe.Error(), Fields: fe})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
