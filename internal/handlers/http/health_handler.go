// internal/handlers/http/health_handler.go
// Liveness and readiness checks

package http

import (
	"encoding/json"
	"net/http"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ReadyHandler also reports whether the run archive is wired.
func ReadyHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"archive": runStore != nil,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
