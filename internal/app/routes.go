// internal/app/routes.go
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"

	hh "benchreport/internal/handlers/http"
)

type RegisterDeps struct {
	Admin hh.AdminCreds
}

// RegisterRoutes registers every route with an unconfigured admin account.
func RegisterRoutes(r *mux.Router) {
	RegisterRoutesWithDeps(r, RegisterDeps{})
}

// RegisterRoutesWithDeps adds the HTTP routes to r.
func RegisterRoutesWithDeps(r *mux.Router, deps RegisterDeps) {
	// --- no prefix ---
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.ReadyHandler).Methods(http.MethodGet)
	r.HandleFunc("/metrics", hh.MetricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", hh.NewLoginHandler(deps.Admin)).Methods(http.MethodPost, http.MethodOptions)

	// --- /api/runs is served by chi ---
	runs := chi.NewRouter()
	RegisterRunRouters(runs, deps.Admin.JWTSecret)
	r.Path("/api/runs").Handler(runs)
	r.PathPrefix("/api/runs/").Handler(runs)

	// --- /api prefix ---
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/report", hh.ReportHandler).Methods(http.MethodPost)

	// Preflight catch-all
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(hh.PreflightHandler)
}
