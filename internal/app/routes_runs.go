// internal/app/routes_runs.go
package app

import (
	"github.com/go-chi/chi/v5"

	hh "benchreport/internal/handlers/http"
	"benchreport/internal/middleware"
)

// RegisterRunRouters mounts the archive endpoints under /api/runs.
// Writes need an admin bearer token signed with jwtSecret.
func RegisterRunRouters(r chi.Router, jwtSecret string) {
	r.Route("/api/runs", func(cr chi.Router) {
		cr.Get("/", hh.ListRunsHandler)
		cr.Get("/{id}", hh.GetRunHandler)
		cr.With(middleware.AdminJWTAuth(jwtSecret)).Post("/", hh.CreateRunHandler)
		cr.Options("/", hh.PreflightHandler)
		cr.Options("/*", hh.PreflightHandler)
	})
}
