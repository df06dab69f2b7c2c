// internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "k8s.io/klog/v2"

	"benchreport/internal/config"
	hh "benchreport/internal/handlers/http"
	"benchreport/internal/middleware"
	mysqlrepo "benchreport/internal/repositories/mysql"
	"benchreport/pkg/db"
)

// App holds the main router and the archive connection, if any.
type App struct {
	Router *mux.Router
	DB     *sql.DB
}

// New opens the archive when a DSN is configured and registers all routes.
// A database that cannot be reached leaves the run endpoints disabled.
func New(ctx context.Context, cfg *config.Config) *App {
	a := &App{Router: mux.NewRouter()}
	a.Router.Use(middleware.RequestID)

	hh.SetMaxBodyBytes(cfg.MaxBodyBytes)
	hh.SetRunStore(nil)

	if dsn := cfg.DSN(); dsn != "" {
		conn, err := db.Open(ctx, db.Options{
			DSN:         dsn,
			MaxOpen:     cfg.MySQL.MaxOpen,
			MaxIdle:     cfg.MySQL.MaxIdle,
			PingRetries: cfg.MySQL.PingRetries,
		})
		if err != nil {
			log.Errorf("mysql not ready, run archive disabled: %v", err)
		} else {
			repo := &mysqlrepo.RunRepo{DB: conn}
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Warningf("ensure schema: %v", err)
			}
			a.DB = conn
			hh.SetRunStore(repo)
		}
	} else {
		log.Warning("DB_DSN/MYSQL_HOST empty; run archive disabled")
	}

	RegisterRoutesWithDeps(a.Router, RegisterDeps{Admin: hh.AdminCreds{
		User:      cfg.Admin.User,
		PassHash:  cfg.Admin.PassHash,
		JWTSecret: cfg.Admin.JWTSecret,
	}})
	return a
}

// Server wraps the router with the timeouts used in production.
func (a *App) Server(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      middleware.CORS(a.Router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
