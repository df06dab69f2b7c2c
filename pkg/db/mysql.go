// pkg/db/mysql.go
// MySQL connection pool helper (database/sql)

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	log "k8s.io/klog/v2"
)

type Options struct {
	DSN         string
	MaxOpen     int
	MaxIdle     int
	PingRetries int
	RetryDelay  time.Duration
}

// Open opens the pool and pings it until it answers or retries run out.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
	if o.DSN == "" {
		return nil, fmt.Errorf("mysql: empty DSN")
	}
	dsn, err := normalizeDSN(o.DSN)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(o.MaxOpen)
	db.SetMaxIdleConns(o.MaxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if o.RetryDelay == 0 {
		o.RetryDelay = 3 * time.Second
	}
	var pingErr error
	for i := 0; i <= o.PingRetries; i++ {
		if pingErr = db.PingContext(ctx); pingErr == nil {
			return db, nil
		}
		log.Warningf("ping mysql failed (try %d): %v", i+1, pingErr)
		if i == o.PingRetries {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(o.RetryDelay):
		}
	}
	db.Close()
	return nil, fmt.Errorf("mysql not ready after %d tries: %w", o.PingRetries+1, pingErr)
}

// normalizeDSN turns on parseTime, which scanning DATETIME columns needs.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
