// internal/config/config.go
// Loads configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	log "k8s.io/klog/v2"
)

type Config struct {
	AppName      string
	AppPort      string
	MaxBodyBytes int64

	MySQL struct {
		DSN         string
		Host        string
		Port        string
		DB          string
		User        string
		Password    string
		MaxOpen     int
		MaxIdle     int
		PingRetries int
	}

	Admin struct {
		User      string
		PassHash  string
		JWTSecret string
	}
}

func Load() *Config {
	c := &Config{}
	c.AppName = getEnv("APP_NAME", "benchreport")
	c.AppPort = getEnv("APP_PORT", "8080")
	c.MaxBodyBytes = int64(getEnvInt("MAX_BODY_BYTES", 8<<20))

	c.MySQL.DSN = getEnv("DB_DSN", "")
	c.MySQL.Host = getEnv("MYSQL_HOST", "")
	c.MySQL.Port = getEnv("MYSQL_PORT", "3306")
	c.MySQL.DB = getEnv("MYSQL_DB", "benchreport")
	c.MySQL.User = getEnv("MYSQL_USER", "root")
	c.MySQL.Password = getEnv("MYSQL_PASSWORD", "")
	c.MySQL.MaxOpen = getEnvInt("MYSQL_MAX_OPEN_CONNS", 10)
	c.MySQL.MaxIdle = getEnvInt("MYSQL_MAX_IDLE_CONNS", 5)
	c.MySQL.PingRetries = getEnvInt("DB_PING_RETRIES", 5)

	c.Admin.User = getEnv("ADMIN_USER", "")
	c.Admin.PassHash = getEnv("ADMIN_PASS_HASH", "")
	c.Admin.JWTSecret = getEnv("ADMIN_JWT_SECRET", "")

	if c.Admin.JWTSecret == "" {
		log.V(1).Info("ADMIN_JWT_SECRET is not set, archive writes over HTTP are disabled")
	}
	return c
}

// DSN returns DB_DSN if set, otherwise one built from the MYSQL_* pieces.
// Empty means no database is configured.
func (c *Config) DSN() string {
	if c.MySQL.DSN != "" {
		return c.MySQL.DSN
	}
	if c.MySQL.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.MySQL.User, c.MySQL.Password, c.MySQL.Host, c.MySQL.Port, c.MySQL.DB)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
		log.Warningf("invalid %s=%q, using %d", key, v, def)
	}
	return def
}
