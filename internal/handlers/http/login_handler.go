// internal/handlers/http/login_handler.go
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"benchreport/internal/middleware"
	"benchreport/internal/util"
)

// AdminCreds holds the single admin account allowed to archive runs.
type AdminCreds struct {
	User      string
	PassHash  string // bcrypt
	JWTSecret string
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // epoch seconds
	User      string `json:"user"`
	Role      string `json:"role"`
}

func NewLoginHandler(creds AdminCreds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in loginReq
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			util.WriteError(w, util.BadInput("bad json"))
			return
		}
		if creds.User == "" || creds.PassHash == "" || creds.JWTSecret == "" {
			util.WriteError(w, util.Unavailable("admin not configured"))
			return
		}
		if in.Username != creds.User {
			util.WriteError(w, util.Unauthorized("invalid credentials"))
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(creds.PassHash), []byte(in.Password)) != nil {
			util.WriteError(w, util.Unauthorized("invalid credentials"))
			return
		}

		token, exp, err := middleware.GenerateAdminToken(creds.JWTSecret, creds.User, clock.Now().Add(24*time.Hour))
		if err != nil {
			util.WriteError(w, util.Internal("token error"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(loginResp{
			Token:     token,
			ExpiresAt: exp,
			User:      creds.User,
			Role:      "admin",
		})
	}
}
