// internal/middleware/admin_jwt.go
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"benchreport/internal/util"
)

// AdminJWTAuth accepts requests carrying an HS256 bearer token signed with
// secret and holding the admin role. An empty secret rejects everything.
func AdminJWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				util.WriteError(w, util.Unavailable("admin jwt not configured"))
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				util.WriteError(w, util.Unauthorized("missing token"))
				return
			}
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid || claims["role"] != "admin" {
				util.WriteError(w, util.Unauthorized("invalid token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GenerateAdminToken signs an admin token for user expiring at exp.
func GenerateAdminToken(secret, user string, exp time.Time) (string, int64, error) {
	claims := jwt.MapClaims{
		"user": user,
		"exp":  exp.Unix(),
		"role": "admin",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	return signed, exp.Unix(), err
}
