package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAdminJWTAuth(t *testing.T) {
	const secret = "s3cret"
	valid, _, err := GenerateAdminToken(secret, "admin", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	expired, _, _ := GenerateAdminToken(secret, "admin", time.Now().Add(-time.Hour))
	foreign, _, _ := GenerateAdminToken("other", "admin", time.Now().Add(time.Hour))

	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"valid", secret, "Bearer " + valid, http.StatusOK},
		{"missing", secret, "", http.StatusUnauthorized},
		{"expired", secret, "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", secret, "Bearer " + foreign, http.StatusUnauthorized},
		{"not configured", "", "Bearer " + valid, http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/runs", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		rec := httptest.NewRecorder()
		AdminJWTAuth(c.secret)(okHandler).ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Fatalf("%s: status %d, want %d", c.name, rec.Code, c.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("generated id %q, header %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc" || rec.Header().Get("X-Request-ID") != "abc" {
		t.Fatalf("incoming id not kept: %q", seen)
	}
}
