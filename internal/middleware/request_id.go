// middleware/request_id.go
// Injects X-Request-ID and logs each request at -v=2

package middleware

import (
	"context"
	"net/http"
	"time"

	log "k8s.io/klog/v2"

	"benchreport/internal/util"
)

type ctxKey struct{}

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = util.NewID()
			r.Header.Set("X-Request-ID", reqID)
		}
		w.Header().Set("X-Request-ID", reqID)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, reqID)))
		log.V(2).Infof("%s %s %s took %s", reqID, r.Method, r.URL.Path, time.Since(start))
	})
}

// RequestIDFrom returns the ID RequestID stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
