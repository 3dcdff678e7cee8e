package middleware

import (
	"log/slog"
	"net/http"

	"petchat/backend/internal/ratelimit"
)

// RateLimit enforces the injected fixed-window limiter per caller address.
// A denied request is logged with the RATE_LIMIT tag and answered with 429;
// it never reaches the pipeline.
func RateLimit(limiter *ratelimit.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := ClientAddr(r)
		if !limiter.Allow(addr) {
			slog.Info("RATE_LIMIT", "ip", addr, "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"error":"Rate limit exceeded. Try again in a minute."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
