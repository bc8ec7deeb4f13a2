package middleware

import (
	"net"
	"net/http"

	"EventRegistration/internal/kv"
	"EventRegistration/internal/log"
)

// RateLimit counts requests per client IP and answers 429 once the limiter says no.
// Limiter errors let the request through.
func RateLimit(l kv.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, n, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.ErrorErr(log.CatAuth, "rate limiter unavailable", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				log.Warn(log.CatAuth, "login throttled", "ip", clientIP(r), "attempts", n)
				writeError(w, http.StatusTooManyRequests, "Too many login attempts, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is RemoteAddr without the port. chi's RealIP runs earlier and rewrites RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
