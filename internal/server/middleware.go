package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"monochrome/internal/auth"
	"monochrome/internal/ui"
)

type ctxKey int

const userKey ctxKey = iota

// userFrom returns the authenticated identity placed by authMiddleware
func userFrom(ctx context.Context) string {
	id, _ := ctx.Value(userKey).(string)
	return id
}

// corsMiddleware answers preflights and tags responses with the allowed
// origin. An empty origin disables the headers.
func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedOrigin != "" {
				origin := r.Header.Get("Origin")
				switch {
				case allowedOrigin == "*":
					w.Header().Set("Access-Control-Allow-Origin", "*")
				case origin == allowedOrigin:
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authMiddleware checks the caller's address, Basic credentials and rate
// limit, then stores the user identity in the request context.
func authMiddleware(users *auth.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !users.CheckIPAllowed(r.RemoteAddr) {
				MetricAuthFailures.WithLabelValues("ip").Inc()
				ui.LogStatus("warn", "Address not allowed: "+r.RemoteAddr)
				writeError(w, http.StatusForbidden, "address not allowed")
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				MetricAuthFailures.WithLabelValues("missing").Inc()
				w.Header().Set("WWW-Authenticate", `Basic realm="monochrome"`)
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			user, valid := users.ValidateCredentials(username, password)
			if !valid {
				MetricAuthFailures.WithLabelValues("credentials").Inc()
				ui.LogStatus("warn", "Invalid credentials for user: "+username)
				w.Header().Set("WWW-Authenticate", `Basic realm="monochrome"`)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}

			if !users.CheckRateLimit(user.Username) {
				MetricAuthFailures.WithLabelValues("rate_limit").Inc()
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user.ID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestLogger records one log line, the request metrics and stats per call
func requestLogger(stats *Stats) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			elapsed := time.Since(start)
			MetricRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
			MetricRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
			stats.Record(r.Method, status)

			user := ""
			if u, _, ok := r.BasicAuth(); ok {
				user = u
			}
			ui.LogRequest(r.Method, r.URL.Path, user, status, elapsed)
		})
	}
}
