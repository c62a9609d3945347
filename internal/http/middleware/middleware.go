// Package middleware holds the handler wrappers applied around the
// router: request logging, CORS for the browser UI, and the auth gate.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"student-records/internal/utils/response"
)

// Logging logs one line per completed request: method, path, status,
// duration.
func Logging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

// statusRecorder captures the status code a handler writes, since
// http.ResponseWriter offers no way to read it back.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AuthGate requires the named cookie to be present on every request it
// wraps. Presence only: the cookie's value is never inspected, let alone
// verified. This is an access gate for the UI flow, not a security
// boundary — a missing cookie means the user skipped the login page.
func AuthGate(cookieName string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(cookieName); err != nil {
			response.WriteJSON(w, http.StatusUnauthorized,
				response.Message("Authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORS emits the allow headers for whitelisted origins and answers
// pre-flight OPTIONS requests. An empty whitelist disables it entirely.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		_, ok := allowed[origin]
		if !ok {
			_, ok = allowed["*"]
		}
		if origin == "" || !ok {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
