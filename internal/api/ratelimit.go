package api

import (
	"encoding/json/v2"
	"net/http"
	"strings"
	"time"

	"github.com/muralapp/mural-server/internal/config"
	"github.com/muralapp/mural-server/internal/ratelimit"
)

// NewWriteRateLimiter builds the per-client limiter for write endpoints
// from the configured per-minute budget.
func NewWriteRateLimiter(limits config.LimitsConfig) *ratelimit.KeyedRateLimiter {
	rps := float64(limits.WritesPerMinute) / time.Minute.Seconds()
	return ratelimit.New(rps, limits.WriteBurst)
}

// WriteRateLimitMiddleware rate limits mutating requests per client.
// Reads pass through untouched. Returns 429 when the limit is exceeded.
func WriteRateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger interface{ Warn(msg string, args ...any) }) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			key := clientKey(r)
			if !limiter.Allow(key) {
				logger.Warn("write rate limit exceeded",
					"client", key,
					"path", r.URL.Path,
				)
				writeTooManyRequests(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the client for rate limiting. Authenticated
// requests are keyed by their bearer token so one busy network doesn't
// starve everyone behind it; anonymous requests fall back to IP.
func clientKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return "token:" + parts[1]
		}
	}
	return "ip:" + getClientIP(r)
}

func writeTooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	body, _ := json.Marshal(&SimpleErrorEnvelope{
		V:       EnvelopeVersion,
		Success: false,
		Error:   "Too many requests. Please try again later.",
	})
	_, _ = w.Write(body)
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain.
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
