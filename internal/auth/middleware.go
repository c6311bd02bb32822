package auth

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

type contextKey string

const emailKey contextKey = "auth.email"

// EmailFromContext returns the authenticated user's email, if any.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// rateLimiter tracks failed bearer token attempts per IP.
type rateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

var bearerLimiter = &rateLimiter{
	attempts: make(map[string][]time.Time),
}

const (
	rateLimitWindow  = 1 * time.Minute
	rateLimitMaxFail = 10
)

// recordFailure records a failed attempt and returns true if rate limited.
func (rl *rateLimiter) recordFailure(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rateLimitWindow)

	// Prune old entries
	valid := rl.attempts[ip][:0]
	for _, t := range rl.attempts[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	valid = append(valid, now)
	rl.attempts[ip] = valid

	return len(valid) > rateLimitMaxFail
}

// RequireBearer is middleware that validates Bearer auth for /api/ routes.
// Keys with the "rf_" prefix are checked against the API key store;
// anything else is verified as a signed access token. Public paths
// (/health, /auth/...) pass through untouched.
// Returns 401 for missing/invalid credentials, 429 for rate-limited IPs.
func RequireBearer(apiKeys *APIKeyStore, issuer *TokenIssuer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ip := r.RemoteAddr

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}

		raw := strings.TrimPrefix(authHeader, "Bearer ")

		// Check rate limit before validating
		if bearerLimiter.recordFailure(ip) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		var email string
		if strings.HasPrefix(raw, "rf_") {
			var err error
			email, err = apiKeys.Validate(raw)
			if err != nil {
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
			if email == "" {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}
		} else {
			var err error
			email, err = issuer.Verify(raw)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
		}

		ctx := context.WithValue(r.Context(), emailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isPublicPath(path string) bool {
	if path == "/health" {
		return true
	}
	return strings.HasPrefix(path, "/auth/")
}
