package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lorrc/home-services-backend/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionClaimsKey is the key used to store demo session claims in the
// request context.
const SessionClaimsKey contextKey = "sessionClaims"

// JWTMiddleware validates the demo session token from the Authorization
// header. Routes behind it serve only the business the token is scoped to.
func JWTMiddleware(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Authorization header format must be Bearer {token}", http.StatusUnauthorized)
				return
			}

			tokenString := parts[1]
			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			// Add the claims to the context for downstream handlers to use.
			ctx := context.WithValue(r.Context(), SessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionClaims retrieves validated demo session claims from the request
// context. The second return value is false outside JWTMiddleware.
func GetSessionClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(SessionClaimsKey).(*auth.Claims)
	return claims, ok
}
