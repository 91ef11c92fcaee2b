package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/lorrc/home-services-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/home-services-backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMiddleware(t *testing.T) {
	tokenManager := auth.NewTokenManager("test-secret", time.Hour)

	newServer := func(t *testing.T) http.Handler {
		t.Helper()
		return mw.JWTMiddleware(tokenManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := mw.GetSessionClaims(r.Context())
			require.True(t, ok)
			assert.Equal(t, int64(42), claims.BusinessID)
			w.WriteHeader(http.StatusNoContent)
		}))
	}

	t.Run("accepts a valid bearer token", func(t *testing.T) {
		token, err := tokenManager.GenerateToken(42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		newServer(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		newServer(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		newServer(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		otherManager := auth.NewTokenManager("other-secret", time.Hour)
		token, err := otherManager.GenerateToken(42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		newServer(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetSessionClaims_OutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := mw.GetSessionClaims(req.Context())
	assert.False(t, ok)
}
