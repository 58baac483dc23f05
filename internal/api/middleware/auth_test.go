package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	t.Run("accepts the configured key", func(t *testing.T) {
		handler := APIKeyAuth("secret-key")(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.Header.Set("Authorization", "Bearer secret-key")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a wrong key", func(t *testing.T) {
		handler := APIKeyAuth("secret-key")(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.Header.Set("Authorization", "Bearer wrong-key")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid api key")
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		handler := APIKeyAuth("secret-key")(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing authorization header")
	})

	t.Run("rejects a non-bearer scheme", func(t *testing.T) {
		handler := APIKeyAuth("secret-key")(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid authorization format")
	})

	t.Run("empty configured key disables the check", func(t *testing.T) {
		handler := APIKeyAuth("")(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
