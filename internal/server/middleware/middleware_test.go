package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/servicesync/pkg/logging"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		header map[string]string
		status int
	}{
		{"header", "secret", map[string]string{"X-API-Key": "secret"}, http.StatusNoContent},
		{"bearer", "secret", map[string]string{"Authorization": "Bearer secret"}, http.StatusNoContent},
		{"wrong key", "secret", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"missing key", "secret", nil, http.StatusUnauthorized},
		{"no key configured", "", map[string]string{"X-API-Key": ""}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/import", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			RequireAPIKey("", tt.key)(okHandler).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	tl := logging.NewTestLogger(t)

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		Logger(tl.Logger)(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		w := httptest.NewRecorder()
		Logger(tl.Logger)(okHandler).ServeHTTP(w, req)
		assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	logger := logging.NewNopLogger()
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	w := httptest.NewRecorder()
	Chain(Recovery(logger))(panicking).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
