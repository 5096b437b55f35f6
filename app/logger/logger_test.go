package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	w := httptest.NewRecorder()
	middleware.RequestID(StructuredLogger(logger)(h)).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/parking/active", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestStructuredLogger(t *testing.T) {
	t.Run("Completed", func(t *testing.T) {
		entry := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		assert.Equal(t, "Request completed", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, float64(http.StatusTeapot), entry["status"])
		assert.Equal(t, "/api/parking/active", entry["path"])
		assert.NotEmpty(t, entry["req_id"])
		assert.NotContains(t, entry, "userID")
	})

	t.Run("FieldsFromHandler", func(t *testing.T) {
		entry := serve(t, func(w http.ResponseWriter, r *http.Request) {
			AddFields(r.Context(), slog.String("userID", "5f0c6f5e-0000-4000-8000-000000000001"))
		})
		assert.Equal(t, "5f0c6f5e-0000-4000-8000-000000000001", entry["userID"])
		assert.Equal(t, float64(http.StatusOK), entry["status"])
	})

	t.Run("UnauthorizedIsWarn", func(t *testing.T) {
		entry := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		assert.Equal(t, "WARN", entry["level"])
	})

	t.Run("ServerErrorIsError", func(t *testing.T) {
		entry := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		assert.Equal(t, "ERROR", entry["level"])
	})
}

func TestAddFieldsOutsideLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		AddFields(httptest.NewRequest(http.MethodGet, "/", nil).Context(), slog.String("k", "v"))
	})
}
