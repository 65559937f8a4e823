package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks map[string]Check) *gin.Engine {
	h := NewHealth(checks)
	r := gin.New()
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	return r
}

func TestHealth(t *testing.T) {
	t.Parallel()

	down := map[string]Check{"db": func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name       string
		method     string
		checks     map[string]Check
		wantStatus int
		wantBody   string
	}{
		{"GET without checks", http.MethodGet, nil, http.StatusOK, "ok"},
		{"GET with passing check", http.MethodGet, map[string]Check{"db": func(context.Context) error { return nil }}, http.StatusOK, "ok"},
		{"GET with failing check", http.MethodGet, down, http.StatusServiceUnavailable, "unavailable"},
		{"HEAD skips checks", http.MethodHead, down, http.StatusOK, ""},
		{"OPTIONS skips checks", http.MethodOptions, down, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.checks).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.wantBody == "" {
				assert.Empty(t, w.Body.String())
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["status"])
		})
	}
}

func TestHealth_ReportsFailedDependency(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	setupRouter(map[string]Check{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("i/o timeout") },
	}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body struct {
		Failed map[string]string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"redis": "i/o timeout"}, body.Failed)
}
