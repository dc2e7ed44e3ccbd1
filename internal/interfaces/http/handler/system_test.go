package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/promoerp/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("Vendor Catalog API", "1.0.0")
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
	assert.Empty(t, h.checks)
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("Vendor Catalog API", "1.0.0")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/system/info", nil)

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "Vendor Catalog API", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("Vendor Catalog API", "1.0.0")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/system/ping", nil)

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	data := resp.Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])
	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	assert.NoError(t, err)
}

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
		wantBody   string
		wantChecks map[string]any
	}{
		{
			name:       "no checks",
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
		},
		{
			name:       "all checks pass",
			checks:     map[string]HealthCheck{"cache": ok},
			wantStatus: http.StatusOK,
			wantBody:   "healthy",
			wantChecks: map[string]any{"cache": "ok"},
		},
		{
			name:       "failing check",
			checks:     map[string]HealthCheck{"cache": failing, "other": ok},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "unhealthy",
			wantChecks: map[string]any{"cache": "error", "other": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler("Vendor Catalog API", "1.0.0")
			for name, check := range tt.checks {
				h.AddCheck(name, check)
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

			h.Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			data := resp.Data.(map[string]any)
			assert.Equal(t, tt.wantBody, data["status"])
			if tt.wantChecks == nil {
				assert.NotContains(t, data, "checks")
				return
			}
			assert.Equal(t, tt.wantChecks, data["checks"])
		})
	}
}
