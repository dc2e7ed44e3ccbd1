package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/promoerp/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
}

func TestProfilingMiddleware_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	router.GET("/api/v1/vendor-catalog/:vendor/search", func(c *gin.Context) {
		_, ok := pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/vendor-catalog/sanmar/search", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingMiddleware_ExtractsLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	got := map[string]string{}
	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	router.GET("/api/v1/vendor-catalog/:vendor/styles/:style", func(c *gin.Context) {
		ctx := c.Request.Context()
		for _, key := range []string{
			telemetry.ProfilingLabelController,
			telemetry.ProfilingLabelRoute,
			telemetry.ProfilingLabelMethod,
			telemetry.ProfilingLabelVendor,
		} {
			if v, ok := pprof.Label(ctx, key); ok {
				got[key] = v
			}
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/vendor-catalog/sanmar/styles/PC54", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		telemetry.ProfilingLabelController: "vendor-catalog",
		telemetry.ProfilingLabelRoute:      "/api/v1/vendor-catalog/:vendor/styles/:style",
		telemetry.ProfilingLabelMethod:     http.MethodGet,
		telemetry.ProfilingLabelVendor:     "SANMAR",
	}, got)
}

func TestProfilingMiddleware_SkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	router.GET("/health", func(c *gin.Context) {
		_, ok := pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		assert.False(t, ok, "health checks are not labelled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/vendor-catalog/:vendor/search", "vendor-catalog"},
		{"/api/v2/vendor-catalog/vendors", "vendor-catalog"},
		{"/health", "health"},
		{"/:id", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, extractControllerFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vendor-catalog"))
	assert.False(t, isVersionSegment("1"))
}
