package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/promoerp/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

func newTracedRouter(status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "test-service"})...)
	router.GET("/api/v1/vendor-catalog/:vendor/search", func(c *gin.Context) {
		c.JSON(status, gin.H{"success": status < http.StatusBadRequest})
	})
	return router
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.FailNow(t, "span not found", name)
	return nil
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false})...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracingWithConfig_Attributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendor-catalog/sanmar/search?q=PC54", nil)
	req.Header.Set(RequestIDHeader, "req-trace-1")
	w := httptest.NewRecorder()
	newTracedRouter(http.StatusOK).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	span := findSpan(t, sr, "GET /api/v1/vendor-catalog/:vendor/search")
	attrs := spanAttrs(span)
	assert.Equal(t, "req-trace-1", attrs["request_id"].AsString())
	assert.Equal(t, "SANMAR", attrs[attribute.Key(telemetry.SpanAttrVendor)].AsString())
	assert.NotEqual(t, codes.Error, span.Status().Code)
}

func TestTracingWithConfig_UnknownVendorNotRecorded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	w := httptest.NewRecorder()
	newTracedRouter(http.StatusNotFound).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/vendor-catalog/acme/search?q=x", nil))

	span := findSpan(t, sr, "GET /api/v1/vendor-catalog/:vendor/search")
	_, ok := spanAttrs(span)[attribute.Key(telemetry.SpanAttrVendor)]
	assert.False(t, ok)
}

func TestTracingWithConfig_ErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{"bad gateway", http.StatusBadGateway, true},
		{"bad request", http.StatusBadRequest, true},
		{"not found", http.StatusNotFound, true},
		{"ok", http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			sr := setupTestTracer(t)

			w := httptest.NewRecorder()
			newTracedRouter(tt.status).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/vendor-catalog/sanmar/search?q=x", nil))

			span := findSpan(t, sr, "GET /api/v1/vendor-catalog/:vendor/search")
			if tt.wantError {
				assert.Equal(t, codes.Error, span.Status().Code)
				assert.Equal(t, http.StatusText(tt.status), span.Status().Description)
			} else {
				assert.NotEqual(t, codes.Error, span.Status().Code)
			}
		})
	}
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "promoerp-backend", cfg.ServiceName)
}

func TestVendorFromPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		param  string
		want   string
		wantOK bool
	}{
		{"sanmar", "SANMAR", true},
		{"SSActivewear", "SSACTIVEWEAR", true},
		{"acme", "ACME", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{{Key: VendorParam, Value: tt.param}}

			vendor, ok := vendorFromPath(c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, vendor.String())
		})
	}
}
