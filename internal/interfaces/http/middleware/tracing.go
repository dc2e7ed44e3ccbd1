package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"github.com/promoerp/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// VendorParam is the route parameter naming the vendor
const VendorParam = "vendor"

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the otelgin server name.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "promoerp-backend",
		Enabled:     true,
	}
}

// TracingWithConfig returns otelgin followed by a handler that adds
// request_id and vendor attributes to the server span. The span is named
// "METHOD route", for example "GET /api/v1/vendor-catalog/:vendor/search".
// Responses with status >= 400 mark the span as failed.
//
//	engine.Use(middleware.TracingWithConfig(cfg)...)
func TracingWithConfig(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return gin.HandlersChain{func(c *gin.Context) {
			c.Next()
		}}
	}

	return gin.HandlersChain{
		otelgin.Middleware(cfg.ServiceName),
		spanEnricher(),
	}
}

// spanEnricher runs inside the otelgin span
func spanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		enrichSpan(c, span)
		c.Next()
		markSpanStatus(span, c.Writer.Status())
	}
}

// enrichSpan adds request attributes to the server span.
func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if vendor, ok := vendorFromPath(c); ok {
		span.SetAttributes(attribute.String(telemetry.SpanAttrVendor, vendor.String()))
	}
}

// markSpanStatus sets an error status for 4xx and 5xx responses.
func markSpanStatus(span trace.Span, statusCode int) {
	if statusCode < http.StatusBadRequest {
		return
	}
	span.SetStatus(codes.Error, http.StatusText(statusCode))
}

// vendorFromPath returns the vendor route parameter when it names a known
// vendor. Unknown values are never used as attributes or labels.
func vendorFromPath(c *gin.Context) (vendorcatalog.VendorCode, bool) {
	raw := c.Param(VendorParam)
	if raw == "" {
		return "", false
	}
	vendor := vendorcatalog.VendorCode(strings.ToUpper(raw))
	return vendor, vendor.IsValid()
}
