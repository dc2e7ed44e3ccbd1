package telemetry_test

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/promoerp/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestWithProfilingLabels_EmptyLabels(t *testing.T) {
	called := false
	telemetry.WithProfilingLabels(context.Background(), nil, func(ctx context.Context) {
		called = true
		_, ok := pprof.Label(ctx, telemetry.ProfilingLabelVendor)
		assert.False(t, ok)
	})
	assert.True(t, called)
}

func TestWithProfilingLabels_AppliesLabels(t *testing.T) {
	labels := telemetry.VendorOperationLabels("SANMAR", "BRAND_LOOKUP")

	telemetry.WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		vendor, ok := pprof.Label(ctx, telemetry.ProfilingLabelVendor)
		assert.True(t, ok)
		assert.Equal(t, "SANMAR", vendor)

		op, ok := pprof.Label(ctx, telemetry.ProfilingLabelOperation)
		assert.True(t, ok)
		assert.Equal(t, "BRAND_LOOKUP", op)
	})
}

func TestWithProfilingLabels_Sanitizes(t *testing.T) {
	labels := map[string]string{
		"query":       "Port & Company",
		"request_id":  "abc",
		"Vendor-Tier": strings.Repeat("x", telemetry.MaxLabelValueLength+10),
		"empty":       "",
	}

	telemetry.WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		_, ok := pprof.Label(ctx, "query")
		assert.False(t, ok, "query text must not become a label")
		_, ok = pprof.Label(ctx, "request_id")
		assert.False(t, ok)
		_, ok = pprof.Label(ctx, "empty")
		assert.False(t, ok)

		tier, ok := pprof.Label(ctx, "vendor_tier")
		assert.True(t, ok)
		assert.Len(t, tier, telemetry.MaxLabelValueLength)
	})

	assert.Len(t, labels, 4, "caller map is not modified")
}

func TestHTTPRequestLabels(t *testing.T) {
	tests := []struct {
		name       string
		controller string
		route      string
		method     string
		want       map[string]string
	}{
		{
			name:       "all set",
			controller: "vendor_catalog",
			route:      "/api/v1/vendor-catalog/products",
			method:     "GET",
			want: map[string]string{
				telemetry.ProfilingLabelController: "vendor_catalog",
				telemetry.ProfilingLabelRoute:      "/api/v1/vendor-catalog/products",
				telemetry.ProfilingLabelMethod:     "GET",
			},
		},
		{
			name:   "empty values dropped",
			method: "GET",
			want:   map[string]string{telemetry.ProfilingLabelMethod: "GET"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, telemetry.HTTPRequestLabels(tt.controller, tt.route, tt.method))
		})
	}
}

func TestVendorOperationLabels_Empty(t *testing.T) {
	assert.Empty(t, telemetry.VendorOperationLabels("", ""))
	assert.Equal(t,
		map[string]string{telemetry.ProfilingLabelVendor: "SSACTIVEWEAR"},
		telemetry.VendorOperationLabels("SSACTIVEWEAR", ""),
	)
}
