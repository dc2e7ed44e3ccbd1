// Package telemetry provides Pyroscope continuous profiling integration.
package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelVendor     = "vendor"
	ProfilingLabelOperation  = "operation"
)

// MaxLabelValueLength caps label values to keep profile cardinality bounded
const MaxLabelValueLength = 128

// HighCardinalityLabels are label keys dropped before tagging a profile.
// Query text is free-form user input and never becomes a label.
var HighCardinalityLabels = map[string]bool{
	"query":      true,
	"request_id": true,
	"trace_id":   true,
	"span_id":    true,
	"account_id": true,
}

// WithProfilingLabels runs fn with Pyroscope labels attached to its goroutine.
// The labels map is copied, so callers may reuse it.
//
//	telemetry.WithProfilingLabels(ctx, telemetry.VendorOperationLabels("SANMAR", "BRAND_LOOKUP"),
//	    func(c context.Context) {
//	        records, err = source.Fetch(c, op, query, creds)
//	    })
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(maps.Clone(labels))
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeLabels drops empty and high-cardinality labels, truncates long
// values and normalizes keys. Output is sorted by key.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if key == "" || value == "" || HighCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		sanitized := sanitizeLabelKey(key)
		if sanitized == "" {
			continue
		}
		pairs = append(pairs, sanitized, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases a key and keeps only [a-z0-9_]
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// HTTPRequestLabels creates labels for an HTTP handler invocation
func HTTPRequestLabels(controller, route, method string) map[string]string {
	labels := make(map[string]string, 3)
	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	return labels
}

// VendorOperationLabels creates labels for one outbound vendor lookup
func VendorOperationLabels(vendor, operation string) map[string]string {
	labels := make(map[string]string, 2)
	if vendor != "" {
		labels[ProfilingLabelVendor] = vendor
	}
	if operation != "" {
		labels[ProfilingLabelOperation] = operation
	}
	return labels
}
