package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrNilMeter is returned when a metrics set is built without a meter
var ErrNilMeter = errors.New("telemetry: meter cannot be nil")

// VendorMetrics records vendor catalog lookups. It satisfies the lookup
// metrics port of the catalog service.
type VendorMetrics struct {
	logger *zap.Logger

	requestsTotal     *Counter
	fallbacksTotal    *Counter
	requestDuration   *Histogram
	productsReturned  *Histogram
	configuredVendors *Gauge
}

// VendorMetricsConfig holds configuration for vendor metrics.
type VendorMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewVendorMetrics creates the vendor catalog instruments.
func NewVendorMetrics(cfg VendorMetricsConfig) (*VendorMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrNilMeter
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	requestsTotal, err := NewCounter(cfg.Meter,
		"vendor_catalog_requests_total",
		"Total number of vendor catalog lookups by outcome",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	fallbacksTotal, err := NewCounter(cfg.Meter,
		"vendor_catalog_fallbacks_total",
		"Number of searches that fell back from style to brand lookup",
		"{fallback}",
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "vendor_catalog_request_duration_seconds",
		Description: "Vendor catalog lookup latency in seconds",
		Unit:        "s",
		Boundaries:  VendorDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	productsReturned, err := NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "vendor_catalog_products_returned",
		Description: "Number of aggregated products per lookup",
		Unit:        "{product}",
		Boundaries:  ProductCountBuckets,
	})
	if err != nil {
		return nil, err
	}

	configuredVendors, err := NewGauge(cfg.Meter,
		"vendor_catalog_configured_vendors",
		"Number of vendor connections configured at startup",
		"{vendor}",
	)
	if err != nil {
		return nil, err
	}

	return &VendorMetrics{
		logger:            logger,
		requestsTotal:     requestsTotal,
		fallbacksTotal:    fallbacksTotal,
		requestDuration:   requestDuration,
		productsReturned:  productsReturned,
		configuredVendors: configuredVendors,
	}, nil
}

// Outcome values that change what RecordLookup observes
const (
	lookupOutcomeError    = "error"
	lookupOutcomeCacheHit = "cache_hit"
)

// RecordLookup records one lookup with its outcome, latency and result size.
// Cache hits are only counted; failed lookups have no result size.
func (m *VendorMetrics) RecordLookup(
	ctx context.Context,
	vendor vendorcatalog.VendorCode,
	op vendorcatalog.Operation,
	outcome string,
	duration time.Duration,
	products int,
) {
	base := []attribute.KeyValue{
		AttrVendor.String(vendor.String()),
		AttrOperation.String(op.String()),
	}

	m.requestsTotal.Inc(ctx, append(base, AttrOutcome.String(outcome))...)
	if outcome == lookupOutcomeCacheHit {
		return
	}
	m.requestDuration.RecordDuration(ctx, duration, base...)
	if outcome != lookupOutcomeError {
		m.productsReturned.Record(ctx, float64(products), base...)
	}
}

// RecordFallback counts a style lookup that fell through to a brand lookup.
func (m *VendorMetrics) RecordFallback(ctx context.Context, vendor vendorcatalog.VendorCode, reason string) {
	m.fallbacksTotal.Inc(ctx,
		AttrVendor.String(vendor.String()),
		AttrReason.String(reason),
	)
}

// RecordConfiguredVendors records how many vendors were registered.
func (m *VendorMetrics) RecordConfiguredVendors(ctx context.Context, count int) {
	m.configuredVendors.Record(ctx, int64(count))
	m.logger.Debug("Configured vendor count recorded", zap.Int("count", count))
}
