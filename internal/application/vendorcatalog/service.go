package vendorcatalog

import (
	"context"
	"errors"
	"time"

	"github.com/promoerp/backend/internal/domain/vendorcatalog"
	"github.com/promoerp/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultBrandLimit caps brand lookups when nothing is configured
const DefaultBrandLimit = 50

// Lookup outcomes reported to LookupMetrics
const (
	OutcomeSuccess  = "success"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeCacheHit = "cache_hit"
)

// Config holds the catalog service settings
type Config struct {
	// DefaultBrandLimit is the maximum number of distinct styles a brand lookup materializes
	DefaultBrandLimit int
	// BrandLimits overrides DefaultBrandLimit per vendor
	BrandLimits map[vendorcatalog.VendorCode]int
	// CacheTTL is how long lookup results stay cached; 0 disables caching
	CacheTTL time.Duration
}

// BrandLimitFor returns the brand lookup cap for a vendor
func (c Config) BrandLimitFor(vendor vendorcatalog.VendorCode) int {
	if limit, ok := c.BrandLimits[vendor]; ok && limit > 0 {
		return limit
	}
	if c.DefaultBrandLimit > 0 {
		return c.DefaultBrandLimit
	}
	return DefaultBrandLimit
}

// LookupMetrics records vendor lookup measurements
type LookupMetrics interface {
	RecordLookup(ctx context.Context, vendor vendorcatalog.VendorCode, op vendorcatalog.Operation, outcome string, duration time.Duration, products int)
	RecordFallback(ctx context.Context, vendor vendorcatalog.VendorCode, reason string)
}

// Option configures a CatalogService
type Option func(*CatalogService)

// WithConfig sets the service configuration
func WithConfig(cfg Config) Option {
	return func(s *CatalogService) {
		s.config = cfg
	}
}

// WithCache enables the advisory result cache
func WithCache(cache ResultCache) Option {
	return func(s *CatalogService) {
		s.cache = cache
	}
}

// WithMetrics sets the lookup metrics recorder
func WithMetrics(m LookupMetrics) Option {
	return func(s *CatalogService) {
		s.metrics = m
	}
}

// CatalogService answers catalog queries against configured vendors. It keeps
// no per-query state, so one instance serves concurrent requests.
type CatalogService struct {
	registry vendorcatalog.SourceRegistry
	cache    ResultCache
	metrics  LookupMetrics
	config   Config
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(registry vendorcatalog.SourceRegistry, logger *zap.Logger, opts ...Option) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CatalogService{
		registry: registry,
		config:   Config{DefaultBrandLimit: DefaultBrandLimit},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Query Operations
// ---------------------------------------------------------------------------

// Search runs a free-text query. Queries containing a digit are tried as a
// style code first and fall back to a brand lookup with the same text when
// the style lookup fails or finds nothing; other queries go straight to the
// brand lookup. Only the last attempted lookup's error is returned.
func (s *CatalogService) Search(
	ctx context.Context,
	vendor vendorcatalog.VendorCode,
	query string,
	creds vendorcatalog.Credentials,
) ([]vendorcatalog.ProductAggregate, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_catalog", "search")
	defer span.End()

	q, err := vendorcatalog.NormalizeQuery(query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	source, err := s.registry.Source(vendor)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	kind := vendorcatalog.ClassifyQuery(q)
	plan := vendorcatalog.PlanFor(kind)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrVendor, vendor.String(),
		telemetry.SpanAttrQuery, q,
		telemetry.SpanAttrQueryKind, kind.String(),
	)

	for i, op := range plan {
		products, err := s.lookup(ctx, source, op, q, creds, s.limitFor(vendor, op))
		if i == len(plan)-1 {
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
			telemetry.SetAttribute(span, telemetry.SpanAttrProductCount, len(products))
			return products, nil
		}

		if err != nil {
			s.logger.Warn("Primary vendor lookup failed, falling back",
				zap.String("vendor", vendor.String()),
				zap.String("operation", op.String()),
				zap.String("query", q),
				zap.Error(err),
			)
			telemetry.AddEvent(span, "primary_lookup_failed",
				"operation", op.String(),
				"error", err.Error(),
			)
			reason := "error"
			if !vendorcatalog.IsVendorFailure(err) {
				reason = "unsupported"
			}
			s.recordFallback(ctx, vendor, reason)
			continue
		}
		if len(products) == 0 {
			s.logger.Debug("Primary vendor lookup empty, falling back",
				zap.String("vendor", vendor.String()),
				zap.String("operation", op.String()),
				zap.String("query", q),
			)
			s.recordFallback(ctx, vendor, "empty")
			continue
		}

		telemetry.SetAttribute(span, telemetry.SpanAttrProductCount, len(products))
		return products, nil
	}

	return []vendorcatalog.ProductAggregate{}, nil
}

// LookupByStyle looks a style code up directly. The result is unbounded and
// errors are returned as-is.
func (s *CatalogService) LookupByStyle(
	ctx context.Context,
	vendor vendorcatalog.VendorCode,
	styleCode string,
	creds vendorcatalog.Credentials,
) ([]vendorcatalog.ProductAggregate, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_catalog", "lookup_by_style")
	defer span.End()

	q, err := vendorcatalog.NormalizeQuery(styleCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	source, err := s.registry.Source(vendor)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	products, err := s.lookup(ctx, source, vendorcatalog.OperationStyleLookup, q, creds, 0)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return products, nil
}

// LookupByBrand looks a brand up directly, materializing at most maxProducts
// styles. maxProducts <= 0 uses the configured limit for the vendor.
func (s *CatalogService) LookupByBrand(
	ctx context.Context,
	vendor vendorcatalog.VendorCode,
	brandName string,
	creds vendorcatalog.Credentials,
	maxProducts int,
) ([]vendorcatalog.ProductAggregate, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_catalog", "lookup_by_brand")
	defer span.End()

	q, err := vendorcatalog.NormalizeQuery(brandName)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	source, err := s.registry.Source(vendor)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if maxProducts <= 0 {
		maxProducts = s.config.BrandLimitFor(vendor)
	}

	products, err := s.lookup(ctx, source, vendorcatalog.OperationBrandLookup, q, creds, maxProducts)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return products, nil
}

// Vendors lists the configured vendors
func (s *CatalogService) Vendors() []vendorcatalog.VendorCode {
	return s.registry.Vendors()
}

// Credentials returns the configured credentials of a vendor connection
func (s *CatalogService) Credentials(vendor vendorcatalog.VendorCode) (vendorcatalog.Credentials, error) {
	return s.registry.Credentials(vendor)
}

// ---------------------------------------------------------------------------
// Internal
// ---------------------------------------------------------------------------

// limitFor returns the aggregation bound of one plan step
func (s *CatalogService) limitFor(vendor vendorcatalog.VendorCode, op vendorcatalog.Operation) int {
	if op == vendorcatalog.OperationBrandLookup {
		return s.config.BrandLimitFor(vendor)
	}
	return 0
}

// lookup performs one vendor call and aggregates its records
func (s *CatalogService) lookup(
	ctx context.Context,
	source vendorcatalog.CatalogSource,
	op vendorcatalog.Operation,
	query string,
	creds vendorcatalog.Credentials,
	limit int,
) ([]vendorcatalog.ProductAggregate, error) {
	vendor := source.Vendor()
	ctx, span := telemetry.StartServiceSpan(ctx, "vendor_catalog", "lookup",
		telemetry.WithAttribute(telemetry.SpanAttrVendor, vendor.String()),
		telemetry.WithAttribute(telemetry.SpanAttrOperation, op.String()),
		telemetry.WithAttribute(telemetry.SpanAttrLimit, limit),
	)
	defer span.End()

	key := CacheKey(vendor, creds.AccountID(), op, query, limit)
	if cached, ok := s.cacheGet(ctx, key); ok {
		telemetry.SetAttribute(span, telemetry.SpanAttrCacheHit, true)
		s.recordLookup(ctx, vendor, op, OutcomeCacheHit, 0, len(cached))
		return cached, nil
	}

	start := time.Now()
	var records []vendorcatalog.VariantRecord
	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.VendorOperationLabels(vendor.String(), op.String()), func(c context.Context) {
		records, err = source.Fetch(c, op, query, creds)
	})
	elapsed := time.Since(start)
	if err != nil {
		telemetry.RecordError(span, err)
		s.recordLookup(ctx, vendor, op, OutcomeError, elapsed, 0)
		return nil, err
	}

	aggregator := vendorcatalog.NewAggregator(vendor, source.FieldMap())
	products := aggregator.Aggregate(records, limit)

	telemetry.SetAttributes(span,
		"record_count", len(records),
		telemetry.SpanAttrProductCount, len(products),
	)

	outcome := OutcomeSuccess
	if len(products) == 0 {
		outcome = OutcomeEmpty
	}
	s.recordLookup(ctx, vendor, op, outcome, elapsed, len(products))

	s.logger.Debug("Vendor lookup complete",
		zap.String("vendor", vendor.String()),
		zap.String("operation", op.String()),
		zap.String("account", creds.Redacted()),
		zap.Int("records", len(records)),
		zap.Int("products", len(products)),
		zap.Duration("duration", elapsed),
	)

	if len(products) > 0 {
		s.cacheSet(ctx, key, products)
	}
	return products, nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string) ([]vendorcatalog.ProductAggregate, bool) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return nil, false
	}
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if !ok {
		return nil, false
	}
	products := make([]vendorcatalog.ProductAggregate, len(cached))
	for i, p := range cached {
		products[i] = p.ToDomain()
	}
	return products, true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, products []vendorcatalog.ProductAggregate) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, ToProductResponses(products), s.config.CacheTTL); err != nil {
		s.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) recordLookup(ctx context.Context, vendor vendorcatalog.VendorCode, op vendorcatalog.Operation, outcome string, d time.Duration, products int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordLookup(ctx, vendor, op, outcome, d, products)
}

func (s *CatalogService) recordFallback(ctx context.Context, vendor vendorcatalog.VendorCode, reason string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordFallback(ctx, vendor, reason)
}
