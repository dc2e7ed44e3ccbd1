package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/promoerp/backend/internal/application/vendorcatalog"
	"github.com/promoerp/backend/internal/infrastructure/cache"
	"github.com/promoerp/backend/internal/infrastructure/config"
	"github.com/promoerp/backend/internal/infrastructure/logger"
	"github.com/promoerp/backend/internal/infrastructure/telemetry"
	"github.com/promoerp/backend/internal/infrastructure/vendor"
	"github.com/promoerp/backend/internal/interfaces/http/handler"
	"github.com/promoerp/backend/internal/interfaces/http/middleware"
	"github.com/promoerp/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}

	// Bootstrap logger for telemetry setup; replaced once the OTEL log bridge exists
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log, err := logger.New(logCfg, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: loggerProvider,
		Level:          logger.ParseLevel(cfg.Log.Level),
	}))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to link spans to profiles", zap.Error(err))
		}
	}

	log.Info("Starting vendor catalog service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	registry, err := vendor.NewRegistryFromConfig(cfg.Vendors, log)
	if err != nil {
		log.Fatal("Failed to configure vendors", zap.Error(err))
	}

	vendorMetrics, err := telemetry.NewVendorMetrics(telemetry.VendorMetricsConfig{
		Meter:  meterProvider.Meter("vendor_catalog"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to create vendor metrics", zap.Error(err))
	}
	vendorMetrics.RecordConfiguredVendors(ctx, len(registry.Vendors()))

	serviceOpts := []catalogapp.Option{
		catalogapp.WithConfig(catalogapp.Config{
			DefaultBrandLimit: cfg.Catalog.DefaultBrandLimit,
			BrandLimits:       vendor.BrandLimitsFromConfig(cfg.Vendors),
			CacheTTL:          cfg.Catalog.CacheTTL,
		}),
		catalogapp.WithMetrics(vendorMetrics),
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	var resultCache cache.ClosableCache
	if cfg.Catalog.CacheEnabled {
		factory := cache.NewCatalogCacheFactory(cfg.Redis, cache.WithLogger(log))
		resultCache, err = factory.CreateCache(cfg.Catalog.CacheBackend)
		if err != nil {
			log.Fatal("Failed to create catalog cache", zap.Error(err))
		}
		serviceOpts = append(serviceOpts, catalogapp.WithCache(resultCache))

		if rc, ok := resultCache.(*cache.RedisCatalogCache); ok {
			systemHandler.AddCheck("cache", func(ctx context.Context) error {
				return rc.GetClient().Ping(ctx).Err()
			})
		}
		log.Info("Catalog cache enabled",
			zap.String("backend", cfg.Catalog.CacheBackend),
			zap.Duration("ttl", cfg.Catalog.CacheTTL),
		)
	}

	catalogService := catalogapp.NewCatalogService(registry, log, serviceOpts...)
	catalogHandler := handler.NewVendorCatalogHandler(catalogService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware order:
	// 1. Recovery
	// 2. RequestID - Generate/propagate request ID
	// 3. Logger - Request-scoped logger and access log
	// 4. Tracing - Server span, enriched with request ID and vendor
	// 5. Metrics and profiling labels
	// 6. Security headers and CORS
	// 7. RateLimit (if configured)
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	})...)
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("http_server"), log))
	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = profiler.IsEnabled()
	engine.Use(middleware.ProfilingWithConfig(profilingCfg))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimit > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Float64("per_second", cfg.HTTP.RateLimit),
			zap.Int("burst", cfg.HTTP.RateBurst),
		)
	}

	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogRoutes := router.NewDomainGroup("vendor-catalog", "/vendor-catalog")
	catalogRoutes.GET("/vendors", catalogHandler.ListVendors)
	catalogRoutes.GET("/:vendor/search", catalogHandler.Search)
	catalogRoutes.GET("/:vendor/styles/:style", catalogHandler.LookupByStyle)
	catalogRoutes.GET("/:vendor/brands/:brand", catalogHandler.LookupByBrand)
	r.Register(catalogRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	if resultCache != nil {
		if err := resultCache.Close(); err != nil {
			log.Error("Error closing catalog cache", zap.Error(err))
		}
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		bootLog.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
