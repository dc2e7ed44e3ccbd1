package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	Vendors   VendorsConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
	RateLimit        float64 // Inbound requests per second per client IP; 0 disables
	RateBurst        int
}

// CatalogConfig holds vendor catalog query settings
type CatalogConfig struct {
	DefaultBrandLimit int           // Max distinct styles per brand lookup (default: 50)
	CacheEnabled      bool          // Whether lookup results are cached
	CacheTTL          time.Duration // How long cached results live (default: 15m)
	CacheBackend      string        // redis or memory
}

// VendorsConfig holds one section per supported vendor
type VendorsConfig struct {
	SanMar       SanMarConfig
	SSActivewear SSActivewearConfig
}

// SanMarConfig holds the SanMar SOAP connection settings
type SanMarConfig struct {
	Enabled        bool
	Endpoint       string
	CustomerNumber string
	Username       string
	Password       string
	Timeout        time.Duration
	RateLimit      float64 // Calls per second, 0 = unlimited
	RateBurst      int
	BrandLimit     int // Overrides catalog.default_brand_limit when > 0
}

// SSActivewearConfig holds the S&S Activewear REST connection settings
type SSActivewearConfig struct {
	Enabled       bool
	BaseURL       string
	AccountNumber string
	APIKey        string
	Timeout       time.Duration
	RateLimit     float64 // Calls per second, 0 = unlimited
	RateBurst     int
	BrandLimit    int // Overrides catalog.default_brand_limit when > 0
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry tracing
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Metrics and logs export
	MetricsEnabled        bool
	MetricsExportInterval time.Duration
	LogsEnabled           bool
	// Continuous profiling
	ProfilingEnabled bool
	ProfilingServer  string // Pyroscope server address
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ERP_ prefix (e.g., ERP_VENDORS_SANMAR_PASSWORD)
// 2. .env file in the working directory
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	// Values already present in the environment win over .env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
			RateLimit:        v.GetFloat64("http.rate_limit"),
			RateBurst:        v.GetInt("http.rate_burst"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Catalog: CatalogConfig{
			DefaultBrandLimit: v.GetInt("catalog.default_brand_limit"),
			CacheEnabled:      v.GetBool("catalog.cache_enabled"),
			CacheTTL:          v.GetDuration("catalog.cache_ttl"),
			CacheBackend:      v.GetString("catalog.cache_backend"),
		},
		Vendors: VendorsConfig{
			SanMar: SanMarConfig{
				Enabled:        v.GetBool("vendors.sanmar.enabled"),
				Endpoint:       v.GetString("vendors.sanmar.endpoint"),
				CustomerNumber: v.GetString("vendors.sanmar.customer_number"),
				Username:       v.GetString("vendors.sanmar.username"),
				Password:       v.GetString("vendors.sanmar.password"),
				Timeout:        v.GetDuration("vendors.sanmar.timeout"),
				RateLimit:      v.GetFloat64("vendors.sanmar.rate_limit"),
				RateBurst:      v.GetInt("vendors.sanmar.rate_burst"),
				BrandLimit:     v.GetInt("vendors.sanmar.brand_limit"),
			},
			SSActivewear: SSActivewearConfig{
				Enabled:       v.GetBool("vendors.ssactivewear.enabled"),
				BaseURL:       v.GetString("vendors.ssactivewear.base_url"),
				AccountNumber: v.GetString("vendors.ssactivewear.account_number"),
				APIKey:        v.GetString("vendors.ssactivewear.api_key"),
				Timeout:       v.GetDuration("vendors.ssactivewear.timeout"),
				RateLimit:     v.GetFloat64("vendors.ssactivewear.rate_limit"),
				RateBurst:     v.GetInt("vendors.ssactivewear.rate_burst"),
				BrandLimit:    v.GetInt("vendors.ssactivewear.brand_limit"),
			},
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			MetricsEnabled:        v.GetBool("telemetry.metrics_enabled"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
			LogsEnabled:           v.GetBool("telemetry.logs_enabled"),
			ProfilingEnabled:      v.GetBool("telemetry.profiling_enabled"),
			ProfilingServer:       v.GetString("telemetry.profiling_server"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "promoerp-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Covers a style lookup plus a brand fallback at the default vendor timeout
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 150 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	// CORS origins have no default
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateBurst == 0 {
		cfg.HTTP.RateBurst = int(cfg.HTTP.RateLimit) + 1
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	// Catalog defaults
	if cfg.Catalog.DefaultBrandLimit == 0 {
		cfg.Catalog.DefaultBrandLimit = 50
	}
	if cfg.Catalog.CacheTTL == 0 {
		cfg.Catalog.CacheTTL = 15 * time.Minute
	}
	if cfg.Catalog.CacheBackend == "" {
		cfg.Catalog.CacheBackend = "memory"
	}

	// Vendor defaults
	if cfg.Vendors.SanMar.Endpoint == "" {
		cfg.Vendors.SanMar.Endpoint = "https://ws.sanmar.com:8080/SanMarWebService/SanMarProductInfoServicePort"
	}
	if cfg.Vendors.SanMar.Timeout == 0 {
		cfg.Vendors.SanMar.Timeout = 60 * time.Second
	}
	if cfg.Vendors.SSActivewear.BaseURL == "" {
		cfg.Vendors.SSActivewear.BaseURL = "https://api.ssactivewear.com/v2"
	}
	if cfg.Vendors.SSActivewear.Timeout == 0 {
		cfg.Vendors.SSActivewear.Timeout = 60 * time.Second
	}

	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "promoerp-backend"
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
	if cfg.Telemetry.ProfilingServer == "" {
		cfg.Telemetry.ProfilingServer = "http://localhost:4040"
	}
	// Note: Insecure defaults to false for safety (TLS enabled by default)
}

// maxVendorTimeout caps configured vendor timeouts
const maxVendorTimeout = 5 * time.Minute

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Catalog.DefaultBrandLimit < 0 {
		return fmt.Errorf("catalog.default_brand_limit must be positive")
	}
	if c.Catalog.CacheBackend != "redis" && c.Catalog.CacheBackend != "memory" {
		return fmt.Errorf("catalog.cache_backend must be 'redis' or 'memory', got %q", c.Catalog.CacheBackend)
	}

	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return fmt.Errorf("http.rate_limit and http.rate_burst cannot be negative")
	}

	sanmar := c.Vendors.SanMar
	if sanmar.Timeout < 0 || sanmar.Timeout > maxVendorTimeout {
		return fmt.Errorf("vendors.sanmar.timeout must be between 0 and %s", maxVendorTimeout)
	}
	if sanmar.BrandLimit < 0 || sanmar.RateLimit < 0 {
		return fmt.Errorf("vendors.sanmar.brand_limit and rate_limit cannot be negative")
	}
	if sanmar.Enabled {
		if sanmar.CustomerNumber == "" || sanmar.Username == "" || sanmar.Password == "" {
			return fmt.Errorf("vendors.sanmar requires customer_number, username and password when enabled")
		}
	}

	ss := c.Vendors.SSActivewear
	if ss.Timeout < 0 || ss.Timeout > maxVendorTimeout {
		return fmt.Errorf("vendors.ssactivewear.timeout must be between 0 and %s", maxVendorTimeout)
	}
	if ss.BrandLimit < 0 || ss.RateLimit < 0 {
		return fmt.Errorf("vendors.ssactivewear.brand_limit and rate_limit cannot be negative")
	}
	if ss.Enabled {
		if ss.AccountNumber == "" || ss.APIKey == "" {
			return fmt.Errorf("vendors.ssactivewear requires account_number and api_key when enabled")
		}
	}

	// Production-specific validations
	if c.App.Env == "production" {
		// CORS must not use wildcard with credentials
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if !sanmar.Enabled && !ss.Enabled {
			return fmt.Errorf("at least one vendor must be enabled in production")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}
