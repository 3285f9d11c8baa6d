// Package config defines the router configuration model and its YAML
// loading, validation, and file-watching support.
package config

// Cache backend types.
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// Config is the root configuration for the router service.
type Config struct {
	Listener  ListenerConfig  `yaml:"listener"`
	Cache     CacheConfig     `yaml:"cache"`
	APIs      []APIConfig     `yaml:"apis"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// ListenerConfig configures the HTTP listener.
type ListenerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	IdleTimeout     Duration `yaml:"idleTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// CacheConfig configures the compiled-table cache.
type CacheConfig struct {
	// Enabled turns table memoization on. When false every request
	// re-reads and re-parses the table file.
	Enabled bool `yaml:"enabled"`

	// Type selects the backend, "memory" or "redis". Empty means memory.
	Type string `yaml:"type"`

	// TableDir is the directory holding compiled table files.
	TableDir string `yaml:"tableDir"`

	// TTL bounds how long a memoized table is served before re-reading.
	// Zero means no expiry; the watcher handles invalidation instead.
	TTL Duration `yaml:"ttl"`

	// MaxEntries bounds the memory backend.
	MaxEntries int `yaml:"maxEntries"`

	// Watch enables fsnotify invalidation of memoized tables when the
	// compiler rewrites a file under TableDir.
	Watch bool `yaml:"watch"`

	Redis *RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr           string   `yaml:"addr"`
	Password       string   `yaml:"password"`
	DB             int      `yaml:"db"`
	KeyPrefix      string   `yaml:"keyPrefix"`
	PoolSize       int      `yaml:"poolSize"`
	ConnectTimeout Duration `yaml:"connectTimeout"`
	ReadTimeout    Duration `yaml:"readTimeout"`
	WriteTimeout   Duration `yaml:"writeTimeout"`
}

// APIConfig declares one routable API and the service classes it exposes.
type APIConfig struct {
	// Name is the API identifier used in table filenames and URLs.
	Name string `yaml:"name"`

	// Classes lists the service class names routable under this API.
	Classes []string `yaml:"classes"`

	// DefaultVersion overrides the version used when a request carries no
	// version header. Empty means "current".
	DefaultVersion string `yaml:"defaultVersion"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	OutputPath string `yaml:"outputPath"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RateLimitConfig configures per-client request rate limiting.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// TracingConfig configures OpenTelemetry trace export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName"`
	OTLPEndpoint string  `yaml:"otlpEndpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// SetDefaults fills zero-valued fields with sensible defaults.
func (c *Config) SetDefaults() {
	if c.Listener.Addr == "" {
		c.Listener.Addr = ":8080"
	}
	if c.Listener.ReadTimeout == 0 {
		c.Listener.ReadTimeout = Duration(defaultReadTimeout)
	}
	if c.Listener.WriteTimeout == 0 {
		c.Listener.WriteTimeout = Duration(defaultWriteTimeout)
	}
	if c.Listener.ShutdownTimeout == 0 {
		c.Listener.ShutdownTimeout = Duration(defaultShutdownTimeout)
	}

	if c.Cache.Type == "" {
		c.Cache.Type = CacheTypeMemory
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = defaultCacheMaxEntries
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	for i := range c.APIs {
		if c.APIs[i].DefaultVersion == "" {
			c.APIs[i].DefaultVersion = "current"
		}
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "restroute"
	}
	if c.Tracing.SamplingRate == 0 {
		c.Tracing.SamplingRate = 1.0
	}
}

// API returns the API configuration by name, or nil.
func (c *Config) API(name string) *APIConfig {
	for i := range c.APIs {
		if c.APIs[i].Name == name {
			return &c.APIs[i]
		}
	}
	return nil
}
