package config

import (
	"fmt"
	"strings"

	"github.com/webiny-go/restroute/internal/util"
)

// Validator collects configuration problems as ConfigErrors.
type Validator struct {
	errors []*util.ConfigError
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks a configuration and returns an error describing every
// problem found.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate checks the configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.errors = v.errors[:0]

	if cfg == nil {
		return util.NewConfigError("", "configuration is nil")
	}

	v.validateListener(&cfg.Listener)
	v.validateCache(&cfg.Cache)
	v.validateAPIs(cfg.APIs)
	v.validateLogging(&cfg.Logging)
	v.validateRateLimit(&cfg.RateLimit)
	v.validateTracing(&cfg.Tracing)

	if len(v.errors) == 0 {
		return nil
	}
	if len(v.errors) == 1 {
		return v.errors[0]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d configuration errors:", len(v.errors))
	for _, err := range v.errors {
		sb.WriteString("\n  ")
		sb.WriteString(err.Error())
	}
	return util.NewConfigError("", sb.String())
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, util.NewConfigError(field, message))
}

func (v *Validator) validateListener(l *ListenerConfig) {
	if l.Addr == "" {
		v.addError("listener.addr", "listen address is required")
	}
}

func (v *Validator) validateCache(c *CacheConfig) {
	switch c.Type {
	case CacheTypeMemory, CacheTypeRedis, "":
	default:
		v.addError("cache.type", fmt.Sprintf("unknown cache type %q", c.Type))
	}

	if c.TableDir == "" {
		v.addError("cache.tableDir", "compiled table directory is required")
	}

	if c.MaxEntries < 0 {
		v.addError("cache.maxEntries", "must not be negative")
	}

	if c.Type == CacheTypeRedis {
		if c.Redis == nil {
			v.addError("cache.redis", "redis settings are required for the redis backend")
		} else if c.Redis.Addr == "" {
			v.addError("cache.redis.addr", "redis address is required")
		}
	}
}

func (v *Validator) validateAPIs(apis []APIConfig) {
	if len(apis) == 0 {
		v.addError("apis", "at least one API must be configured")
		return
	}

	seen := make(map[string]bool, len(apis))
	for i, api := range apis {
		field := fmt.Sprintf("apis[%d]", i)
		if api.Name == "" {
			v.addError(field+".name", "API name is required")
		} else if seen[api.Name] {
			v.addError(field+".name", fmt.Sprintf("duplicate API name %q", api.Name))
		}
		seen[api.Name] = true

		if len(api.Classes) == 0 {
			v.addError(field+".classes", "at least one class is required")
		}
		for j, class := range api.Classes {
			if class == "" {
				v.addError(fmt.Sprintf("%s.classes[%d]", field, j), "class name must not be empty")
			}
		}
	}
}

func (v *Validator) validateLogging(l *LoggingConfig) {
	switch l.Level {
	case "debug", "info", "warn", "error", "":
	default:
		v.addError("logging.level", fmt.Sprintf("unknown log level %q", l.Level))
	}

	switch l.Format {
	case "json", "console", "":
	default:
		v.addError("logging.format", fmt.Sprintf("unknown log format %q", l.Format))
	}
}

func (v *Validator) validateRateLimit(r *RateLimitConfig) {
	if !r.Enabled {
		return
	}
	if r.RPS <= 0 {
		v.addError("rateLimit.rps", "must be positive when rate limiting is enabled")
	}
	if r.Burst <= 0 {
		v.addError("rateLimit.burst", "must be positive when rate limiting is enabled")
	}
}

func (v *Validator) validateTracing(t *TracingConfig) {
	if !t.Enabled {
		return
	}
	if t.OTLPEndpoint == "" {
		v.addError("tracing.otlpEndpoint", "endpoint is required when tracing is enabled")
	}
	if t.SamplingRate < 0 || t.SamplingRate > 1 {
		v.addError("tracing.samplingRate", "must be between 0 and 1")
	}
}
