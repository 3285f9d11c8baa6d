package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
listener:
  addr: ":9090"
  readTimeout: "10s"
cache:
  enabled: true
  type: memory
  tableDir: /var/lib/restroute/tables
  ttl: "5m"
  maxEntries: 500
apis:
  - name: crm
    classes: [Users, Companies]
  - name: billing
    classes: [Invoices]
    defaultVersion: "3"
logging:
  level: debug
  format: console
rateLimit:
  enabled: true
  rps: 100
  burst: 20
`

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromReader(strings.NewReader(validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listener.Addr)
	assert.Equal(t, "10s", cfg.Listener.ReadTimeout.Duration().String())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, "/var/lib/restroute/tables", cfg.Cache.TableDir)
	assert.Equal(t, 500, cfg.Cache.MaxEntries)

	require.Len(t, cfg.APIs, 2)
	assert.Equal(t, []string{"Users", "Companies"}, cfg.APIs[0].Classes)
	assert.Equal(t, "current", cfg.APIs[0].DefaultVersion)
	assert.Equal(t, "3", cfg.APIs[1].DefaultVersion)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validConfigYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listener.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadFromReader(strings.NewReader("listener: [not a mapping"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestEnvVarExpansion(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		env      map[string]string
		expected string
	}{
		{
			name:     "set variable",
			content:  "addr: ${TEST_ADDR}",
			env:      map[string]string{"TEST_ADDR": ":8081"},
			expected: "addr: :8081",
		},
		{
			name:     "unset variable with default",
			content:  "addr: ${TEST_UNSET:-:8082}",
			expected: "addr: :8082",
		},
		{
			name:     "set variable overrides default",
			content:  "addr: ${TEST_ADDR:-:8082}",
			env:      map[string]string{"TEST_ADDR": ":8083"},
			expected: "addr: :8083",
		},
		{
			name:     "unset variable without default",
			content:  "addr: ${TEST_UNSET}",
			expected: "addr: ",
		},
		{
			name:     "escaped dollar",
			content:  "password: $$literal",
			expected: "password: $literal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.expected, expandEnvVars(tt.content))
		})
	}
}

func TestDurationYAML(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromReader(strings.NewReader(`
listener:
  addr: ":8080"
  shutdownTimeout: "1m30s"
cache:
  tableDir: /tmp/tables
apis:
  - name: crm
    classes: [Users]
`))
	require.NoError(t, err)
	assert.Equal(t, float64(90), cfg.Listener.ShutdownTimeout.Duration().Seconds())
}

func TestSetDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.SetDefaults()

	assert.Equal(t, ":8080", cfg.Listener.Addr)
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, defaultCacheMaxEntries, cfg.Cache.MaxEntries)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 1.0, cfg.Tracing.SamplingRate)
}

func TestAPILookup(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromReader(strings.NewReader(validConfigYAML))
	require.NoError(t, err)

	api := cfg.API("billing")
	require.NotNil(t, api)
	assert.Equal(t, []string{"Invoices"}, api.Classes)

	assert.Nil(t, cfg.API("unknown"))
}
