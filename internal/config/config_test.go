package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "idcscan.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerURL)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultPredictTimeout, cfg.PredictTimeout)
	assert.Equal(t, StoreBackendFile, cfg.Store.Backend)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server_url: https://screening.example.com
profile: clinic-a
request_timeout: 10s
store:
  backend: redis
  redis_addr: localhost:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://screening.example.com", cfg.ServerURL)
	assert.Equal(t, "clinic-a", cfg.Profile)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, StoreBackendRedis, cfg.Store.Backend)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "server_url: [not: closed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IDCSCAN_SERVER_URL", "http://10.0.0.5:9090")
	t.Setenv("IDCSCAN_PROFILE", "kiosk")
	t.Setenv("IDCSCAN_REQUEST_TIMEOUT", "5s")
	t.Setenv("IDCSCAN_PREDICT_TIMEOUT", "3m")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9090", cfg.ServerURL)
	assert.Equal(t, "kiosk", cfg.Profile)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, 3*time.Minute, cfg.PredictTimeout.Std())
}

func TestEnvRejectsBadDuration(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "request timeout", key: "IDCSCAN_REQUEST_TIMEOUT"},
		{name: "predict timeout", key: "IDCSCAN_PREDICT_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, "soon")

			_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty server URL",
			mutate:  func(c *Config) { c.ServerURL = "" },
			wantErr: "server_url is required",
		},
		{
			name:    "empty profile",
			mutate:  func(c *Config) { c.Profile = "" },
			wantErr: "profile must not be empty",
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: "request_timeout must be positive",
		},
		{
			name:    "redis backend requires an address",
			mutate:  func(c *Config) { c.Store = StoreConfig{Backend: StoreBackendRedis} },
			wantErr: "store.redis_addr is required",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "etcd" },
			wantErr: "unsupported store backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
