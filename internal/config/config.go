package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default timeouts. Prediction runs a model server-side and is allowed a
// much longer window than the bookkeeping calls.
const (
	DefaultRequestTimeout = Duration(30 * time.Second)
	DefaultPredictTimeout = Duration(120 * time.Second)
)

// Duration wraps time.Duration so YAML configs can say "30s" rather than a
// nanosecond count.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// StoreBackend selects where the session is persisted.
type StoreBackend string

const (
	// StoreBackendFile persists the session to a YAML file in the profile
	// directory. This is the default, single-user mode.
	StoreBackendFile StoreBackend = "file"

	// StoreBackendRedis persists the session to a Redis hash, for shared
	// workstation deployments where several terminals share one profile.
	StoreBackendRedis StoreBackend = "redis"
)

// Config represents the top-level idcscan.yml client configuration.
type Config struct {
	ServerURL      string      `yaml:"server_url"`
	Profile        string      `yaml:"profile,omitempty"`
	RequestTimeout Duration    `yaml:"request_timeout,omitempty"`
	PredictTimeout Duration    `yaml:"predict_timeout,omitempty"`
	Store          StoreConfig `yaml:"store,omitempty"`
}

// StoreConfig selects and parameterises the session store backend.
type StoreConfig struct {
	Backend   StoreBackend `yaml:"backend,omitempty"`
	RedisAddr string       `yaml:"redis_addr,omitempty"`
}

// Default returns the configuration used when no idcscan.yml exists.
func Default() *Config {
	return &Config{
		ServerURL:      "http://127.0.0.1:8080",
		Profile:        "default",
		RequestTimeout: DefaultRequestTimeout,
		PredictTimeout: DefaultPredictTimeout,
		Store:          StoreConfig{Backend: StoreBackendFile},
	}
}

// Load reads configuration from the given path, falling back to defaults
// when the file does not exist, then applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No config file is fine; defaults plus env apply.
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location,
// ~/.config/idcscan/idcscan.yml, or "idcscan.yml" when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "idcscan.yml"
	}
	return filepath.Join(home, ".config", "idcscan", "idcscan.yml")
}

// ProfileDir returns the directory holding per-profile state
// (session file, analysis handoff).
func (c *Config) ProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".idcscan", c.Profile)
	}
	return filepath.Join(home, ".config", "idcscan", c.Profile)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("IDCSCAN_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("IDCSCAN_PROFILE"); v != "" {
		c.Profile = v
	}
	if v := os.Getenv("IDCSCAN_STORE_BACKEND"); v != "" {
		c.Store.Backend = StoreBackend(v)
	}
	if v := os.Getenv("IDCSCAN_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("IDCSCAN_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid IDCSCAN_REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = Duration(d)
	}
	if v := os.Getenv("IDCSCAN_PREDICT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid IDCSCAN_PREDICT_TIMEOUT %q: %w", v, err)
		}
		c.PredictTimeout = Duration(d)
	}
	return nil
}

// Validate performs strict validation on the configuration
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.Profile == "" {
		return fmt.Errorf("profile must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.PredictTimeout <= 0 {
		return fmt.Errorf("predict_timeout must be positive, got %s", c.PredictTimeout)
	}
	switch c.Store.Backend {
	case StoreBackendFile:
		// No extra parameters required.
	case StoreBackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required when store.backend is redis")
		}
	default:
		return fmt.Errorf("unsupported store backend: %s (expected: file or redis)", c.Store.Backend)
	}
	return nil
}
