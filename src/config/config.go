package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "MEDSHIELD_CONFIG"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds relay and scanner settings.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Storage  StorageConfig  `yaml:"storage"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig covers the inbound HTTP surface.
type ServerConfig struct {
	Port         string        `yaml:"port"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	RateLimit    int           `yaml:"rateLimit"`
	RateWindow   time.Duration `yaml:"rateWindow"`
}

// UpstreamConfig describes the generative model endpoint.
type UpstreamConfig struct {
	Provider          string        `yaml:"provider"`
	APIKey            string        `yaml:"apiKey"`
	Model             string        `yaml:"model"`
	BaseURL           string        `yaml:"baseUrl"`
	Timeout           time.Duration `yaml:"timeout"`
	Attempts          int           `yaml:"attempts"`
	RetryDelay        time.Duration `yaml:"retryDelay"`
	RetryClientErrors bool          `yaml:"retryClientErrors"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	RedisURL   string        `yaml:"redisUrl"`
	TTL        time.Duration `yaml:"ttl"`
	SweepEvery time.Duration `yaml:"sweepEvery"`
}

// StorageConfig enables claim report persistence when MySQLDSN is set.
type StorageConfig struct {
	MySQLDSN string `yaml:"mysqlDsn"`
}

// ScannerConfig is used by the page scanner side.
type ScannerConfig struct {
	RelayURL string        `yaml:"relayUrl"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:         "5000",
			MaxBodyBytes: 500 * 1024,
			RateLimit:    20,
			RateWindow:   time.Minute,
		},
		Upstream: UpstreamConfig{
			Provider:          "gemini",
			Timeout:           60 * time.Second,
			Attempts:          3,
			RetryDelay:        1500 * time.Millisecond,
			RetryClientErrors: true,
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			TTL:        600 * time.Second,
			SweepEvery: 120 * time.Second,
		},
		Scanner: ScannerConfig{
			RelayURL: "http://localhost:5000/scan",
			Timeout:  15 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load applies, in order: defaults, the YAML file at path (or $MEDSHIELD_CONFIG),
// then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	return cfg, nil
}

// Validate checks what the relay server needs to start.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Upstream.APIKey) == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY missing"))
	}
	if c.Upstream.Attempts < 1 {
		errs = append(errs, fmt.Errorf("upstream attempts must be >= 1, got %d", c.Upstream.Attempts))
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache backend redis requires REDIS_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Server.RateLimit < 1 || c.Server.RateWindow <= 0 {
		errs = append(errs, errors.New("rate limit and window must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() error {
	var errs []error

	envString("PORT", &c.Server.Port)
	errs = append(errs,
		envInt("RATE_LIMIT", &c.Server.RateLimit),
		envDuration("RATE_WINDOW", &c.Server.RateWindow),
	)

	envString("AI_PROVIDER", &c.Upstream.Provider)
	envString("GEMINI_API_KEY", &c.Upstream.APIKey)
	envString("GEMINI_MODEL", &c.Upstream.Model)
	envString("GEMINI_BASE_URL", &c.Upstream.BaseURL)
	errs = append(errs,
		envInt("UPSTREAM_ATTEMPTS", &c.Upstream.Attempts),
		envDuration("UPSTREAM_DELAY", &c.Upstream.RetryDelay),
		envDuration("UPSTREAM_TIMEOUT", &c.Upstream.Timeout),
		envBool("UPSTREAM_RETRY_CLIENT_ERRORS", &c.Upstream.RetryClientErrors),
	)

	envString("CACHE_BACKEND", &c.Cache.Backend)
	envString("REDIS_URL", &c.Cache.RedisURL)
	errs = append(errs,
		envDuration("CACHE_TTL", &c.Cache.TTL),
		envDuration("CACHE_SWEEP", &c.Cache.SweepEvery),
	)

	envString("MYSQL_DSN", &c.Storage.MySQLDSN)
	envString("RELAY_URL", &c.Scanner.RelayURL)
	errs = append(errs, envDuration("SCAN_TIMEOUT", &c.Scanner.Timeout))
	envString("LOG_LEVEL", &c.Logging.Level)

	return errors.Join(errs...)
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

// envDuration accepts Go durations ("1500ms") or bare integers as milliseconds.
func envDuration(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}
