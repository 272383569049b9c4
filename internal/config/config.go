package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Classifier backends.
const (
	BackendHeuristic = "heuristic"
	BackendInference = "inference"
	BackendOpenAI    = "openai"
	BackendNone      = "none"
)

// Config holds the reviewguard API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Logging    LoggingConfig    `yaml:"logging"`
	Auth       AuthConfig       `yaml:"auth"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Cache      CacheConfig      `yaml:"cache"`
	Store      StoreConfig      `yaml:"store"`
	Events     EventsConfig     `yaml:"events"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	AdminKeys []string `yaml:"admin_keys"`
	// DemoAdmin opens moderation to every caller. Never enable outside demos.
	DemoAdmin bool `yaml:"demo_admin"`
	// RoleLookup grants moderation to users holding the admin role in
	// user_roles, identified by the X-User-ID header of an authenticated caller.
	RoleLookup bool `yaml:"role_lookup"`
}

// ClientKeys returns the bearer tokens accepted on the API. Admin keys are
// valid API keys too. Empty when API authentication is disabled.
func (a AuthConfig) ClientKeys() []string {
	if len(a.APIKeys) == 0 {
		return nil
	}
	keys := make([]string, 0, len(a.APIKeys)+len(a.AdminKeys))
	keys = append(keys, a.APIKeys...)
	return append(keys, a.AdminKeys...)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CORSConfig toggles the permissive CORS headers.
type CORSConfig struct {
	Enabled *bool `yaml:"enabled"` // default: true
}

// IsEnabled reports whether CORS headers are sent.
func (c CORSConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// RateLimitConfig limits the classify routes. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// ClassifierConfig selects and tunes the classification backend.
type ClassifierConfig struct {
	Backend   string          `yaml:"backend"` // heuristic (default), inference, openai, none
	TimeoutMS int             `yaml:"timeout_ms"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
	Inference InferenceConfig `yaml:"inference"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Breaker   BreakerConfig   `yaml:"breaker"`
}

// Timeout returns the per-call classification timeout.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// HeuristicConfig holds the in-process model settings.
type HeuristicConfig struct {
	WeightsFile string `yaml:"weights_file"` // empty: compiled-in weights
}

// InferenceConfig holds the remote inference backend settings.
type InferenceConfig struct {
	BaseURL string `yaml:"base_url"`
}

// OpenAIConfig holds the LLM backend settings.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Seed    int    `yaml:"seed"`
}

// BreakerConfig tunes the circuit breaker around remote backends.
type BreakerConfig struct {
	Enabled         *bool   `yaml:"enabled"` // default: true
	MinRequests     uint32  `yaml:"min_requests"`
	FailureRatio    float64 `yaml:"failure_ratio"`
	OpenTimeoutSec  int     `yaml:"open_timeout_sec"`
	HalfOpenMaxCall uint32  `yaml:"half_open_max_calls"`
	MaxAttempts     int     `yaml:"max_attempts"` // 1 = no retries
}

// IsEnabled reports whether the breaker is on.
func (b BreakerConfig) IsEnabled() bool { return b.Enabled == nil || *b.Enabled }

// CacheConfig holds the verdict cache settings. Empty Addrs disables the cache.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a verdict cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// StoreConfig holds the review store settings. Empty DSN disables the review routes.
type StoreConfig struct {
	DSN                string `yaml:"dsn"`
	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec"`
}

// EventsConfig holds the attempt event settings. Empty NATSURL logs events instead.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references, then applies
// defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = int(c.RateLimit.RPS) + 1
	}
	if c.Classifier.Backend == "" {
		c.Classifier.Backend = BackendHeuristic
	}
	if c.Classifier.TimeoutMS <= 0 {
		c.Classifier.TimeoutMS = 2000
	}
	if c.Classifier.OpenAI.Model == "" {
		c.Classifier.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Classifier.OpenAI.Seed == 0 {
		c.Classifier.OpenAI.Seed = 7
	}
	if c.Classifier.Breaker.MinRequests == 0 {
		c.Classifier.Breaker.MinRequests = 10
	}
	if c.Classifier.Breaker.FailureRatio <= 0 {
		c.Classifier.Breaker.FailureRatio = 0.5
	}
	if c.Classifier.Breaker.OpenTimeoutSec <= 0 {
		c.Classifier.Breaker.OpenTimeoutSec = 30
	}
	if c.Classifier.Breaker.HalfOpenMaxCall == 0 {
		c.Classifier.Breaker.HalfOpenMaxCall = 2
	}
	if c.Classifier.Breaker.MaxAttempts <= 0 {
		c.Classifier.Breaker.MaxAttempts = 1
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Store.MaxOpenConns <= 0 {
		c.Store.MaxOpenConns = 10
	}
	if c.Store.ConnMaxLifetimeSec <= 0 {
		c.Store.ConnMaxLifetimeSec = 1800
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "reviewguard.classification.attempts"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative, got %v", c.RateLimit.RPS)
	}

	switch c.Classifier.Backend {
	case BackendHeuristic, BackendNone:
		// ok
	case BackendInference:
		if c.Classifier.Inference.BaseURL == "" {
			return fmt.Errorf("classifier.inference.base_url is required for backend %q", BackendInference)
		}
	case BackendOpenAI:
		if c.Classifier.OpenAI.APIKey == "" {
			return fmt.Errorf("classifier.openai.api_key is required for backend %q", BackendOpenAI)
		}
	default:
		return fmt.Errorf(
			"classifier.backend must be one of heuristic, inference, openai, none, got %q",
			c.Classifier.Backend,
		)
	}

	if c.Auth.RoleLookup {
		if c.Store.DSN == "" {
			return fmt.Errorf("auth.role_lookup requires store.dsn")
		}
		if len(c.Auth.APIKeys) == 0 {
			return fmt.Errorf("auth.role_lookup requires auth.api_keys; forwarded user IDs are trusted only from authenticated callers")
		}
	}

	if r := c.Classifier.Breaker.FailureRatio; r > 1 {
		return fmt.Errorf("classifier.breaker.failure_ratio must be in (0,1], got %v", r)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
