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

// Config holds the nearwiki API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Wiki    WikiConfig    `yaml:"wiki"`
	Search  SearchConfig  `yaml:"search"`
	Views   ViewsConfig   `yaml:"views"`
	Markers MarkersConfig `yaml:"markers"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// WikiConfig holds article API client settings.
type WikiConfig struct {
	BaseURL           string  `yaml:"base_url"`
	Contact           string  `yaml:"contact"` // appended to the User-Agent
	TimeoutSec        int     `yaml:"timeout_sec"`
	ThumbnailSize     int     `yaml:"thumbnail_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	HealthCheck       bool    `yaml:"health_check"` // probe the API from /health
}

// SearchConfig holds nearby search limits.
type SearchConfig struct {
	DefaultMaxResults int `yaml:"default_max_results"`
}

// ViewsConfig holds view session storage settings.
type ViewsConfig struct {
	Driver           string   `yaml:"driver"` // memory, valkey (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// MarkersConfig holds marker symbol and popup settings.
type MarkersConfig struct {
	IconURL       string `yaml:"icon_url"`
	IconSize      int    `yaml:"icon_size"`
	MoreInfoLabel string `yaml:"more_info_label"`
}

// Timeout returns the upstream HTTP client timeout.
func (w WikiConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSec) * time.Second
}

// TTL returns the view session lifetime.
func (v ViewsConfig) TTL() time.Duration {
	return time.Duration(v.TTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return parse(data)
}

func parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
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
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Wiki.BaseURL == "" {
		c.Wiki.BaseURL = "https://en.wikipedia.org/w/api.php"
	}
	if c.Wiki.TimeoutSec <= 0 {
		c.Wiki.TimeoutSec = 10
	}
	if c.Wiki.ThumbnailSize <= 0 {
		c.Wiki.ThumbnailSize = 125
	}
	if c.Wiki.RequestsPerSecond == 0 {
		c.Wiki.RequestsPerSecond = 10
	}
	if c.Wiki.Burst <= 0 {
		c.Wiki.Burst = 5
	}
	if c.Search.DefaultMaxResults <= 0 {
		c.Search.DefaultMaxResults = 10
	}
	if c.Views.Driver == "" {
		c.Views.Driver = "memory"
	}
	if c.Views.KeyPrefix == "" {
		c.Views.KeyPrefix = "nearwiki:"
	}
	if c.Views.TTLSec <= 0 {
		c.Views.TTLSec = 3600
	}
	if c.Views.ReadinessTimeout <= 0 {
		c.Views.ReadinessTimeout = 10
	}
	if c.Markers.IconSize <= 0 {
		c.Markers.IconSize = 24
	}
	if c.Markers.MoreInfoLabel == "" {
		c.Markers.MoreInfoLabel = "More info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Views.Driver {
	case "memory":
	case "valkey":
		if len(c.Views.Addrs) == 0 {
			return fmt.Errorf("views.addrs is required for driver %q", c.Views.Driver)
		}
	default:
		return fmt.Errorf("views.driver must be \"memory\" or \"valkey\", got %q", c.Views.Driver)
	}
	if c.Search.DefaultMaxResults > 500 {
		return fmt.Errorf("search.default_max_results must not exceed 500, got %d", c.Search.DefaultMaxResults)
	}
	if c.Markers.IconURL == "" {
		return fmt.Errorf("markers.icon_url is required")
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
