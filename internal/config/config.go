package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	Parser  ParserConfig  `yaml:"parser"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
	// BodyLimit caps the upload size in bytes.
	BodyLimit int `yaml:"body_limit"`
	// RateLimitPerSecond and RateLimitBurst throttle upload requests; zero disables.
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
	RateLimitBurst     int     `yaml:"rate_limit_burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepSchedule string        `yaml:"sweep_schedule"`
	CookieName    string        `yaml:"cookie_name"`
	CookieSecure  bool          `yaml:"cookie_secure"`
}

type ParserConfig struct {
	ExcludedPrefixes []string           `yaml:"excluded_prefixes"`
	DefaultUnits     float64            `yaml:"default_units"`
	SpecialUnits     map[string]float64 `yaml:"special_units"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			BodyLimit:          32 << 20,
			RateLimitPerSecond: 5,
			RateLimitBurst:     10,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Session: SessionConfig{
			TTL:           2 * time.Hour,
			SweepSchedule: "@every 10m",
			CookieName:    "gwa_session",
		},
		Parser: ParserConfig{
			ExcludedPrefixes: []string{"PE", "NSTP", "STEM"},
			DefaultUnits:     3.0,
			SpecialUnits:     map[string]float64{"IT 402": 6.0},
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.StaticDir = getEnv("STATIC_DIR", cfg.Server.StaticDir)
	cfg.Server.BodyLimit = getEnvAsInt("SERVER_BODY_LIMIT", cfg.Server.BodyLimit)
	cfg.Server.RateLimitPerSecond = getEnvAsFloat("SERVER_RATE_LIMIT_PER_SECOND", cfg.Server.RateLimitPerSecond)
	cfg.Server.RateLimitBurst = getEnvAsInt("SERVER_RATE_LIMIT_BURST", cfg.Server.RateLimitBurst)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = getEnvAsBool("LOG_PRETTY", cfg.Log.Pretty)

	cfg.Session.TTL = getEnvAsDuration("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.SweepSchedule = getEnv("SESSION_SWEEP_SCHEDULE", cfg.Session.SweepSchedule)
	cfg.Session.CookieName = getEnv("SESSION_COOKIE_NAME", cfg.Session.CookieName)
	cfg.Session.CookieSecure = getEnvAsBool("SESSION_COOKIE_SECURE", cfg.Session.CookieSecure)

	if v := os.Getenv("PARSER_EXCLUDED_PREFIXES"); v != "" {
		cfg.Parser.ExcludedPrefixes = splitList(v)
	}
	cfg.Parser.DefaultUnits = getEnvAsFloat("PARSER_DEFAULT_UNITS", cfg.Parser.DefaultUnits)

	cfg.Metrics.Enabled = getEnvAsBool("METRICS_ENABLED", cfg.Metrics.Enabled)
}

// Validate checks values that would make the service misbehave.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.BodyLimit <= 0 {
		return errors.New("server body limit must be positive")
	}
	if c.Parser.DefaultUnits <= 0 {
		return errors.New("parser default units must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
