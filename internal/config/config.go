// Package config loads runtime configuration: credentials and addresses
// from the environment, tuning knobs from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the assembled runtime configuration.
type Config struct {
	Port         string
	DatabaseURL  string
	RedisURL     string
	IdentityURL  string
	IdentityKey  string
	CallerHeader string
	LogLevel     string

	RateLimit RateLimitConfig
	Feed      FeedConfig
}

// RateLimitConfig tunes the posting rate limiter.
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	Analytics bool
}

// FeedConfig tunes feed retrieval.
type FeedConfig struct {
	MaxLimit int
}

// rawConfig is the YAML file structure.
type rawConfig struct {
	RateLimit struct {
		Limit     int    `yaml:"limit"`
		Window    string `yaml:"window"`
		Analytics bool   `yaml:"analytics"`
	} `yaml:"rate_limit"`
	Feed struct {
		MaxLimit int `yaml:"max_limit"`
	} `yaml:"feed"`
}

// Load reads the environment and the YAML tuning file. Missing YAML
// values fall back to defaults; missing required env vars are an error.
func Load(yamlPath string) (*Config, error) {
	cfg := &Config{
		Port:         envOr("PORT", "3000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		IdentityURL:  os.Getenv("IDENTITY_API_URL"),
		IdentityKey:  os.Getenv("IDENTITY_API_KEY"),
		CallerHeader: envOr("CALLER_ID_HEADER", ""),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		RateLimit: RateLimitConfig{
			Limit:  3,
			Window: time.Minute,
		},
		Feed: FeedConfig{MaxLimit: 100},
	}

	for name, value := range map[string]string{
		"DATABASE_URL":     cfg.DatabaseURL,
		"REDIS_URL":        cfg.RedisURL,
		"IDENTITY_API_URL": cfg.IdentityURL,
		"IDENTITY_API_KEY": cfg.IdentityKey,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable %s", name)
		}
	}

	if yamlPath != "" {
		if err := cfg.applyYAML(yamlPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if raw.RateLimit.Limit > 0 {
		c.RateLimit.Limit = raw.RateLimit.Limit
	}
	if raw.RateLimit.Window != "" {
		window, err := time.ParseDuration(raw.RateLimit.Window)
		if err != nil {
			return fmt.Errorf("parse rate_limit.window: %w", err)
		}
		c.RateLimit.Window = window
	}
	c.RateLimit.Analytics = raw.RateLimit.Analytics

	if raw.Feed.MaxLimit > 0 {
		c.Feed.MaxLimit = raw.Feed.MaxLimit
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
