// Package config loads the application configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the warranty-quote.yml configuration file. Pricing data itself
// lives in the rates file, not here.
type Config struct {
	Addr               string   `yaml:"addr"`
	RedisAddr          string   `yaml:"redis_addr"`
	APIKeyEnv          string   `yaml:"api_key_env"`
	RatesFile          string   `yaml:"rates_file"`
	RuleVersion        string   `yaml:"rule_version"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	LogLevel           string   `yaml:"log_level"`
}

// Load reads and parses a configuration file. An empty path means the default
// warranty-quote.yml, and its absence yields the defaults; an explicitly
// named file must exist.
func Load(path string) (*Config, error) {
	useDefault := path == ""
	if useDefault {
		path = "warranty-quote.yml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && useDefault {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: lecture de %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: analyse de %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "WARRANTY_API_KEY"
	}
	if cfg.RuleVersion == "" {
		cfg.RuleVersion = "2024.1"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"https://framer.com", "https://*.framer.app"}
	}
	if cfg.RateLimitPerMinute == 0 {
		cfg.RateLimitPerMinute = 30
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}
