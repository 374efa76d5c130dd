// Package config loads daemon configuration from the environment, with an
// optional .env file for development setups.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the seamd runtime settings.
type Config struct {
	Host  string `env:"SEAM_HOST" envDefault:"0.0.0.0"`
	Port  int    `env:"SEAM_PORT" envDefault:"5099"`
	Debug bool   `env:"SEAM_DEBUG" envDefault:"false"`
	Mode  string `env:"SEAM_MODE" envDefault:"release"` // gin mode: release | debug | test
}

// Load reads configuration from the environment. When envFile names an
// existing file, it is loaded first without overriding variables already
// set in the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", envFile, err)
			}
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
