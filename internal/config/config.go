package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config defines settings for the charging-station admin service.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"ADMIN_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN     string `yaml:"dsn" env:"ADMIN_POSTGRES_DSN"`
		Migrate bool   `yaml:"migrate" env:"ADMIN_POSTGRES_MIGRATE"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"ADMIN_REDIS_ADDR"`
		Password string `yaml:"password" env:"ADMIN_REDIS_PASSWORD"`
	} `yaml:"redis"`
	Auth struct {
		SessionTTL int    `yaml:"sessionTTLSeconds" env:"ADMIN_SESSION_TTL"`
		BcryptCost int    `yaml:"bcryptCost" env:"ADMIN_BCRYPT_COST"`
		CookieName string `yaml:"cookieName" env:"ADMIN_SESSION_COOKIE"`
	} `yaml:"auth"`
}

// Load reads configuration from the optional YAML file and environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Auth.SessionTTL = 28800
	cfg.Auth.CookieName = "chargeadmin_session"

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style listen address.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	if c.Auth.SessionTTL <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.Auth.SessionTTL) * time.Second
}
