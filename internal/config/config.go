package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "parkada/libs/config"
)

// HTTPConfig holds listen settings.
type HTTPConfig struct {
	Port string `yaml:"port" env:"PARKADA_HTTP_PORT"`
}

// DatabaseConfig holds Postgres settings. An empty DSN selects the
// in-memory store (demo mode).
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"PARKADA_POSTGRES_DSN"`
}

// RedisConfig holds active-session cache settings. An empty addr disables
// the cache.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"PARKADA_REDIS_ADDR"`
	Password string `yaml:"password" env:"PARKADA_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"PARKADA_REDIS_DB"`
	TTL      int    `yaml:"ttlSeconds" env:"PARKADA_REDIS_TTL"`
}

// AuthConfig holds token and demo-account settings.
type AuthConfig struct {
	Secret       string        `yaml:"secret" env:"PARKADA_AUTH_SECRET"`
	TokenTTL     time.Duration `yaml:"tokenTTL" env:"PARKADA_AUTH_TOKEN_TTL"`
	DemoPassword string        `yaml:"demoPassword" env:"PARKADA_AUTH_DEMO_PASSWORD"`
}

// Config defines parkada service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
}

// Load reads configuration via the shared helper.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "8080"},
		Auth: AuthConfig{
			TokenTTL:     24 * time.Hour,
			DemoPassword: "parkada-demo",
		},
		Redis: RedisConfig{TTL: 86400},
	}

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("config: auth secret required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
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

// ActiveSessionTTL returns the cache ttl as duration.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}
