// Package config loads the single configuration document spec.md §6
// names: http.host, http.port, db.url/user/pass/poolSize, jwt.secret.
// Values come from the environment (godotenv-loaded .env included) with
// an optional YAML file overlay for deployments that prefer a file.
package config

import (
	"fmt"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"http"`
	DB struct {
		URL      string `yaml:"url"`
		User     string `yaml:"user"`
		Pass     string `yaml:"pass"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Name     string `yaml:"name"`
		PoolSize int    `yaml:"poolSize"`
	} `yaml:"db"`
	JWT struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
}

// Load builds a Config from environment variables, then applies a YAML
// file overlay if path is non-empty. Env vars set sane defaults so the
// process can start with nothing but a .env file, matching the
// teacher's autoload convention.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	cfg.HTTP.Host = envOr("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = envOrInt("HTTP_PORT", 8080)

	cfg.DB.URL = os.Getenv("DATABASE_URL")
	cfg.DB.User = envOr("POSTGRES_USER", "postgres")
	cfg.DB.Pass = os.Getenv("POSTGRES_PASSWORD")
	cfg.DB.Host = envOr("PG_HOST", "localhost")
	cfg.DB.Port = envOrInt("PG_PORT", 5432)
	cfg.DB.Name = envOr("PG_DATABASE", "cambia_arena")
	cfg.DB.PoolSize = envOrInt("DB_POOL_SIZE", 10)

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")

	cfg.Redis.Addr = envOr("REDIS_ADDR", "localhost:6379")

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return cfg, nil
}

// ConnString builds a pgx connection string, preferring an explicit URL.
func (c *Config) ConnString() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?pool_max_conns=%d",
		c.DB.User, c.DB.Pass, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.PoolSize)
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
