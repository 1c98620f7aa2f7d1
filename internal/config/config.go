package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the CMS API gateway.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Media      MediaConfig
	ContentGen ContentGenConfig
	Usage      UsageConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional. When URL is empty the gateway falls back to the
// in-process rate limiter, whose quotas are per instance rather than global.
type RedisConfig struct {
	URL string
}

type RateLimitConfig struct {
	ReadLimit  int
	WriteLimit int
	Window     time.Duration
}

type MediaConfig struct {
	Dir     string
	BaseURL string
}

// ContentGenConfig points at the external content-generation service.
// When URL is empty the generation endpoint responds 503.
type ContentGenConfig struct {
	URL     string
	Timeout time.Duration
}

type UsageConfig struct {
	Buffer int
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("CMS_PORT", 8080),
			Env:  envString("CMS_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		RateLimit: RateLimitConfig{
			ReadLimit:  envInt("RATE_LIMIT_READ", 10),
			WriteLimit: envInt("RATE_LIMIT_WRITE", 2),
			Window:     envDuration("RATE_LIMIT_WINDOW", time.Second),
		},
		Media: MediaConfig{
			Dir:     envString("MEDIA_DIR", "data/media"),
			BaseURL: envString("MEDIA_BASE_URL", "/media"),
		},
		ContentGen: ContentGenConfig{
			URL:     os.Getenv("CONTENT_GEN_URL"),
			Timeout: envDuration("CONTENT_GEN_TIMEOUT", 60*time.Second),
		},
		Usage: UsageConfig{
			Buffer: envInt("USAGE_BUFFER", 1024),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.RateLimit.ReadLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_READ must be positive, got %d", c.RateLimit.ReadLimit)
	}
	if c.RateLimit.WriteLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_WRITE must be positive, got %d", c.RateLimit.WriteLimit)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimit.Window)
	}

	if c.Media.Dir == "" {
		return fmt.Errorf("MEDIA_DIR is required")
	}

	if c.ContentGen.URL != "" &&
		!strings.HasPrefix(c.ContentGen.URL, "http://") && !strings.HasPrefix(c.ContentGen.URL, "https://") {
		return fmt.Errorf("CONTENT_GEN_URL must start with http:// or https://, got %q", c.ContentGen.URL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
