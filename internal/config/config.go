// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")

// Config holds every setting the server needs.
type Config struct {
	HTTPAddr           string
	DatabaseURL        string
	FrontendURL        string
	AdminFrontendURL   string
	UploadDir          string
	PublicBaseURL      string
	SessionTTL         time.Duration
	SecureCookies      bool
	RateLimitPerMinute int
	TrustedProxyCount  int // proxies appending to X-Forwarded-For; 0 ignores the header
	AMQPURL            string
	AMQPExchange       string
}

// AllowedOrigins returns the origins allowed by CORS and the WebSocket upgrader.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range []string{c.FrontendURL, c.AdminFrontendURL} {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads .env (when present) and the environment. A missing
// DATABASE_URL is fatal for the caller.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		HTTPAddr:           orDefault(getenv("HTTP_ADDR"), ":8080"),
		DatabaseURL:        strings.TrimSpace(getenv("DATABASE_URL")),
		FrontendURL:        orDefault(getenv("FRONTEND_URL"), "http://localhost:5173"),
		AdminFrontendURL:   orDefault(getenv("ADMIN_FRONTEND_URL"), "http://localhost:5174"),
		UploadDir:          orDefault(getenv("UPLOAD_DIR"), "./uploads"),
		PublicBaseURL:      strings.TrimSuffix(getenv("PUBLIC_BASE_URL"), "/"),
		SessionTTL:         7 * 24 * time.Hour,
		SecureCookies:      getenv("SECURE_COOKIES") == "true",
		RateLimitPerMinute: 30,
		AMQPURL:            getenv("AMQP_URL"),
		AMQPExchange:       orDefault(getenv("AMQP_EXCHANGE"), "site.changes"),
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: invalid SESSION_TTL %q", v)
		}
		cfg.SessionTTL = d
	}
	if v := getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: invalid RATE_LIMIT_PER_MINUTE %q", v)
		}
		cfg.RateLimitPerMinute = n
	}
	if v := getenv("TRUSTED_PROXY_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("config: invalid TRUSTED_PROXY_COUNT %q", v)
		}
		cfg.TrustedProxyCount = n
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
