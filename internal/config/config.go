package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI       string
	RedisURI       string   // optional; stats cache and auth rate limit are skipped without it
	JWTSecret      string
	JWTExpire      string   // raw JWT_EXPIRE, e.g. "30d", "12h"
	JWTExpiry      time.Duration
	Port           string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	ClientDir      string   // built SPA, served in production only
	Environment    string   // ENV or NODE_ENV: production, development, test
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", getEnv("NODE_ENV", "development"))))

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:5173")}
	}

	expire := getEnv("JWT_EXPIRE", "30d")
	expiry, _ := ParseExpiry(expire)

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "")),
		RedisURI:       getEnv("REDIS_URI", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpire:      expire,
		JWTExpiry:      expiry,
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: allowedOrigins,
		ClientDir:      getEnv("CLIENT_DIR", "client/dist"),
		Environment:    env,
	}
}

// Validate reports the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.MongoURI) == "" {
		errs = append(errs, errors.New("MONGODB_URI is not set"))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if _, err := ParseExpiry(c.JWTExpire); err != nil {
		errs = append(errs, fmt.Errorf("JWT_EXPIRE: %w", err))
	}
	return errors.Join(errs...)
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ParseExpiry accepts Go durations ("12h", "90m") plus whole days ("30d").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
