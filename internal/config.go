package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment. A .env
// file is honored for local development; real deployments set the variables
// directly.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string

	// Optional read-through cache for season aggregates. Empty disables it.
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	// Resend-compatible mail API. Empty key disables outbound mail.
	ResendAPIKey  string
	ResendBaseURL string
	MailFrom      string

	CookieSecure bool
}

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Port:          os.Getenv("PORT"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		ResendBaseURL: os.Getenv("RESEND_BASE_URL"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "1",
	}

	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ResendBaseURL == "" {
		cfg.ResendBaseURL = "https://api.resend.com"
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = "Inter de Verdún <onboarding@resend.dev>"
	}

	var err error
	cfg.CacheTTL, err = getDuration("CACHE_TTL", 60*time.Second)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

func getDuration(envKey string, defaultVal time.Duration) (time.Duration, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format for %s: %w", envKey, err)
	}
	return d, nil
}
