// Package auth provides authentication via magic link email, API keys,
// and bearer access tokens.
package auth

import "os"

// Config holds authentication configuration.
type Config struct {
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	SMTPFrom      string
	JWTSigningKey string
	DevMode       bool
	BaseURL       string // e.g. http://localhost:8080
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		SMTPHost:      os.Getenv("RF_SMTP_HOST"),
		SMTPPort:      envOrDefault("RF_SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("RF_SMTP_USER"),
		SMTPPass:      os.Getenv("RF_SMTP_PASS"),
		SMTPFrom:      os.Getenv("RF_SMTP_FROM"),
		JWTSigningKey: os.Getenv("RF_JWT_SIGNING_KEY"),
		DevMode:       os.Getenv("RF_DEV_MODE") == "true",
		BaseURL:       envOrDefault("RF_BASE_URL", "http://localhost:8080"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
