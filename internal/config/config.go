// Package config builds the process configuration from environment
// variables. It is loaded once in main and passed down explicitly; nothing
// in the codebase reads the environment after startup.
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
	Addr string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// JWTSecret signs every token (HS256). The signing algorithm is fixed
	// in the token codec and is not configurable.
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	EmailTokenTTL   time.Duration

	// BaseURL is the address this API is reachable at. FrontendURL, when
	// set, is preferred for links embedded in outbound mail.
	BaseURL     string
	FrontendURL string

	CORSOrigins []string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

func Load() (*Config, error) {
	cfg := &Config{
		Addr:            getEnv("ADDR", "0.0.0.0:8080"),
		DBHost:          getEnv("POSTGRES_HOST", "localhost"),
		DBPort:          getEnv("POSTGRES_PORT", "5432"),
		DBUser:          getEnv("POSTGRES_USER", "postgres"),
		DBPassword:      getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:          getEnv("POSTGRES_DB", "steptzi"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshTokenTTL: time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", 30)) * 24 * time.Hour,
		EmailTokenTTL:   time.Duration(getEnvInt("EMAIL_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:     os.Getenv("FRONTEND_URL"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "*")),
		SMTPHost:        getEnv("SMTP_HOST", "localhost"),
		SMTPPort:        getEnvInt("SMTP_PORT", 587),
		SMTPUsername:    os.Getenv("SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:        getEnv("SMTP_FROM", "no-reply@steptzi.com.ng"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// LinkBase is the base URL for verification and password-reset links:
// the frontend when one is configured, this API otherwise.
func (c *Config) LinkBase() string {
	if c.FrontendURL != "" {
		return c.FrontendURL
	}
	return c.BaseURL
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
