package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Set via flag, not env
	RunMode string

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort string

	// Email
	SmtpHost         string
	SmtpPort         int
	SmtpUsername     string
	SmtpPassword     string
	SmtpFromAddress  string
	ContactRecipient string

	// App defaults
	AppName           string
	DashboardCacheTTL time.Duration
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	getEnvInt := func(key string, defaultValue int) (int, error) {
		raw, exists := os.LookupEnv(key)
		if !exists {
			return defaultValue, nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %q", key, raw)
		}
		return value, nil
	}

	getEnvDuration := func(key string, defaultValue time.Duration) (time.Duration, error) {
		raw, exists := os.LookupEnv(key)
		if !exists {
			return defaultValue, nil
		}
		value, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
		}
		return value, nil
	}

	var err error

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "prokhoz")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	if cfg.JwtTTL, err = getEnvDuration("JWT_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}

	cfg.ApiPort = getEnv("API_PORT", "5000")

	cfg.SmtpHost = getEnv("SMTP_HOST", "")
	if cfg.SmtpPort, err = getEnvInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SmtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "no-reply@prokhoz.example")
	cfg.ContactRecipient = getEnv("CONTACT_RECIPIENT", cfg.SmtpFromAddress)

	cfg.AppName = getEnv("APP_NAME", "PROKHOZ")
	if cfg.DashboardCacheTTL, err = getEnvDuration("DASHBOARD_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}
