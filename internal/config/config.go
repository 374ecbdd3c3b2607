package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string
	LogLevel    string
	LogFormat   string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string

	// JWT configuration
	JWTSecret string

	// internal secret used by the scheduler that triggers the recurring job
	InternalSecret string

	// SMTP configuration
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Stripe configuration
	StripeSecretKey  string
	StripeRefreshURL string
	StripeReturnURL  string

	FrontendAddress string
}

// Load reads configuration from the environment, loading a .env file if one
// can be found in the working directory or its parents.
func Load() (Config, error) {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}
	if _, err := os.Stat(envPath); err == nil {
		_ = godotenv.Load(envPath)
	}

	cfg := Config{
		ServerPort:       getEnv("PORT", "8080"),
		Environment:      getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "console"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "invoicing_crm"),
		RedisAddress:     getEnv("REDIS_ADDRESS", "localhost:6379"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		InternalSecret:   getEnv("INTERNAL_SECRET", "invoicing-internal-secret"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		SMTPFrom:         getEnv("SMTP_FROM", "no-reply@localhost"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeRefreshURL: getEnv("STRIPE_REFRESH_URL", "http://localhost:5173/settings/payments"),
		StripeReturnURL:  getEnv("STRIPE_RETURN_URL", "http://localhost:5173/settings/payments/done"),
		FrontendAddress:  getEnv("FRONTEND_ADDRESS", "http://localhost:5173"),
	}

	if cfg.Environment == "production" {
		missing := []string{}
		if cfg.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET")
		}
		if cfg.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if cfg.StripeSecretKey == "" {
			missing = append(missing, "STRIPE_SECRET_KEY")
		}
		if len(missing) > 0 {
			return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
		}
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "invoicing-dev-secret"
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
