package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Authorization code and consent lifetimes
	CodeTTL    time.Duration
	ConsentTTL time.Duration

	// Access token configuration
	JWTAccessDuration time.Duration
	JWTKeyPath        string

	// System client provisioned at startup; empty role disables it
	SystemClientRole        string
	SystemClientRedirectURI string

	// Server configuration
	ServerPort int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	codeTTL, err := time.ParseDuration(getEnv("AUTH_CODE_TTL", "1m"))
	if err != nil {
		return nil, err
	}

	// CONSENT_TTL of 0 means granted consents never expire
	consentTTL, err := time.ParseDuration(getEnv("CONSENT_TTL", "0s"))
	if err != nil {
		return nil, err
	}

	accessDuration, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_DURATION", "15m"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "owner"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "oauth"),

		CodeTTL:    codeTTL,
		ConsentTTL: consentTTL,

		JWTAccessDuration: accessDuration,
		JWTKeyPath:        getEnv("JWT_KEY_PATH", "keys/private.pem"),

		SystemClientRole:        getEnv("SYSTEM_CLIENT_ROLE", ""),
		SystemClientRedirectURI: getEnv("SYSTEM_CLIENT_REDIRECT_URI", ""),

		ServerPort: getEnvInt("PORT", 8080),
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
