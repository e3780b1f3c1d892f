// Package config provides configuration for the gateway.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the gateway configuration.
type Config struct {
	// Server settings
	HTTPPort   int
	CORSOrigin string

	// Database (transcript mirror)
	DatabaseURL string

	// Upstream LLM settings
	LLMBaseURL      string
	LLMAPIKey       string
	LLMTimeout      time.Duration
	GenerationModel string
	ClassifierModel string

	// Limits
	DocContextMaxChars int
	MaxUploadBytes     int64

	// Logging
	LogLevel string
}

// Load loads configuration from the environment, reading a .env file first
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:           getEnvInt("HTTP_PORT", 5000),
		CORSOrigin:         getEnv("CORS_ORIGIN", "http://localhost:5173"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:gateway.db?cache=shared&mode=rwc"),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:4000"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		LLMTimeout:         time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		GenerationModel:    getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
		ClassifierModel:    getEnv("CLASSIFIER_MODEL", "gemini-2.0-flash"),
		DocContextMaxChars: getEnvInt("DOC_CONTEXT_MAX_CHARS", 8000),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
