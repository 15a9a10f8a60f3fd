package config

import (
	"os"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	OpenAIAPIKey  string

	// StrictStatusUpdate requires project membership on the task status
	// endpoint instead of the historical allow-any-authenticated behavior.
	StrictStatusUpdate bool
}

func Load() *Config {
	return &Config{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "pmuser"),
		DBPassword:         getEnv("DB_PASSWORD", "pmpassword"),
		DBName:             getEnv("DB_NAME", "project_management"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		SessionSecret:      getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		StrictStatusUpdate: getEnv("STRICT_STATUS_UPDATE", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
