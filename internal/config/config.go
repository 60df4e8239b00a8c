package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string // sqlite, mysql, postgres
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBDSN         string // overrides the host/port fields when set
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	LogLevel      string
	UploadDir     string
	CORSOrigins   string
}

func Load() *Config {
	// .env is optional; deployments set the environment directly
	_ = godotenv.Load()

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "tracker"),
		DBPassword:    getEnv("DB_PASSWORD", "tracker"),
		DBName:        getEnv("DB_NAME", "issue_tracker"),
		DBDSN:         getEnv("DB_DSN", ""),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
