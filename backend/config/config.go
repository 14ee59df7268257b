package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	WaniKaniBaseURL string
	WaniKaniAPIKey  string

	BlobContainer string
	BlobName      string

	// UpdateTime is the daily schedule in "HH:MM" (UTC).
	UpdateTime  string
	HTTPTimeout time.Duration

	// AdminToken, when set, is required as a bearer token on the update
	// endpoint. Empty disables the check.
	AdminToken string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	apiKey := os.Getenv("WANIKANI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("WANIKANI_API_KEY environment variable is not set")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "wkstats"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		WaniKaniBaseURL: getEnv("WANIKANI_BASE_URL", "https://api.wanikani.com"),
		WaniKaniAPIKey:  apiKey,

		BlobContainer: getEnv("BLOB_CONTAINER_NAME", "appdata"),
		BlobName:      getEnv("BLOB_NAME", "wanikani_stats.json"),

		UpdateTime:  getEnv("UPDATE_TIME", "23:59"),
		HTTPTimeout: time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,

		AdminToken: getEnv("ADMIN_TOKEN", ""),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
