package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	DeepseekAPIKey  string
	DeepseekBaseURL string
	Model           string
	Timeout         time.Duration
	MaxRetries      int
	UseMock         bool
}

type RateLimitConfig struct {
	DefaultPerMinute int
	AdminPerMinute   int
	AuthPerMinute    int
	Whitelist        []string
}

type CacheConfig struct {
	SessionCapacity int
	SessionTTL      time.Duration
	HistoryWindow   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	apiKey := getEnv("DEEPSEEK_API_KEY", "")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			DeepseekAPIKey:  apiKey,
			DeepseekBaseURL: getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			Model:           getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			Timeout:         getEnvAsDuration("DEEPSEEK_TIMEOUT", 60*time.Second),
			MaxRetries:      getEnvAsInt("DEEPSEEK_MAX_RETRIES", 3),
			UseMock:         getEnvAsBool("USE_MOCK_RESPONSE", apiKey == ""),
		},
		RateLimit: RateLimitConfig{
			DefaultPerMinute: getEnvAsInt("RATE_LIMIT_DEFAULT", 30),
			AdminPerMinute:   getEnvAsInt("RATE_LIMIT_ADMIN", 60),
			AuthPerMinute:    getEnvAsInt("RATE_LIMIT_AUTH", 5),
			Whitelist:        getEnvAsList("RATE_LIMIT_WHITELIST"),
		},
		Cache: CacheConfig{
			SessionCapacity: getEnvAsInt("SESSION_CACHE_CAPACITY", 1024),
			SessionTTL:      getEnvAsDuration("SESSION_CACHE_TTL", 300*time.Second),
			HistoryWindow:   getEnvAsInt("HISTORY_WINDOW", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	return fallback
}

func getEnvAsList(key string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return nil
	}
	parts := strings.Split(strValue, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
