// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, read from environment variables.
type Config struct {
	DiscordToken string
	OpenAIAPIKey string

	ChatModel      string
	EmbeddingModel string
	Temperature    float32

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CallTimeout time.Duration

	LogLevel  string
	LogPretty bool
}

// Load reads configuration from environment variables, applying defaults
// for everything except the two credentials.
func Load() (Config, error) {
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		return Config{}, fmt.Errorf("DISCORD_TOKEN is required in environment")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required in environment")
	}

	return Config{
		DiscordToken: token,
		OpenAIAPIKey: apiKey,

		ChatModel:      envOrDefault("UPSY_CHAT_MODEL", "gpt-4"),
		EmbeddingModel: envOrDefault("UPSY_EMBEDDING_MODEL", "text-embedding-ada-002"),
		Temperature:    float32(envFloatOrDefault("UPSY_TEMPERATURE", 0)),

		DBHost:     envOrDefault("DB_HOST", "localhost"),
		DBUser:     envOrDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOrDefault("DB_NAME", "upsy"),
		DBPort:     envIntOrDefault("DB_PORT", 5432),

		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOrDefault("REDIS_DB", 0),

		CallTimeout: time.Duration(envIntOrDefault("UPSY_CALL_TIMEOUT_SECONDS", 30)) * time.Second,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogPretty: envBoolOrDefault("LOG_PRETTY", false),
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloatOrDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envBoolOrDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
