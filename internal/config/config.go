package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram settings
	TelegramToken string
	BotUsername   string

	// AI settings
	OpenAIKey     string
	GeminiAPIKey  string // optional fallback provider
	MaxAIRequests int    // daily budget across providers (0 = unlimited)

	// RSS settings
	FeedsConfigPath   string
	MaxNewsPerRequest int

	// App settings
	RequestTimeout      time.Duration
	CacheTimeout        time.Duration
	FeedRefreshInterval time.Duration
	LogLevel            string
	Debug               bool
}

func Load() (*Config, error) {
	// .env is optional; real deployments use plain env vars
	_ = godotenv.Load()

	cfg := &Config{
		FeedsConfigPath:     getEnvOrDefault("FEEDS_CONFIG_PATH", "configs/feeds.yaml"),
		BotUsername:         getEnvOrDefault("BOT_USERNAME", "persian_sports_bot"),
		MaxNewsPerRequest:   getEnvIntOrDefault("MAX_NEWS_PER_REQUEST", 5),
		MaxAIRequests:       getEnvIntOrDefault("MAX_AI_REQUESTS", 50),
		RequestTimeout:      time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT", 10)) * time.Second,
		CacheTimeout:        time.Duration(getEnvIntOrDefault("CACHE_TIMEOUT", 300)) * time.Second,
		FeedRefreshInterval: time.Duration(getEnvIntOrDefault("FEED_REFRESH_INTERVAL", 600)) * time.Second,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if debug := os.Getenv("DEBUG_MODE"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.MaxNewsPerRequest <= 0 {
		return fmt.Errorf("MAX_NEWS_PER_REQUEST must be positive")
	}
	return nil
}
