// Package config loads brew-bot settings from the environment
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	BotToken         string
	OwnerChatID      int64 // Only this chat may talk to the bot; 0 allows anyone
	DBPath           string
	OpenAIKey        string // Optional, enables free-text questions
	HealthAddr       string // Empty disables the health server
	LogLevel         string
	Debounce         time.Duration
	ReminderSchedule string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:         getEnv("TELEGRAM_BOT_TOKEN", ""),
		DBPath:           getEnv("DB_PATH", ""),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		HealthAddr:       getEnv("HEALTH_ADDR", ":8081"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		ReminderSchedule: getEnv("REMINDER_SCHEDULE", "0 * * * *"),
	}

	if v := getEnv("OWNER_CHAT_ID", ""); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid OWNER_CHAT_ID value: %w", err)
		}
		cfg.OwnerChatID = id
	}

	ms, err := strconv.Atoi(getEnv("DEBOUNCE_MS", "300"))
	if err != nil || ms < 0 {
		return nil, fmt.Errorf("invalid DEBOUNCE_MS value %q", os.Getenv("DEBOUNCE_MS"))
	}
	cfg.Debounce = time.Duration(ms) * time.Millisecond

	return cfg, nil
}

// RequireBot checks the settings every Telegram-facing binary needs
func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
