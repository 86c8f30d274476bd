package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	DatabasePath string
	RecipesPath  string
	Port         string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}

	// Optional for CLI runs, required for the webhook bot
	webhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")

	allowed, err := parseUserIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	var adminID int64
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		adminID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/tracker.db"
	}

	recipesPath := os.Getenv("RECIPES_PATH")
	if recipesPath == "" {
		recipesPath = "recipes"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		TelegramBotToken:       botToken,
		TelegramWebhookURL:     webhookURL,
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		DatabasePath:           dbPath,
		RecipesPath:            recipesPath,
		Port:                   port,
	}, nil
}

// IsUserAllowed reports whether the Telegram user may use the bot. An
// empty allowlist means the bot is open to everyone.
func (c *Config) IsUserAllowed(userID int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return userID == c.AdminTelegramID && c.AdminTelegramID != 0
}

// IsAdmin reports whether the user is the configured administrator.
func (c *Config) IsAdmin(userID int64) bool {
	return c.AdminTelegramID != 0 && userID == c.AdminTelegramID
}

func parseUserIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a user ID", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
