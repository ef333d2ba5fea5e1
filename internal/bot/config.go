package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Only messages from this chat are handled; reminders go here too
	ChatID int64
	// Long polling timeout for getUpdates
	UpdateTimeout time.Duration
}

// DefaultConfig returns the default bot configuration for chatID
func DefaultConfig(chatID int64) *BotConfig {
	return &BotConfig{
		ChatID:        chatID,
		UpdateTimeout: 60 * time.Second,
	}
}
