package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/moodtracker/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Constants for callback data
const (
	callbackMood = "mood:"
)

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start", "help":
		b.send(chatID, "Use /motivated or /unmotivated to record today's mood, /status to see it.", true)
	case "motivated":
		b.send(chatID, b.setMood(ctx, models.Motivated), false)
	case "unmotivated":
		b.send(chatID, b.setMood(ctx, models.Unmotivated), false)
	case "status":
		b.send(chatID, b.statusText(ctx), true)
	default:
		b.send(chatID, "Unknown command. Use /help.", false)
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	reply := "Unknown action"
	if strings.HasPrefix(callback.Data, callbackMood) {
		mood, err := models.ParseMood(strings.TrimPrefix(callback.Data, callbackMood))
		if err != nil {
			b.logger.Warn("Invalid mood callback", zap.String("data", callback.Data))
		} else {
			reply = b.setMood(ctx, mood)
		}
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, reply)); err != nil {
		b.logger.Error("Error answering callback", zap.Error(err))
	}
	b.send(callback.Message.Chat.ID, reply, false)
}

func (b *Bot) setMood(ctx context.Context, mood models.Mood) string {
	day := b.ledger.Today()
	if err := b.ledger.SetMood(ctx, day, mood); err != nil {
		b.logger.Error("Error setting mood from Telegram", zap.String("day", day), zap.Error(err))
		return "Could not save your mood, try again later."
	}
	return fmt.Sprintf("Recorded %s for %s.", mood, day)
}

func (b *Bot) statusText(ctx context.Context) string {
	status, err := b.ledger.Status(ctx)
	if err != nil {
		b.logger.Error("Error getting status", zap.Error(err))
		return "Could not read your mood, try again later."
	}
	if status.EntryExists {
		return fmt.Sprintf("Today (%s): %s", status.Today, status.TodayMood)
	}
	return fmt.Sprintf("Nothing recorded for %s yet. Latest mood: %s", status.Today, status.Mood)
}
