package bot

import (
	"context"
	"fmt"

	"github.com/example/moodtracker/internal/ledger"
	"github.com/example/moodtracker/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// moodButtons is the keyboard attached to reminders and status replies
func moodButtons() [][]MenuButton {
	return [][]MenuButton{{
		{Text: models.Motivated.String(), CallbackData: callbackMood + "1"},
		{Text: models.Unmotivated.String(), CallbackData: callbackMood + "0"},
	}}
}

// telegramAPI is the subset of *tgbotapi.BotAPI the bot calls
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Ledger is the mood ledger as seen by the bot
type Ledger interface {
	Today() string
	SetMood(ctx context.Context, day string, mood models.Mood) error
	Status(ctx context.Context) (ledger.Status, error)
}

// Bot represents the Telegram bot application
type Bot struct {
	api    telegramAPI
	ledger Ledger
	config *BotConfig
	logger *zap.Logger
}

// New authorizes against the Telegram API with token
func New(token string, config *BotConfig, ledger Ledger, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	logger.Info("Authorized on Telegram", zap.String("account", api.Self.UserName))

	return newBot(api, config, ledger, logger), nil
}

func newBot(api telegramAPI, config *BotConfig, ledger Ledger, logger *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		ledger: ledger,
		config: config,
		logger: logger,
	}
}

// Start handles incoming updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = int(b.config.UpdateTimeout.Seconds())

	updates := b.api.GetUpdatesChan(updateConfig)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop stops long polling
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// SendReminder asks the configured chat to record the mood for day
func (b *Bot) SendReminder(ctx context.Context, day string) error {
	msg := tgbotapi.NewMessage(b.config.ChatID,
		fmt.Sprintf("No mood recorded for %s yet. How was today?", day))
	msg.ReplyMarkup = createKeyboard(moodButtons())

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.Chat == nil || update.Message.Chat.ID != b.config.ChatID {
			return
		}
		if update.Message.IsCommand() {
			b.handleCommand(ctx, update.Message)
		}
	case update.CallbackQuery != nil:
		msg := update.CallbackQuery.Message
		if msg == nil || msg.Chat == nil || msg.Chat.ID != b.config.ChatID {
			return
		}
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) send(chatID int64, text string, withButtons bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	if withButtons {
		msg.ReplyMarkup = createKeyboard(moodButtons())
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Error sending message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
