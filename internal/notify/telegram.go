package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramClient adapts the Telegram Bot API to the Sender and Source
// interfaces. One client serves both the outbound approval batch and the
// inbound goal intake.
type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramClient initializes the bot connection.
func NewTelegramClient(token string, chatID int64) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init failed: %w", err)
	}
	return &TelegramClient{bot: bot, chatID: chatID}, nil
}

// Send delivers a batch message to the configured chat.
func (t *TelegramClient) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}

// FetchSince retrieves updates newer than lastID using the bot API's
// offset semantics (offset = last update id + 1).
func (t *TelegramClient) FetchSince(ctx context.Context, lastID int64) ([]InboundMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := tgbotapi.NewUpdate(int(lastID) + 1)
	u.Timeout = 0

	updates, err := t.bot.GetUpdates(u)
	if err != nil {
		return nil, fmt.Errorf("telegram poll failed: %w", err)
	}

	var messages []InboundMessage
	for _, update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		messages = append(messages, InboundMessage{
			ID:       int64(update.UpdateID),
			SenderID: update.Message.From.ID,
			Text:     update.Message.Text,
		})
	}

	return messages, nil
}

// Ensure TelegramClient implements both collaborator interfaces
var (
	_ Sender = (*TelegramClient)(nil)
	_ Source = (*TelegramClient)(nil)
)
