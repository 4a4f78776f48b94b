package api

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends one-way messages, such as reminders, to a fixed chat
type TelegramNotifier struct {
	sender Sender
	chatID int64
}

// NewTelegramNotifier creates a notifier for the owner chat
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("a chat id is required to send notifications")
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &TelegramNotifier{sender: bot, chatID: chatID}, nil
}

// Notify sends text to the chat
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := n.sender.Send(tgbotapi.NewMessage(n.chatID, chunk)); err != nil {
			return fmt.Errorf("failed to send notification: %w", err)
		}
	}
	return nil
}
