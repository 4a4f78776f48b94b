// Package api provides handlers for external APIs and interfaces
package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abelzeko/brew-bot/internal/logger"
	"github.com/abelzeko/brew-bot/internal/usecases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects messages longer than this
const maxMessageLength = 4096

// Sender is the part of the Telegram client used to reply
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramBot handles interactions with the Telegram API
type TelegramBot struct {
	bot         *tgbotapi.BotAPI
	sender      Sender
	ownerChatID int64
	router      *CommandRouter
	live        *usecases.LiveCalculator
}

// NewTelegramBot creates a new Telegram bot handler. ownerChatID restricts the bot to
// one chat; 0 lets anyone in.
func NewTelegramBot(botToken string, ownerChatID int64, brew *usecases.BrewUseCase, calc *usecases.CalcUseCase, debounce time.Duration) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return newTelegramBot(bot, bot, ownerChatID, brew, calc, debounce), nil
}

func newTelegramBot(bot *tgbotapi.BotAPI, sender Sender, ownerChatID int64, brew *usecases.BrewUseCase, calc *usecases.CalcUseCase, debounce time.Duration) *TelegramBot {
	t := &TelegramBot{
		bot:         bot,
		sender:      sender,
		ownerChatID: ownerChatID,
	}
	t.live = usecases.NewLiveCalculator(calc, debounce, t.publishLive)
	t.router = NewCommandRouter(brew, calc, t.live)
	return t
}

// Start listens for and handles Telegram messages until ctx is cancelled
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on Telegram account", "username", t.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	slog.Info("Bot is now listening for messages")
	defer t.live.Close()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping Telegram bot")
			t.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			t.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage processes one Telegram message
func (t *TelegramBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx)

	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	log.Info("Received message", "user", username, "chat", message.Chat.ID, "text", message.Text)

	reply := t.reply(ctx, message)
	if reply == "" {
		return
	}
	t.send(ctx, message.Chat.ID, reply)
}

// reply works out the answer to a message. Empty means no answer.
func (t *TelegramBot) reply(ctx context.Context, message *tgbotapi.Message) string {
	if t.ownerChatID != 0 && message.Chat.ID != t.ownerChatID {
		logger.FromContext(ctx).Warn("Rejected message from foreign chat", "chat", message.Chat.ID)
		return "This is a private brewing bot."
	}
	if message.IsCommand() {
		return t.router.Handle(ctx, message.Chat.ID, message.Command(), message.CommandArguments())
	}
	if message.Text == "" {
		return ""
	}
	return t.router.HandleText(ctx, message.Chat.ID, message.Text)
}

// publishLive delivers a live calculator result to its chat
func (t *TelegramBot) publishLive(chatID int64, result string) {
	t.send(context.Background(), chatID, "⚡ "+result)
}

func (t *TelegramBot) send(ctx context.Context, chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := t.sender.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			logger.FromContext(ctx).Error("Error sending message", "chat", chatID, "error", err)
			return
		}
	}
}

// splitMessage cuts text into pieces of at most limit bytes, preferring line breaks
func splitMessage(text string, limit int) []string {
	var chunks []string
	for len(text) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if text[i-1] == '\n' {
				cut = i
				break
			}
		}
		// Never split a UTF-8 sequence
		for cut > 0 && !isRuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			// No rune boundary in reach, the text is not valid UTF-8 here
			cut = limit
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
