package api

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abelzeko/brew-bot/internal/usecases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent chan tgbotapi.MessageConfig
	err  error
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan tgbotapi.MessageConfig, 16)}
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent <- c.(tgbotapi.MessageConfig)
	return tgbotapi.Message{}, nil
}

func (s *recordingSender) next(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	select {
	case msg := <-s.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("nothing sent")
		return tgbotapi.MessageConfig{}
	}
}

func commandMessage(chatID int64, text string) *tgbotapi.Message {
	command, _, _ := strings.Cut(text, " ")
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{UserName: "brewer"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}},
	}
}

func newTestBot(t *testing.T, owner int64) (*TelegramBot, *recordingSender) {
	t.Helper()
	router, _ := newTestRouter(t, nil)
	sender := newRecordingSender()
	bot := newTelegramBot(nil, sender, owner, router.brew, router.calc, 10*time.Millisecond)
	t.Cleanup(bot.live.Close)
	return bot, sender
}

func TestHandleMessageRepliesToCommand(t *testing.T) {
	bot, sender := newTestBot(t, 42)
	bot.handleMessage(context.Background(), commandMessage(42, "/abv 1.050 1.010"))

	msg := sender.next(t)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "ABV: 5.25%")
}

func TestHandleMessageRejectsForeignChat(t *testing.T) {
	bot, sender := newTestBot(t, 42)
	bot.handleMessage(context.Background(), commandMessage(7, "/stats"))

	msg := sender.next(t)
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, "This is a private brewing bot.", msg.Text)
}

func TestHandleMessageLivePublishes(t *testing.T) {
	bot, sender := newTestBot(t, 0)
	ctx := context.Background()

	bot.handleMessage(ctx, commandMessage(5, "/live sg"))
	assert.Contains(t, sender.next(t).Text, "Live sg started")

	bot.handleMessage(ctx, commandMessage(5, "/set sg 1.050"))
	msg := sender.next(t)
	assert.Equal(t, int64(5), msg.ChatID)
	assert.Equal(t, "⚡ 1.050 SG = 12.4 °Bx", msg.Text)
}

func TestHandleMessageIgnoresEmptyText(t *testing.T) {
	bot, sender := newTestBot(t, 0)
	bot.handleMessage(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}})
	assert.Empty(t, sender.sent)
}

func TestSendSurvivesErrors(t *testing.T) {
	bot, sender := newTestBot(t, 0)
	sender.err = errors.New("blocked by user")
	bot.send(context.Background(), 1, "hello")
	assert.Empty(t, sender.sent)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))
	assert.Nil(t, splitMessage("", 10))

	chunks := splitMessage("line one\nline two\nline three", 12)
	assert.Equal(t, []string{"line one\n", "line two\n", "line three"}, chunks)

	// Multi-byte runes stay whole
	chunks = splitMessage(strings.Repeat("é", 10), 5)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 5)
		assert.True(t, strings.HasPrefix(c, "é"))
	}
	assert.Equal(t, strings.Repeat("é", 10), strings.Join(chunks, ""))

	// Stray continuation bytes still split into bounded chunks
	garbage := strings.Repeat("\x80", 23)
	chunks = splitMessage(garbage, 5)
	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 5)
	}
	assert.Equal(t, garbage, strings.Join(chunks, ""))
}

func TestTelegramNotifier(t *testing.T) {
	sender := newRecordingSender()
	n := &TelegramNotifier{sender: sender, chatID: 99}
	require.NoError(t, n.Notify(context.Background(), "Check the porter"))
	msg := sender.next(t)
	assert.Equal(t, int64(99), msg.ChatID)
	assert.Equal(t, "Check the porter", msg.Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Notify(ctx, "late"), context.Canceled)

	_, err := NewTelegramNotifier("token", 0)
	assert.Error(t, err)
}

var _ usecases.Notifier = (*TelegramNotifier)(nil)
