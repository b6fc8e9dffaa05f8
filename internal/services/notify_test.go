package services

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crmdash/internal/models"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, b.err
}

func TestNewTelegramNotifier_NoToken(t *testing.T) {
	n, err := NewTelegramNotifier("", 0, nil)
	require.NoError(t, err)
	assert.IsType(t, NopNotifier{}, n)

	_, err = NewTelegramNotifier("123:abc", 0, nil)
	assert.Error(t, err)
}

func TestTelegramNotifier_DealWon(t *testing.T) {
	bot := &fakeBot{}
	n := &TelegramNotifier{bot: bot, chatID: 42, log: zap.NewNop()}
	d := &models.Deal{ID: "1", Title: "Cloud Migration", Value: 150000,
		ExpectedCloseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, n.DealWon(context.Background(), d))
	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Cloud Migration")
	assert.Contains(t, msg.Text, "$150,000")
	assert.Contains(t, msg.Text, "Mar 1, 2024")

	bot.err = errBoom
	assert.ErrorIs(t, n.DealWon(context.Background(), d), errBoom)
}
