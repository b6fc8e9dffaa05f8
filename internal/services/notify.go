package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"crmdash/internal/format"
	"crmdash/internal/models"
)

// Notifier is told about won deals.
type Notifier interface {
	DealWon(ctx context.Context, d *models.Deal) error
}

type NopNotifier struct{}

func (NopNotifier) DealWon(context.Context, *models.Deal) error { return nil }

// botSender is the slice of *tgbotapi.BotAPI the notifier needs.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    botSender
	chatID int64
	log    *zap.Logger
}

// NewTelegramNotifier logs the bot in. An empty token yields NopNotifier.
func NewTelegramNotifier(token string, chatID int64, log *zap.Logger) (Notifier, error) {
	if token == "" {
		return NopNotifier{}, nil
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	client := &http.Client{Timeout: 10 * time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	log.Info("[notify][telegram] authorized", zap.String("bot", bot.Self.UserName))
	return &TelegramNotifier{bot: bot, chatID: chatID, log: log}, nil
}

func (n *TelegramNotifier) DealWon(ctx context.Context, d *models.Deal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, DealWonMessage(d))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	n.log.Info("[notify][telegram] deal won sent", zap.String("deal", d.ID))
	return nil
}

func DealWonMessage(d *models.Deal) string {
	return fmt.Sprintf("🎉 Deal won: %s\nValue: %s\nExpected close: %s",
		d.Title, format.Currency(d.Value), format.Date(d.ExpectedCloseDate))
}
