package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/observability"
)

// Notifier доставляет служебные сообщения администраторам. Ошибки доставки
// не прерывают вызывающую операцию.
type Notifier interface {
	NotifyAdmins(ctx context.Context, text string)
	SendDocumentToAdmins(ctx context.Context, name string, data []byte, caption string) error
}

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// New returns a Telegram notifier, or a no-op one when token is empty or no chats are configured.
func New(token string, chatIDs []int64, log *zap.Logger) (Notifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if token == "" || len(chatIDs) == 0 {
		log.Info("telegram notifications disabled")
		return Nop{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.Info("telegram notifications enabled", zap.String("bot", bot.Self.UserName), zap.Int("chats", len(chatIDs)))
	return NewTelegram(bot, chatIDs, log), nil
}

type Telegram struct {
	bot   Sender
	chats []int64
	log   *zap.Logger
}

func NewTelegram(bot Sender, chatIDs []int64, log *zap.Logger) *Telegram {
	if log == nil {
		log = zap.NewNop()
	}
	return &Telegram{bot: bot, chats: chatIDs, log: log.With(zap.String("component", "notify"))}
}

func (t *Telegram) NotifyAdmins(ctx context.Context, text string) {
	for _, chatID := range t.chats {
		if ctx.Err() != nil {
			return
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.DisableWebPagePreview = true
		if _, err := t.send(msg); err != nil {
			t.log.Warn("admin notification failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}

func (t *Telegram) SendDocumentToAdmins(ctx context.Context, name string, data []byte, caption string) error {
	var errs []error
	for _, chatID := range t.chats {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
		doc.Caption = caption
		if _, err := t.send(doc); err != nil {
			t.log.Warn("document delivery failed", zap.Int64("chat_id", chatID), zap.String("file", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

func (t *Telegram) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m, err := t.bot.Send(c)
	if isSystemErr(err) {
		observability.CaptureErr(err)
	}
	return m, err
}

// Считаем системными: 5xx, 429, timeout. 400-ки и типичные телеграм-валидации в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "Bad Request") ||
		strings.Contains(s, "chat not found") ||
		strings.Contains(s, "bot was blocked") {
		return false
	}
	return strings.Contains(s, "429") ||
		strings.Contains(s, "Too Many Requests") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "timeout")
}

type Nop struct{}

func (Nop) NotifyAdmins(context.Context, string) {}

func (Nop) SendDocumentToAdmins(context.Context, string, []byte, string) error { return nil }
