// Package notify formats and delivers issue notifications to a single fixed
// Telegram chat.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"issuerelay/internal/log"
)

// sendTimeout bounds the outbound Telegram API call.
const sendTimeout = 10 * time.Second

// DeliveryError wraps any failure to hand a message to Telegram. Delivery
// failures are reported, never raised past the channel boundary.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("telegram delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Telegram delivers rendered messages to one chat, configured at startup.
type Telegram struct {
	bot    *tele.Bot
	chat   tele.ChatID
	logger *slog.Logger
}

// NewTelegram creates the channel. The bot is constructed offline: no
// network call happens until the first Send, so startup does not depend on
// Telegram being reachable.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: sendTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{
		bot:    bot,
		chat:   tele.ChatID(chatID),
		logger: log.WithComponent("telegram"),
	}, nil
}

// Send delivers one HTML-formatted message. Timeout and API errors come back
// as *DeliveryError; retry policy is the caller's concern.
func (t *Telegram) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return &DeliveryError{Err: err}
	}

	// Link preview and notification sound are deliberately left enabled,
	// matching the channel contract: these flags are fixed, not per-call.
	_, err := t.bot.Send(t.chat, message, &tele.SendOptions{
		ParseMode: tele.ModeHTML,
	})
	if err != nil {
		return &DeliveryError{Err: err}
	}
	return nil
}
