// Package notify sends operational Telegram alerts: run summaries and
// persistence failures. Notifications are best-effort and never fail the
// pipeline.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Min interval between any two Telegram messages to the same chat to avoid
// 429 Too Many Requests (~30/min limit).
const sendInterval = 2 * time.Second

// TelegramNotifier posts to one chat. A nil *TelegramNotifier is valid and
// does nothing, so callers never branch on whether alerting is configured.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	lastSend time.Time
}

// NewTelegramNotifier creates the notifier, or returns nil when the token is
// empty or the bot cannot be reached.
func NewTelegramNotifier(token string, chatID int64) *TelegramNotifier {
	if token == "" || chatID == 0 {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Failed to create telegram bot", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Error("Failed to get bot info", "error", err)
		return nil
	}

	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// RunSummary posts the per-source counters after a pipeline run.
func (n *TelegramNotifier) RunSummary(source string, processed, matched, unmatched, skipped int, took time.Duration) {
	n.send(fmt.Sprintf(
		"📊 %s run finished\nprocessed: %d\nmatched: %d\nunmatched: %d\nskipped: %d\ntook: %s",
		source, processed, matched, unmatched, skipped, took.Round(time.Second),
	))
}

// BatchFailure reports a discarded persistence batch.
func (n *TelegramNotifier) BatchFailure(source string, operations int, err error) {
	n.send(fmt.Sprintf("⚠️ %s: batch of %d merges discarded\n%v", source, operations, err))
}

func (n *TelegramNotifier) send(text string) {
	if n == nil {
		return
	}

	n.mu.Lock()
	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}
	n.lastSend = time.Now()
	n.mu.Unlock()

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram message", "error", err)
	}
}
