package reporter

import (
	"fmt"
	"html"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-vacancy-collector/internal/config"
)

// Sender is the part of tgbotapi.BotAPI the reporter uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    Sender
	chatID int64
}

func NewTelegramReporter(cfg config.TelegramConfig) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("reporter: init telegram bot: %w", err)
	}
	return NewWithSender(bot, cfg.ChatID), nil
}

func NewWithSender(bot Sender, chatID int64) *TelegramReporter {
	return &TelegramReporter{bot: bot, chatID: chatID}
}

// Summary is what a finished run reports.
type Summary struct {
	Source  string
	RunID   string
	Records int
	Units   int
	Failed  int
	Halted  bool
	Elapsed time.Duration
	Output  string
	Err     error
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("reporter: send: %w", err)
	}
	return nil
}

func (t *TelegramReporter) SendSummary(s Summary) error {
	return t.SendMessage(FormatSummary(s))
}

func FormatSummary(s Summary) string {
	var b strings.Builder

	status := "✅"
	switch {
	case s.Err != nil:
		status = "⚠️"
	case s.Halted:
		status = "⏹"
	}
	fmt.Fprintf(&b, "%s <b>%s</b> run finished\n", status, html.EscapeString(s.Source))
	fmt.Fprintf(&b, "🆔 <code>%s</code>\n", html.EscapeString(s.RunID))
	fmt.Fprintf(&b, "📄 vacancies: %d\n", s.Records)
	fmt.Fprintf(&b, "🔁 units: %d, failed: %d\n", s.Units, s.Failed)
	fmt.Fprintf(&b, "⏱ %s", s.Elapsed.Round(10*time.Millisecond))
	if s.Output != "" {
		fmt.Fprintf(&b, "\n💾 %s", html.EscapeString(s.Output))
	}
	if s.Halted {
		b.WriteString("\nstopped after too many consecutive failures")
	}
	if s.Err != nil {
		fmt.Fprintf(&b, "\n<b>error</b>: %s", html.EscapeString(s.Err.Error()))
	}
	return b.String()
}
