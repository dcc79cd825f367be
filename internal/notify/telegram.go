package notify

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers fired alarms to a Telegram chat.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	log.Printf("Telegram sender authorized as %s", bot.Self.UserName)
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

func (t *TelegramSender) Send(p Payload) error {
	label := p.Label
	if label == "" {
		label = "Alarm"
	}
	text := fmt.Sprintf("⏰ <b>%s</b>\n\n%s", label, p.Time)

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// LogSender writes fired alarms to the log. It is the fallback delivery
// channel when no Telegram token is configured.
type LogSender struct{}

func (LogSender) Send(p Payload) error {
	label := p.Label
	if label == "" {
		label = "Alarm"
	}
	log.Printf("⏰ %s (%s)", label, p.Time)
	return nil
}
