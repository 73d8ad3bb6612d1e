package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"registrationBot/internal/service/registration"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrUnsupportedEdit = errors.New("reply keyboard cannot be set by editing a message")

// BotAPI - часть *tgbotapi.BotAPI, нужная для отправки сообщений
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger реализует registration.Messenger поверх Bot API
type Messenger struct {
	bot BotAPI
}

func NewMessenger(bot BotAPI) *Messenger {
	return &Messenger{bot: bot}
}

func (m *Messenger) Send(_ context.Context, chatID int64, msg registration.OutgoingMessage) (int, error) {
	cfg := tgbotapi.NewMessage(chatID, msg.Text)

	switch {
	case msg.RequestContact != "":
		cfg.ReplyMarkup = ContactKeyboard(msg.RequestContact)
	case len(msg.Keyboard) > 0:
		cfg.ReplyMarkup = InlineKeyboard(msg.Keyboard)
	}

	sent, err := m.bot.Send(cfg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}

	return sent.MessageID, nil
}

// Edit заменяет текст и inline-клавиатуру. Сообщение без клавиатуры
// теряет прежние кнопки.
func (m *Messenger) Edit(_ context.Context, chatID int64, messageID int, msg registration.OutgoingMessage) (int, error) {
	if msg.RequestContact != "" {
		return 0, ErrUnsupportedEdit
	}

	cfg := tgbotapi.NewEditMessageText(chatID, messageID, msg.Text)
	if len(msg.Keyboard) > 0 {
		keyboard := InlineKeyboard(msg.Keyboard)
		cfg.ReplyMarkup = &keyboard
	}

	if _, err := m.bot.Request(cfg); err != nil {
		if isNotModified(err) {
			return messageID, nil
		}
		return 0, fmt.Errorf("edit message %d: %w", messageID, err)
	}

	return messageID, nil
}

func (m *Messenger) Delete(_ context.Context, chatID int64, messageID int) error {
	if _, err := m.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message %d: %w", messageID, err)
	}
	return nil
}

func (m *Messenger) Notify(_ context.Context, callbackID, text string, alert bool) error {
	cfg := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}

	if _, err := m.bot.Request(cfg); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
