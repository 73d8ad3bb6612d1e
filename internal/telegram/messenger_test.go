package telegram

import (
	"context"
	"errors"
	"testing"

	"registrationBot/internal/service/registration"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent       []tgbotapi.Chattable
	requests   []tgbotapi.Chattable
	requestErr error
	nextID     int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	if b.requestErr != nil {
		return nil, b.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

var menuRows = [][]registration.Button{
	{{Text: "Имя", Action: registration.ActionName}},
	{{Text: "Готово", Action: registration.ActionComplete}},
}

func TestMessenger_SendInlineKeyboard(t *testing.T) {
	bot := &fakeBot{}
	m := NewMessenger(bot)

	id, err := m.Send(context.Background(), 10, registration.OutgoingMessage{Text: "menu", Keyboard: menuRows})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	cfg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(10), cfg.ChatID)
	assert.Equal(t, "menu", cfg.Text)

	keyboard, ok := cfg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, keyboard.InlineKeyboard, 2)
	require.NotNil(t, keyboard.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, registration.ActionComplete, *keyboard.InlineKeyboard[1][0].CallbackData)
}

func TestMessenger_SendContactRequest(t *testing.T) {
	bot := &fakeBot{}
	m := NewMessenger(bot)

	_, err := m.Send(context.Background(), 10, registration.OutgoingMessage{Text: "share", RequestContact: "Отправить номер телефона"})
	require.NoError(t, err)

	cfg := bot.sent[0].(tgbotapi.MessageConfig)
	keyboard, ok := cfg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, keyboard.OneTimeKeyboard)
	assert.True(t, keyboard.Keyboard[0][0].RequestContact)
	assert.Equal(t, "Отправить номер телефона", keyboard.Keyboard[0][0].Text)
}

func TestMessenger_Edit(t *testing.T) {
	bot := &fakeBot{}
	m := NewMessenger(bot)

	id, err := m.Edit(context.Background(), 10, 77, registration.OutgoingMessage{Text: "prompt", Keyboard: menuRows})
	require.NoError(t, err)
	assert.Equal(t, 77, id)

	cfg, ok := bot.requests[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 77, cfg.MessageID)
	assert.Equal(t, "prompt", cfg.Text)
	require.NotNil(t, cfg.ReplyMarkup)

	_, err = m.Edit(context.Background(), 10, 78, registration.OutgoingMessage{Text: "code"})
	require.NoError(t, err)
	assert.Nil(t, bot.requests[1].(tgbotapi.EditMessageTextConfig).ReplyMarkup)

	_, err = m.Edit(context.Background(), 10, 79, registration.OutgoingMessage{RequestContact: "x"})
	require.ErrorIs(t, err, ErrUnsupportedEdit)
}

func TestMessenger_EditNotModified(t *testing.T) {
	bot := &fakeBot{requestErr: errors.New("Bad Request: message is not modified")}
	m := NewMessenger(bot)

	id, err := m.Edit(context.Background(), 10, 5, registration.OutgoingMessage{Text: "same"})
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	bot.requestErr = errors.New("Bad Request: message to edit not found")
	_, err = m.Edit(context.Background(), 10, 5, registration.OutgoingMessage{Text: "same"})
	require.Error(t, err)
}

func TestMessenger_DeleteAndNotify(t *testing.T) {
	bot := &fakeBot{}
	m := NewMessenger(bot)

	require.NoError(t, m.Delete(context.Background(), 10, 3))
	del, ok := bot.requests[0].(tgbotapi.DeleteMessageConfig)
	require.True(t, ok)
	assert.Equal(t, 3, del.MessageID)

	require.NoError(t, m.Notify(context.Background(), "cb-1", "❌ Сначала укажите имя!", true))
	cb, ok := bot.requests[1].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.True(t, cb.ShowAlert)
	assert.Equal(t, "cb-1", cb.CallbackQueryID)

	bot.requestErr = errors.New("query is too old")
	require.Error(t, m.Notify(context.Background(), "cb-2", "", false))
}
