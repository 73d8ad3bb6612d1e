package telegram

import (
	"registrationBot/internal/service/registration"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// InlineKeyboard переводит кнопки контроллера в inline-клавиатуру Telegram
func InlineKeyboard(rows [][]registration.Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))

	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Action))
		}
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(buttons...))
	}

	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// ContactKeyboard - одноразовая клавиатура с кнопкой отправки своего номера
func ContactKeyboard(text string) tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(text),
		),
	)
	keyboard.ResizeKeyboard = true

	return keyboard
}
