package registration

import (
	"context"

	"registrationBot/internal/validator"
	"registrationBot/internal/verification"
)

// Button - inline-кнопка с непрозрачным идентификатором действия
type Button struct {
	Text   string
	Action string
}

// OutgoingMessage описывает сообщение бота независимо от транспорта.
// Непустой RequestContact заменяет inline-клавиатуру кнопкой отправки
// своего номера с этим текстом.
type OutgoingMessage struct {
	Text           string
	Keyboard       [][]Button
	RequestContact string
}

// Messenger - то, что контроллер требует от чат-транспорта.
// Edit возвращает ID сообщения, которое теперь показывает msg.
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg OutgoingMessage) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, msg OutgoingMessage) (int, error)
	Delete(ctx context.Context, chatID int64, messageID int) error
	Notify(ctx context.Context, callbackID, text string, alert bool) error
}

type ContactValidator interface {
	Validate(ctx context.Context, input string) (string, validator.ContactKind, error)
}

type CodeGenerator interface {
	Generate() (string, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, contact, code string) (verification.Channel, error)
}

// Entry - команда /start
type Entry struct {
	UserID  int64
	ChatID  int64
	EventID string
}

// Action - нажатие inline-кнопки
type Action struct {
	EventID    string
	UserID     int64
	ChatID     int64
	MessageID  int
	CallbackID string
	Data       string
}

// SharedContact - контакт, отправленный кнопкой запроса номера
type SharedContact struct {
	PhoneNumber string
	UserID      int64
}

// Message - входящее сообщение пользователя: текст или контакт
type Message struct {
	EventID   string
	UserID    int64
	ChatID    int64
	MessageID int
	Text      string
	Contact   *SharedContact
}
