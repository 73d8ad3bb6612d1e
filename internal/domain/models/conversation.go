package models

import (
	"slices"
	"time"
)

// DialogueMode - активный шаг диалога регистрации
type DialogueMode string

const (
	ModeIdle                     DialogueMode = ""
	ModeEditingName              DialogueMode = "editing_name"
	ModeEditingContact           DialogueMode = "editing_contact"
	ModeEditingPassword          DialogueMode = "editing_password"
	ModeEditingPasswordConfirm   DialogueMode = "editing_password_confirm"
	ModeAwaitingVerificationCode DialogueMode = "awaiting_verification_code"

	// Терминальные режимы: после перехода в них состояние диалога удаляется
	ModeComplete DialogueMode = "complete"
	ModeBlocked  DialogueMode = "blocked"
)

func (m DialogueMode) String() string {
	if m == ModeIdle {
		return "idle"
	}
	return string(m)
}

// Editing сообщает, ожидает ли режим ввода значения поля.
func (m DialogueMode) Editing() bool {
	switch m {
	case ModeEditingName, ModeEditingContact, ModeEditingPassword, ModeEditingPasswordConfirm:
		return true
	}
	return false
}

// AcceptsInput сообщает, ожидает ли бот текстового ввода в этом режиме.
func (m DialogueMode) AcceptsInput() bool {
	return m.Editing() || m == ModeAwaitingVerificationCode
}

// Field - одно из четырех собираемых полей
type Field string

const (
	FieldName            Field = "name"
	FieldContact         Field = "contact"
	FieldPassword        Field = "password"
	FieldPasswordConfirm Field = "password_confirm"
)

// Conversation - временные данные диалога регистрации одного пользователя.
// Живет отдельно от Account и удаляется по завершении регистрации или блокировке.
type Conversation struct {
	TgUserID int64        `json:"tg_user_id"`
	Mode     DialogueMode `json:"mode"`

	Name            string `json:"name,omitempty"`
	Contact         string `json:"contact,omitempty"`
	Password        string `json:"password,omitempty"`
	PasswordConfirm string `json:"password_confirm,omitempty"`

	VerificationCode     string    `json:"verification_code,omitempty"`
	CodeIssuedAt         time.Time `json:"code_issued_at,omitempty"`
	VerificationAttempts int       `json:"verification_attempts"`

	// BotMessageID - единственное "живое" сообщение-приглашение
	BotMessageID    int   `json:"bot_message_id,omitempty"`
	ErrorMessageIDs []int `json:"error_message_ids,omitempty"`
	LastMessages    []int `json:"last_messages,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation создает пустой диалог в режиме Idle.
func NewConversation(tgUserID int64) *Conversation {
	return &Conversation{TgUserID: tgUserID, Mode: ModeIdle}
}

// Value возвращает текущее значение поля.
func (c *Conversation) Value(f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldContact:
		return c.Contact
	case FieldPassword:
		return c.Password
	case FieldPasswordConfirm:
		return c.PasswordConfirm
	}
	return ""
}

// Has сообщает, заполнено ли поле.
func (c *Conversation) Has(f Field) bool {
	return c.Value(f) != ""
}

// Set записывает значение поля. Новый пароль всегда сбрасывает подтверждение.
func (c *Conversation) Set(f Field, value string) {
	switch f {
	case FieldName:
		c.Name = value
	case FieldContact:
		c.Contact = value
	case FieldPassword:
		c.Password = value
		c.PasswordConfirm = ""
	case FieldPasswordConfirm:
		c.PasswordConfirm = value
	}
}

// MissingPrerequisite возвращает первое незаполненное поле, без которого
// нельзя перейти к редактированию f.
func (c *Conversation) MissingPrerequisite(f Field) (Field, bool) {
	var required []Field

	switch f {
	case FieldContact:
		required = []Field{FieldName}
	case FieldPassword:
		required = []Field{FieldName, FieldContact}
	case FieldPasswordConfirm:
		required = []Field{FieldName, FieldContact, FieldPassword}
	}

	for _, r := range required {
		if !c.Has(r) {
			return r, true
		}
	}

	return "", false
}

// Filled сообщает, заполнены ли все четыре поля.
func (c *Conversation) Filled() bool {
	return c.Has(FieldName) && c.Has(FieldContact) && c.Has(FieldPassword) && c.Has(FieldPasswordConfirm)
}

// AnyFilled сообщает, заполнено ли хотя бы одно поле.
func (c *Conversation) AnyFilled() bool {
	return c.Has(FieldName) || c.Has(FieldContact) || c.Has(FieldPassword) || c.Has(FieldPasswordConfirm)
}

// Profile возвращает собранные данные для записи в аккаунт.
func (c *Conversation) Profile() Profile {
	return Profile{Name: c.Name, Contact: c.Contact, Password: c.Password}
}

// AddError запоминает сообщение об ошибке для последующей очистки.
func (c *Conversation) AddError(messageID int) {
	if messageID == 0 || slices.Contains(c.ErrorMessageIDs, messageID) {
		return
	}
	c.ErrorMessageIDs = append(c.ErrorMessageIDs, messageID)
}

// TakeErrors возвращает и очищает накопленные сообщения об ошибках.
func (c *Conversation) TakeErrors() []int {
	ids := c.ErrorMessageIDs
	c.ErrorMessageIDs = nil
	return ids
}

// TakeLastMessages возвращает и очищает вспомогательные сообщения.
func (c *Conversation) TakeLastMessages() []int {
	ids := c.LastMessages
	c.LastMessages = nil
	return ids
}

// CodeExpired сообщает, истек ли срок действия выданного кода.
func (c *Conversation) CodeExpired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || c.CodeIssuedAt.IsZero() {
		return false
	}
	return now.After(c.CodeIssuedAt.Add(ttl))
}
