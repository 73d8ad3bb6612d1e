package validator

import (
	"context"
	"fmt"
	"strings"
)

// ContactKind - способ доставки кода подтверждения
type ContactKind string

const (
	KindPhone ContactKind = "phone"
	KindEmail ContactKind = "email"
)

// ContactError объединяет причины отказа для обеих интерпретаций ввода.
type ContactError struct {
	Phone error
	Email error
}

func (e *ContactError) Error() string {
	return fmt.Sprintf("Ошибка проверки телефона: %v\nОшибка проверки email: %v", e.Phone, e.Email)
}

func (e *ContactError) Unwrap() []error {
	return []error{e.Phone, e.Email}
}

// Contact проверяет контакт сначала как телефон, затем как email.
type Contact struct {
	email *Email
}

func NewContact(email *Email) *Contact {
	return &Contact{email: email}
}

// Validate возвращает нормализованный контакт и его тип.
func (c *Contact) Validate(ctx context.Context, input string) (string, ContactKind, error) {
	phone, phoneErr := ValidatePhone(input)
	if phoneErr == nil {
		return phone, KindPhone, nil
	}

	email, emailErr := c.email.Validate(ctx, input)
	if emailErr == nil {
		return email, KindEmail, nil
	}

	return "", "", &ContactError{Phone: phoneErr, Email: emailErr}
}

// KindOf определяет тип уже проверенного контакта.
func KindOf(contact string) ContactKind {
	if strings.Contains(contact, "@") {
		return KindEmail
	}
	return KindPhone
}

// NormalizeContact приводит контакт к виду для сравнения на совпадение:
// номер - к E.164, email - к нижнему регистру. Сеть не используется.
func NormalizeContact(input string) string {
	raw := strings.TrimSpace(input)

	if KindOf(raw) == KindEmail {
		return strings.ToLower(raw)
	}

	if phone, err := NormalizePhone(raw, DefaultRegion); err == nil {
		return phone
	}

	return raw
}

// SameContact сообщает, обозначают ли два ввода один и тот же контакт.
func SameContact(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizeContact(a) == NormalizeContact(b)
}
