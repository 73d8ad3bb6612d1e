package validator

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const MinPasswordLength = 8

var (
	ErrPasswordTooShort  = errors.New("Пароль должен содержать минимум 8 символов")
	ErrPasswordNoUpper   = errors.New("Пароль должен содержать хотя бы одну заглавную букву")
	ErrPasswordNoLower   = errors.New("Пароль должен содержать хотя бы одну строчную букву")
	ErrPasswordNoDigit   = errors.New("Пароль должен содержать хотя бы одну цифру")
	ErrPasswordNoSpecial = errors.New("Пароль должен содержать хотя бы один специальный символ")
)

// ValidatePassword возвращает первую невыполненную проверку в порядке:
// длина, заглавная, строчная, цифра, спецсимвол.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}

		if unicode.IsDigit(r) {
			hasDigit = true
		}

		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}

	return nil
}
