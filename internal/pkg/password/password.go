package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Encoder превращает пароль в значение, которое записывается в аккаунт
type Encoder interface {
	Encode(password string) (string, error)
}

// Plain сохраняет пароль как есть.
// Используется по умолчанию, пока не включен security.hash_passwords.
type Plain struct{}

func (Plain) Encode(password string) (string, error) {
	return password, nil
}

// Bcrypt хранит пароль в виде bcrypt-хеша
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Bcrypt{cost: cost}
}

func (b Bcrypt) Encode(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare проверяет пароль по хешу, полученному от Encode
func (b Bcrypt) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// New выбирает кодировщик по настройкам безопасности
func New(hash bool, cost int) Encoder {
	if hash {
		return NewBcrypt(cost)
	}
	return Plain{}
}
