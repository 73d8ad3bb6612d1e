package repository

import (
	"context"
	"errors"

	"registrationBot/internal/domain/models"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountStore - постоянное хранилище аккаунтов, ключ - Telegram ID пользователя.
// Запись поля выполняется только закрытым набором типизированных операций.
type AccountStore interface {
	Exists(ctx context.Context, tgUserID int64) (bool, error)
	IsBlocked(ctx context.Context, tgUserID int64) (bool, error)
	IsAuthorized(ctx context.Context, tgUserID int64) (bool, error)
	Account(ctx context.Context, tgUserID int64) (*models.Account, error)

	// CreateShell идемпотентна: существующая запись не изменяется
	CreateShell(ctx context.Context, tgUserID int64) error
	CompleteRegistration(ctx context.Context, tgUserID int64, profile models.Profile) error
	Block(ctx context.Context, tgUserID int64) error
	TouchLastLogin(ctx context.Context, tgUserID int64) error
}
