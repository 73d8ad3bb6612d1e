// Package conversation хранит временное состояние диалогов регистрации.
package conversation

import (
	"context"

	"registrationBot/internal/domain/models"
)

// Store - хранилище состояния диалога, отдельное от аккаунтов.
// Get возвращает nil без ошибки, если диалога нет.
type Store interface {
	Get(ctx context.Context, tgUserID int64) (*models.Conversation, error)
	Save(ctx context.Context, conv *models.Conversation) error
	Delete(ctx context.Context, tgUserID int64) error
}

// Sweeper реализуют хранилища, которые сами не удаляют брошенные диалоги.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}
