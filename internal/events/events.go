// Package events публикует события жизненного цикла регистрации.
package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeCodeSent              Type = "verification_code_sent"
	TypeRegistrationCompleted Type = "registration_completed"
	TypeAccountBlocked        Type = "account_blocked"
)

// Event не содержит персональных данных кроме Telegram ID и канала доставки.
type Event struct {
	ID         string    `json:"event_id"`
	Type       Type      `json:"type"`
	TgUserID   int64     `json:"tg_user_id"`
	Channel    string    `json:"channel,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop используется, когда брокер не настроен
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
