package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"registrationBot/internal/pkg/logger/sl"
	"registrationBot/internal/validator"
)

var (
	ErrChannelNotConfigured = errors.New("delivery channel is not configured")
	ErrDeliveryFailed       = errors.New("failed to deliver verification code")
)

// Channel - канал, через который ушел код
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type EmailSender interface {
	SendEmailCode(ctx context.Context, address, code string) error
}

type SMSSender interface {
	SendSmsCode(ctx context.Context, phoneNumber, code string) error
}

// Deliverer выбирает канал по виду контакта и отправляет код.
type Deliverer struct {
	log    *slog.Logger
	email  EmailSender
	sms    SMSSender
	region string
}

func NewDeliverer(log *slog.Logger, email EmailSender, sms SMSSender, region string) *Deliverer {
	if region == "" {
		region = validator.DefaultRegion
	}

	return &Deliverer{
		log:    log,
		email:  email,
		sms:    sms,
		region: region,
	}
}

// Deliver отправляет код на контакт. Любая ошибка канала возвращается как ErrDeliveryFailed.
func (d *Deliverer) Deliver(ctx context.Context, contact, code string) (Channel, error) {
	const op = "Deliverer.Deliver"

	log := d.log.With(slog.String("op", op))

	if validator.KindOf(contact) == validator.KindEmail {
		if d.email == nil {
			log.Error("email channel is not configured")
			return ChannelEmail, fmt.Errorf("%w: %w", ErrDeliveryFailed, ErrChannelNotConfigured)
		}

		if err := d.email.SendEmailCode(ctx, contact, code); err != nil {
			log.Error("failed to send email code", sl.Err(err))
			return ChannelEmail, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}

		log.Info("verification code sent", slog.String("channel", string(ChannelEmail)))
		return ChannelEmail, nil
	}

	if d.sms == nil {
		log.Error("sms channel is not configured")
		return ChannelSMS, fmt.Errorf("%w: %w", ErrDeliveryFailed, ErrChannelNotConfigured)
	}

	phone, err := validator.NormalizePhone(contact, d.region)
	if err != nil {
		log.Warn("invalid destination phone", sl.Err(err))
		return ChannelSMS, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	if err := d.sms.SendSmsCode(ctx, phone, code); err != nil {
		log.Error("failed to send sms code", sl.Err(err))
		return ChannelSMS, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	log.Info("verification code sent", slog.String("channel", string(ChannelSMS)))
	return ChannelSMS, nil
}
