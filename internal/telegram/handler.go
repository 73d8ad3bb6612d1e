package telegram

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"registrationBot/internal/metrics"
	"registrationBot/internal/pkg/logger/sl"
	"registrationBot/internal/service/registration"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

const defaultHandleTimeout = 30 * time.Second

// Controller - сценарий регистрации, которому Handler передает события
type Controller interface {
	Start(ctx context.Context, e registration.Entry) error
	HandleAction(ctx context.Context, a registration.Action) error
	HandleMessage(ctx context.Context, m registration.Message) error
}

type Handler struct {
	log           *slog.Logger
	bot           *tgbotapi.BotAPI
	ctrl          Controller
	dispatcher    *Dispatcher
	metrics       *metrics.Metrics
	pollTimeout   int
	handleTimeout time.Duration
}

func NewHandler(
	log *slog.Logger,
	bot *tgbotapi.BotAPI,
	ctrl Controller,
	dispatcher *Dispatcher,
	m *metrics.Metrics,
	pollTimeout int,
	handleTimeout time.Duration,
) *Handler {
	if handleTimeout <= 0 {
		handleTimeout = defaultHandleTimeout
	}

	return &Handler{
		log:           log,
		bot:           bot,
		ctrl:          ctrl,
		dispatcher:    dispatcher,
		metrics:       m,
		pollTimeout:   pollTimeout,
		handleTimeout: handleTimeout,
	}
}

// Start запускает обработку обновлений от Telegram
func (h *Handler) Start(ctx context.Context) error {
	const op = "telegram.Handler.Start"

	h.log.Info("authorized on account", slog.String("op", op), slog.String("username", h.bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.pollTimeout

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate разбирает обновление и ставит его в очередь пользователя.
// Обрабатываются только личные чаты.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	eventID := uuid.NewString()

	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, eventID, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, eventID, update.Message)
	}
}

func (h *Handler) handleCallback(ctx context.Context, eventID string, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}

	if !strings.HasPrefix(cq.Data, registration.ActionPrefix) {
		h.log.Debug("foreign callback ignored", slog.String("data", cq.Data))
		return
	}

	action := registration.Action{
		EventID:    eventID,
		UserID:     cq.From.ID,
		ChatID:     cq.Message.Chat.ID,
		MessageID:  cq.Message.MessageID,
		CallbackID: cq.ID,
		Data:       cq.Data,
	}

	h.dispatch(ctx, "callback", eventID, action.UserID, func(ctx context.Context) error {
		return h.ctrl.HandleAction(ctx, action)
	})
}

func (h *Handler) handleMessage(ctx context.Context, eventID string, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil || !message.Chat.IsPrivate() {
		return
	}

	userID := message.From.ID

	if message.IsCommand() && message.Command() == "start" {
		entry := registration.Entry{UserID: userID, ChatID: message.Chat.ID, EventID: eventID}

		h.dispatch(ctx, "start", eventID, userID, func(ctx context.Context) error {
			return h.ctrl.Start(ctx, entry)
		})
		return
	}

	msg := registration.Message{
		EventID:   eventID,
		UserID:    userID,
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}

	kind := "message"
	if message.Contact != nil {
		kind = "contact"
		msg.Contact = &registration.SharedContact{
			PhoneNumber: message.Contact.PhoneNumber,
			UserID:      message.Contact.UserID,
		}
	}

	h.dispatch(ctx, kind, eventID, userID, func(ctx context.Context) error {
		return h.ctrl.HandleMessage(ctx, msg)
	})
}

// dispatch выполняет обработку в очереди пользователя. Начатая обработка
// доводится до конца даже после остановки бота.
func (h *Handler) dispatch(ctx context.Context, kind, eventID string, userID int64, fn func(context.Context) error) {
	const op = "telegram.Handler.dispatch"

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", kind),
		slog.String("event_id", eventID),
		slog.Int64("user_id", userID),
	)

	accepted := h.dispatcher.Dispatch(userID, func() {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.handleTimeout)
		defer cancel()

		start := time.Now()
		err := fn(jobCtx)
		h.metrics.ObserveUpdate(kind, start, err)

		if err != nil {
			log.Error("failed to handle update", sl.Err(err))
			return
		}

		log.Debug("update handled", slog.Duration("took", time.Since(start)))
	})

	if !accepted {
		log.Warn("dispatcher is closed, update dropped")
	}
}
