package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"registrationBot/internal/conversation"
	"registrationBot/internal/domain/models"
	"registrationBot/internal/events"
	"registrationBot/internal/metrics"
	"registrationBot/internal/pkg/logger/sl"
	"registrationBot/internal/pkg/password"
	"registrationBot/internal/repository"
	"registrationBot/internal/statemachine"
	"registrationBot/internal/validator"

	"github.com/google/uuid"
)

var (
	ErrGuardViolation = errors.New("field prerequisites are not filled")
	ErrDuplicateValue = errors.New("value matches the current one")
	ErrInvalidValue   = errors.New("value failed validation")
)

const DefaultMaxAttempts = 5

var editingFields = map[models.DialogueMode]models.Field{
	models.ModeEditingName:            models.FieldName,
	models.ModeEditingContact:         models.FieldContact,
	models.ModeEditingPassword:        models.FieldPassword,
	models.ModeEditingPasswordConfirm: models.FieldPasswordConfirm,
}

// Controller ведет диалог регистрации: по одному активному режиму на пользователя.
// События одного пользователя обрабатываются строго по очереди.
type Controller struct {
	log           *slog.Logger
	accounts      repository.AccountStore
	conversations conversation.Store
	messenger     Messenger
	contacts      ContactValidator
	codes         CodeGenerator
	deliverer     Deliverer
	passwords     password.Encoder
	publisher     events.Publisher
	metrics       *metrics.Metrics
	sm            *statemachine.StateMachine
	locks         *keyedMutex
	now           func() time.Time
	maxAttempts   int
	codeTTL       time.Duration
}

type Option func(*Controller)

func WithPasswordEncoder(enc password.Encoder) Option {
	return func(c *Controller) { c.passwords = enc }
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithMaxAttempts(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithCodeTTL задает срок действия кода подтверждения, 0 - без ограничения
func WithCodeTTL(ttl time.Duration) Option {
	return func(c *Controller) { c.codeTTL = ttl }
}

func New(
	log *slog.Logger,
	accounts repository.AccountStore,
	conversations conversation.Store,
	messenger Messenger,
	contacts ContactValidator,
	codes CodeGenerator,
	deliverer Deliverer,
	opts ...Option,
) *Controller {
	c := &Controller{
		log:           log,
		accounts:      accounts,
		conversations: conversations,
		messenger:     messenger,
		contacts:      contacts,
		codes:         codes,
		deliverer:     deliverer,
		passwords:     password.Plain{},
		publisher:     events.Noop{},
		sm:            statemachine.NewStateMachine(),
		locks:         newKeyedMutex(),
		now:           time.Now,
		maxAttempts:   DefaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type notice struct {
	text  string
	alert bool
}

// Start обрабатывает /start: создает пустой аккаунт при первом обращении,
// отказывает заблокированным, приветствует зарегистрированных и
// возобновляет регистрацию из Idle для остальных.
func (c *Controller) Start(ctx context.Context, e Entry) error {
	const op = "Registration.Start"

	log := c.log.With(
		slog.String("op", op),
		slog.String("event_id", e.EventID),
		slog.Int64("user_id", e.UserID),
	)

	unlock := c.locks.Lock(e.UserID)
	defer unlock()

	if err := c.start(ctx, log, e); err != nil {
		c.reportFailure(ctx, log, e.ChatID)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Controller) start(ctx context.Context, log *slog.Logger, e Entry) error {
	exists, err := c.accounts.Exists(ctx, e.UserID)
	if err != nil {
		return err
	}

	if !exists {
		if err := c.accounts.CreateShell(ctx, e.UserID); err != nil {
			return err
		}
		log.Info("account shell created")
	}

	blocked, err := c.accounts.IsBlocked(ctx, e.UserID)
	if err != nil {
		return err
	}

	if blocked {
		log.Info("blocked user refused")
		if _, err := c.messenger.Send(ctx, e.ChatID, OutgoingMessage{Text: textBlocked}); err != nil {
			return err
		}
		return nil
	}

	authorized, err := c.accounts.IsAuthorized(ctx, e.UserID)
	if err != nil {
		return err
	}

	if authorized {
		if err := c.accounts.TouchLastLogin(ctx, e.UserID); err != nil {
			return err
		}
		if _, err := c.messenger.Send(ctx, e.ChatID, OutgoingMessage{Text: textWelcomeBack}); err != nil {
			return err
		}
		return nil
	}

	conv, err := c.load(ctx, e.UserID)
	if err != nil {
		return err
	}

	c.clearUI(ctx, e.ChatID, conv)

	if conv.Mode != models.ModeIdle {
		next, err := c.sm.HandleEvent(conv.Mode, statemachine.EventResume)
		if err != nil {
			return err
		}

		log.Info("registration resumed", slog.String("from", conv.Mode.String()))

		conv.Mode = next
		conv.VerificationCode = ""
		conv.CodeIssuedAt = time.Time{}
	}

	id, err := c.messenger.Send(ctx, e.ChatID, OutgoingMessage{Text: menuHeader(conv), Keyboard: menu(conv)})
	if err != nil {
		return err
	}
	conv.BotMessageID = id

	if err := c.conversations.Save(ctx, conv); err != nil {
		return err
	}

	return nil
}

// HandleAction обрабатывает нажатие кнопки меню регистрации.
// На каждый callback отвечает ровно один раз.
func (c *Controller) HandleAction(ctx context.Context, a Action) error {
	const op = "Registration.HandleAction"

	log := c.log.With(
		slog.String("op", op),
		slog.String("event_id", a.EventID),
		slog.Int64("user_id", a.UserID),
		slog.String("action", a.Data),
	)

	unlock := c.locks.Lock(a.UserID)
	defer unlock()

	n, err := c.handleAction(ctx, log, a)
	if err != nil {
		n = notice{text: textTryAgain, alert: true}
	}

	if nerr := c.messenger.Notify(ctx, a.CallbackID, n.text, n.alert); nerr != nil {
		log.Debug("failed to answer callback", sl.Err(nerr))
	}

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Controller) handleAction(ctx context.Context, log *slog.Logger, a Action) (notice, error) {
	account, err := c.accounts.Account(ctx, a.UserID)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		// кнопка старого меню без /start: строка аккаунта появится при записи
	case err != nil:
		return notice{}, err
	case account.IsBlocked:
		return notice{text: textBlocked, alert: true}, nil
	case account.Authorized():
		return notice{text: textAlreadyRegistered}, nil
	}

	conv, err := c.load(ctx, a.UserID)
	if err != nil {
		return notice{}, err
	}

	switch a.Data {
	case ActionName:
		return c.enterEdit(ctx, log, conv, a, models.FieldName)
	case ActionContact:
		return c.enterEdit(ctx, log, conv, a, models.FieldContact)
	case ActionPassword:
		return c.enterEdit(ctx, log, conv, a, models.FieldPassword)
	case ActionPasswordConfirm:
		return c.enterEdit(ctx, log, conv, a, models.FieldPasswordConfirm)
	case ActionBack:
		return c.back(ctx, log, conv, a)
	case ActionUseCurrentPhone:
		return c.offerContactShare(ctx, conv, a)
	case ActionComplete:
		return c.complete(ctx, log, conv, a)
	}

	log.Debug("unknown action")
	return notice{text: textUnavailable}, nil
}

func (c *Controller) enterEdit(ctx context.Context, log *slog.Logger, conv *models.Conversation, a Action, f models.Field) (notice, error) {
	if missing, ok := conv.MissingPrerequisite(f); ok {
		c.metrics.IncFieldRejected(string(f), reasonOf(ErrGuardViolation))
		log.Debug("edit refused", sl.Err(ErrGuardViolation), slog.String("missing", string(missing)))
		return notice{text: guardText(missing), alert: true}, nil
	}

	next, err := c.sm.HandleEvent(conv.Mode, statemachine.EditEvent(f))
	if err != nil {
		return c.refuse(log, err), nil
	}

	c.retire(ctx, a.ChatID, conv.TakeErrors()...)
	c.retire(ctx, a.ChatID, conv.TakeLastMessages()...)

	text := prompts[f].first
	if conv.Has(f) {
		text = prompts[f].overwrite
	}

	if err := c.showPrompt(ctx, conv, a.ChatID, a.MessageID, OutgoingMessage{Text: text, Keyboard: editKeyboard(f)}); err != nil {
		return notice{}, err
	}

	conv.Mode = next

	return notice{}, c.conversations.Save(ctx, conv)
}

func (c *Controller) back(ctx context.Context, log *slog.Logger, conv *models.Conversation, a Action) (notice, error) {
	next, err := c.sm.HandleEvent(conv.Mode, statemachine.EventBack)
	if err != nil {
		return c.refuse(log, err), nil
	}

	c.retire(ctx, a.ChatID, conv.TakeErrors()...)
	c.retire(ctx, a.ChatID, conv.TakeLastMessages()...)
	conv.Mode = next

	if err := c.showPrompt(ctx, conv, a.ChatID, a.MessageID, OutgoingMessage{Text: menuHeader(conv), Keyboard: menu(conv)}); err != nil {
		return notice{}, err
	}

	return notice{}, c.conversations.Save(ctx, conv)
}

func (c *Controller) offerContactShare(ctx context.Context, conv *models.Conversation, a Action) (notice, error) {
	if conv.Mode != models.ModeEditingContact {
		return notice{text: textUnavailable, alert: true}, nil
	}

	id, err := c.messenger.Send(ctx, a.ChatID, OutgoingMessage{
		Text:           textShareContact,
		RequestContact: textShareContactButton,
	})
	if err != nil {
		return notice{}, err
	}

	conv.LastMessages = append(conv.LastMessages, id)

	return notice{}, c.conversations.Save(ctx, conv)
}

// complete генерирует код и отправляет его на собранный контакт.
// Код сохраняется в диалоге только после успешной доставки.
func (c *Controller) complete(ctx context.Context, log *slog.Logger, conv *models.Conversation, a Action) (notice, error) {
	if !conv.Filled() {
		return notice{text: textNotFilled, alert: true}, nil
	}

	if conv.Password != conv.PasswordConfirm {
		return notice{text: textPasswordsMismatchAlert, alert: true}, nil
	}

	next, err := c.sm.HandleEvent(conv.Mode, statemachine.EventCodeSent)
	if err != nil {
		return c.refuse(log, err), nil
	}

	code, err := c.codes.Generate()
	if err != nil {
		return notice{}, fmt.Errorf("generate code: %w", err)
	}

	channel, err := c.deliverer.Deliver(ctx, conv.Contact, code)
	c.metrics.IncCodeSent(string(channel), err)
	if err != nil {
		log.Warn("verification code not delivered", sl.Err(err))
		return notice{text: textDeliveryFailed, alert: true}, nil
	}

	conv.Mode = next
	conv.VerificationCode = code
	conv.CodeIssuedAt = c.now()

	c.retire(ctx, a.ChatID, conv.TakeErrors()...)

	// Код уже доставлен, поэтому без приглашения пользователь все равно может его ввести
	if err := c.showPrompt(ctx, conv, a.ChatID, a.MessageID, OutgoingMessage{Text: codeSentText(channel)}); err != nil {
		log.Warn("failed to show code prompt", sl.Err(err))
	}

	if err := c.conversations.Save(ctx, conv); err != nil {
		return notice{}, err
	}

	log.Info("verification code issued", slog.String("channel", string(channel)))
	c.publish(ctx, log, events.Event{Type: events.TypeCodeSent, TgUserID: conv.TgUserID, Channel: string(channel)})

	return notice{}, nil
}

// HandleMessage обрабатывает текст или контакт пользователя. Ввод вне
// режима редактирования или проверки кода молча удаляется.
func (c *Controller) HandleMessage(ctx context.Context, m Message) error {
	const op = "Registration.HandleMessage"

	log := c.log.With(
		slog.String("op", op),
		slog.String("event_id", m.EventID),
		slog.Int64("user_id", m.UserID),
	)

	unlock := c.locks.Lock(m.UserID)
	defer unlock()

	if err := c.handleMessage(ctx, log, m); err != nil {
		c.reportFailure(ctx, log, m.ChatID)
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Controller) handleMessage(ctx context.Context, log *slog.Logger, m Message) error {
	conv, err := c.conversations.Get(ctx, m.UserID)
	if err != nil {
		return err
	}

	// Ввод пользователя никогда не остается в чате
	c.retire(ctx, m.ChatID, m.MessageID)

	if conv == nil || !conv.Mode.AcceptsInput() {
		return nil
	}

	if m.Contact == nil && m.Text == "" {
		return nil
	}

	blocked, err := c.accounts.IsBlocked(ctx, m.UserID)
	if err != nil {
		return err
	}

	if blocked {
		c.clearUI(ctx, m.ChatID, conv)
		if err := c.conversations.Delete(ctx, m.UserID); err != nil {
			return err
		}
		if _, err := c.messenger.Send(ctx, m.ChatID, OutgoingMessage{Text: textBlocked}); err != nil {
			log.Warn("failed to send blocked notice", sl.Err(err))
		}
		return nil
	}

	log = log.With(slog.String("mode", conv.Mode.String()))

	switch {
	case conv.Mode == models.ModeAwaitingVerificationCode:
		if m.Contact != nil {
			return nil
		}
		err = c.verify(ctx, log, conv, m)
	case m.Contact != nil:
		if conv.Mode != models.ModeEditingContact {
			return nil
		}
		err = c.submitSharedContact(ctx, log, conv, m)
	default:
		err = c.submitField(ctx, log, conv, m.ChatID, editingFields[conv.Mode], m.Text)
	}

	return err
}

type rejection struct {
	reason error
	text   string
}

func (c *Controller) submitField(ctx context.Context, log *slog.Logger, conv *models.Conversation, chatID int64, f models.Field, input string) error {
	value, rej := c.checkField(ctx, conv, f, input)
	if rej != nil {
		return c.reject(ctx, log, conv, chatID, f, rej)
	}

	return c.accept(ctx, log, conv, chatID, f, value)
}

// checkField сначала отсекает повтор текущего значения, затем проверяет формат
func (c *Controller) checkField(ctx context.Context, conv *models.Conversation, f models.Field, input string) (string, *rejection) {
	duplicate := &rejection{reason: ErrDuplicateValue, text: duplicateTexts[f]}

	switch f {
	case models.FieldName:
		value := strings.TrimSpace(input)
		if value == "" {
			return "", &rejection{reason: ErrInvalidValue, text: textNameEmpty}
		}
		if value == conv.Name {
			return "", duplicate
		}
		return value, nil

	case models.FieldContact:
		value := strings.TrimSpace(input)
		if validator.SameContact(value, conv.Contact) {
			return "", duplicate
		}
		normalized, _, err := c.contacts.Validate(ctx, value)
		if err != nil {
			return "", &rejection{reason: fmt.Errorf("%w: %w", ErrInvalidValue, err), text: contactErrorText(err)}
		}
		if normalized == conv.Contact {
			return "", duplicate
		}
		return normalized, nil

	case models.FieldPassword:
		if conv.Has(f) && input == conv.Password {
			return "", duplicate
		}
		if err := validator.ValidatePassword(input); err != nil {
			return "", &rejection{reason: fmt.Errorf("%w: %w", ErrInvalidValue, err), text: weakPasswordText(err)}
		}
		return input, nil

	case models.FieldPasswordConfirm:
		if conv.Has(f) && input == conv.PasswordConfirm {
			return "", duplicate
		}
		if input != conv.Password {
			return "", &rejection{reason: ErrInvalidValue, text: textPasswordMismatch}
		}
		return input, nil
	}

	return "", &rejection{reason: ErrInvalidValue, text: textUnavailable}
}

// submitSharedContact принимает только собственный номер отправителя
// и проверяет его как телефон.
func (c *Controller) submitSharedContact(ctx context.Context, log *slog.Logger, conv *models.Conversation, m Message) error {
	shared := m.Contact

	if shared.UserID != m.UserID {
		return c.reject(ctx, log, conv, m.ChatID, models.FieldContact, &rejection{reason: ErrInvalidValue, text: textForeignContact})
	}

	phone := strings.TrimSpace(shared.PhoneNumber)
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	if validator.SameContact(phone, conv.Contact) {
		return c.reject(ctx, log, conv, m.ChatID, models.FieldContact, &rejection{reason: ErrDuplicateValue, text: duplicateTexts[models.FieldContact]})
	}

	normalized, err := validator.ValidatePhone(phone)
	if err != nil {
		return c.reject(ctx, log, conv, m.ChatID, models.FieldContact, &rejection{
			reason: fmt.Errorf("%w: %w", ErrInvalidValue, err),
			text:   sharedPhoneErrorText(err),
		})
	}

	return c.accept(ctx, log, conv, m.ChatID, models.FieldContact, normalized)
}

// reject показывает ошибку и оставляет прежнее приглашение и прежние ошибки
func (c *Controller) reject(ctx context.Context, log *slog.Logger, conv *models.Conversation, chatID int64, f models.Field, rej *rejection) error {
	c.metrics.IncFieldRejected(string(f), reasonOf(rej.reason))
	log.Debug("field rejected", slog.String("field", string(f)), sl.Err(rej.reason))

	c.sendError(ctx, log, conv, chatID, rej.text)

	return c.conversations.Save(ctx, conv)
}

func (c *Controller) accept(ctx context.Context, log *slog.Logger, conv *models.Conversation, chatID int64, f models.Field, value string) error {
	next, err := c.sm.HandleEvent(conv.Mode, statemachine.EventFieldAccepted)
	if err != nil {
		return err
	}

	c.clearUI(ctx, chatID, conv)

	conv.Set(f, value)
	conv.Mode = next

	c.metrics.IncFieldAccepted(string(f))
	log.Info("field accepted", slog.String("field", string(f)))

	id, err := c.messenger.Send(ctx, chatID, OutgoingMessage{Text: textFillRemaining, Keyboard: menu(conv)})
	if err != nil {
		return errors.Join(err, c.conversations.Save(ctx, conv))
	}
	conv.BotMessageID = id

	return c.conversations.Save(ctx, conv)
}

// verify проверяет лимит попыток до сравнения кода: после исчерпания
// попыток любой следующий ввод блокирует аккаунт.
func (c *Controller) verify(ctx context.Context, log *slog.Logger, conv *models.Conversation, m Message) error {
	if conv.VerificationAttempts >= c.maxAttempts {
		return c.block(ctx, log, conv, m.ChatID)
	}

	if conv.CodeExpired(c.now(), c.codeTTL) {
		return c.expire(ctx, log, conv, m.ChatID)
	}

	if m.Text != conv.VerificationCode {
		conv.VerificationAttempts++
		c.metrics.IncVerificationFailed()
		log.Info("wrong verification code", slog.Int("attempts", conv.VerificationAttempts))

		c.sendError(ctx, log, conv, m.ChatID, wrongCodeText(max(c.maxAttempts-conv.VerificationAttempts, 0)))

		return c.conversations.Save(ctx, conv)
	}

	return c.finish(ctx, log, conv, m.ChatID)
}

func (c *Controller) block(ctx context.Context, log *slog.Logger, conv *models.Conversation, chatID int64) error {
	if _, err := c.sm.HandleEvent(conv.Mode, statemachine.EventAttemptsExhausted); err != nil {
		return err
	}

	if err := c.withShell(ctx, log, conv.TgUserID, func() error {
		return c.accounts.Block(ctx, conv.TgUserID)
	}); err != nil {
		return err
	}

	c.clearUI(ctx, chatID, conv)

	if err := c.conversations.Delete(ctx, conv.TgUserID); err != nil {
		return err
	}

	c.metrics.IncBlocked()
	log.Warn("account blocked after exhausting verification attempts")

	if _, err := c.messenger.Send(ctx, chatID, OutgoingMessage{Text: textAttemptsExhausted}); err != nil {
		log.Warn("failed to send block notice", sl.Err(err))
	}

	c.publish(ctx, log, events.Event{Type: events.TypeAccountBlocked, TgUserID: conv.TgUserID})

	return nil
}

// expire возвращает пользователя в меню; счетчик попыток сохраняется
func (c *Controller) expire(ctx context.Context, log *slog.Logger, conv *models.Conversation, chatID int64) error {
	next, err := c.sm.HandleEvent(conv.Mode, statemachine.EventCodeExpired)
	if err != nil {
		return err
	}

	c.clearUI(ctx, chatID, conv)

	conv.Mode = next
	conv.VerificationCode = ""
	conv.CodeIssuedAt = time.Time{}

	log.Info("verification code expired")

	id, err := c.messenger.Send(ctx, chatID, OutgoingMessage{Text: textCodeExpired, Keyboard: menu(conv)})
	if err != nil {
		return errors.Join(err, c.conversations.Save(ctx, conv))
	}
	conv.BotMessageID = id

	return c.conversations.Save(ctx, conv)
}

func (c *Controller) finish(ctx context.Context, log *slog.Logger, conv *models.Conversation, chatID int64) error {
	if _, err := c.sm.HandleEvent(conv.Mode, statemachine.EventCodeAccepted); err != nil {
		return err
	}

	profile := conv.Profile()

	encoded, err := c.passwords.Encode(profile.Password)
	if err != nil {
		return err
	}
	profile.Password = encoded

	if err := c.withShell(ctx, log, conv.TgUserID, func() error {
		return c.accounts.CompleteRegistration(ctx, conv.TgUserID, profile)
	}); err != nil {
		return err
	}

	c.clearUI(ctx, chatID, conv)

	if err := c.conversations.Delete(ctx, conv.TgUserID); err != nil {
		return err
	}

	c.metrics.IncRegistration()
	log.Info("registration completed")

	if _, err := c.messenger.Send(ctx, chatID, OutgoingMessage{Text: textRegistered}); err != nil {
		log.Warn("failed to send success notice", sl.Err(err))
	}

	c.publish(ctx, log, events.Event{Type: events.TypeRegistrationCompleted, TgUserID: conv.TgUserID})

	return nil
}

// withShell повторяет запись один раз, если строки аккаунта нет:
// диалог мог начаться без /start.
func (c *Controller) withShell(ctx context.Context, log *slog.Logger, userID int64, write func() error) error {
	err := write()
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return err
	}

	log.Warn("account shell missing, recreating")
	if err := c.accounts.CreateShell(ctx, userID); err != nil {
		return err
	}

	return write()
}

func (c *Controller) load(ctx context.Context, userID int64) (*models.Conversation, error) {
	conv, err := c.conversations.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = models.NewConversation(userID)
	}
	return conv, nil
}

// showPrompt делает сообщение sourceID новым приглашением, а если его
// нельзя отредактировать, отправляет новое. Прежнее приглашение удаляется.
func (c *Controller) showPrompt(ctx context.Context, conv *models.Conversation, chatID int64, sourceID int, msg OutgoingMessage) error {
	var (
		id      int
		retired int
	)

	if sourceID != 0 {
		edited, err := c.messenger.Edit(ctx, chatID, sourceID, msg)
		if err != nil {
			c.log.Debug("failed to edit prompt", slog.Int("message_id", sourceID), sl.Err(err))
		} else {
			id = edited
		}
	}

	if id == 0 {
		sent, err := c.messenger.Send(ctx, chatID, msg)
		if err != nil {
			return err
		}
		id = sent

		if sourceID != 0 {
			c.retire(ctx, chatID, sourceID)
			retired = sourceID
		}
	}

	if conv.BotMessageID != 0 && conv.BotMessageID != id && conv.BotMessageID != retired {
		c.retire(ctx, chatID, conv.BotMessageID)
	}
	conv.BotMessageID = id

	return nil
}

func (c *Controller) sendError(ctx context.Context, log *slog.Logger, conv *models.Conversation, chatID int64, text string) {
	id, err := c.messenger.Send(ctx, chatID, OutgoingMessage{Text: text})
	if err != nil {
		log.Warn("failed to send error notice", sl.Err(err))
		return
	}
	conv.AddError(id)
}

// clearUI удаляет ошибки, вспомогательные сообщения и текущее приглашение
func (c *Controller) clearUI(ctx context.Context, chatID int64, conv *models.Conversation) {
	c.retire(ctx, chatID, conv.TakeErrors()...)
	c.retire(ctx, chatID, conv.TakeLastMessages()...)
	c.retire(ctx, chatID, conv.BotMessageID)
	conv.BotMessageID = 0
}

// retire удаляет сообщения; ошибки удаления не влияют на диалог
func (c *Controller) retire(ctx context.Context, chatID int64, ids ...int) {
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if err := c.messenger.Delete(ctx, chatID, id); err != nil {
			c.log.Debug("failed to delete message", slog.Int("message_id", id), sl.Err(err))
		}
	}
}

// reportFailure сообщает пользователю о сбое, чтобы ввод не пропадал молча
func (c *Controller) reportFailure(ctx context.Context, log *slog.Logger, chatID int64) {
	if _, err := c.messenger.Send(ctx, chatID, OutgoingMessage{Text: textTryAgain}); err != nil {
		log.Debug("failed to send failure notice", sl.Err(err))
	}
}

func (c *Controller) refuse(log *slog.Logger, err error) notice {
	log.Debug("transition refused", sl.Err(err))
	return notice{text: textUnavailable, alert: true}
}

func (c *Controller) publish(ctx context.Context, log *slog.Logger, e events.Event) {
	e.ID = uuid.NewString()
	e.OccurredAt = c.now()

	if err := c.publisher.Publish(ctx, e); err != nil {
		log.Warn("failed to publish event", slog.String("type", string(e.Type)), sl.Err(err))
	}
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrGuardViolation):
		return "guard"
	case errors.Is(err, ErrDuplicateValue):
		return "duplicate"
	}
	return "invalid"
}
