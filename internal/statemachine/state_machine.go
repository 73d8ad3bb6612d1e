package statemachine

import (
	"errors"
	"fmt"
	"sync"

	"registrationBot/internal/domain/models"
)

var ErrTransitionNotAllowed = errors.New("transition is not allowed")

// Event представляет событие, которое может вызвать переход состояния
type Event string

const (
	EventEditName            Event = "edit_name"
	EventEditContact         Event = "edit_contact"
	EventEditPassword        Event = "edit_password"
	EventEditPasswordConfirm Event = "edit_password_confirm"
	EventBack                Event = "back"
	EventFieldAccepted       Event = "field_accepted"
	EventCodeSent            Event = "code_sent"
	EventCodeExpired         Event = "code_expired"
	EventResume              Event = "resume"
	EventCodeAccepted        Event = "code_accepted"
	EventAttemptsExhausted   Event = "attempts_exhausted"
)

// EditEvent возвращает событие входа в редактирование поля.
func EditEvent(f models.Field) Event {
	switch f {
	case models.FieldName:
		return EventEditName
	case models.FieldContact:
		return EventEditContact
	case models.FieldPassword:
		return EventEditPassword
	case models.FieldPasswordConfirm:
		return EventEditPasswordConfirm
	}
	return ""
}

// Transition описывает переход из одного состояния в другое
type Transition struct {
	From models.DialogueMode
	To   models.DialogueMode
}

var editingModes = []models.DialogueMode{
	models.ModeEditingName,
	models.ModeEditingContact,
	models.ModeEditingPassword,
	models.ModeEditingPasswordConfirm,
}

// StateMachine хранит таблицу разрешенных переходов диалога регистрации
type StateMachine struct {
	transitions map[Transition]bool
	mu          sync.RWMutex
}

// NewStateMachine создает state machine с определенными переходами
func NewStateMachine() *StateMachine {
	sm := &StateMachine{
		transitions: make(map[Transition]bool),
	}

	var allowed []Transition

	for _, editing := range editingModes {
		allowed = append(allowed,
			// Из Idle в любое поле - в том числе для перезаписи уже заполненного
			Transition{models.ModeIdle, editing},
			// Назад или успешный ввод
			Transition{editing, models.ModeIdle},
		)

		// Кнопки из устаревшего меню могут прийти во время редактирования другого поля
		for _, other := range editingModes {
			allowed = append(allowed, Transition{editing, other})
		}
	}

	allowed = append(allowed,
		Transition{models.ModeIdle, models.ModeIdle},
		Transition{models.ModeIdle, models.ModeAwaitingVerificationCode},

		Transition{models.ModeAwaitingVerificationCode, models.ModeComplete},
		Transition{models.ModeAwaitingVerificationCode, models.ModeBlocked},
		// Истек код или пользователь заново отправил /start
		Transition{models.ModeAwaitingVerificationCode, models.ModeIdle},
	)

	for _, t := range allowed {
		sm.transitions[t] = true
	}

	return sm
}

// CanTransition проверяет, возможен ли переход из текущего состояния в новое
func (sm *StateMachine) CanTransition(from, to models.DialogueMode) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.transitions[Transition{from, to}]
}

// HandleEvent определяет, в какое состояние нужно перейти на основе события и текущего состояния
func (sm *StateMachine) HandleEvent(current models.DialogueMode, event Event) (models.DialogueMode, error) {
	next, ok := target(current, event)
	if !ok {
		return current, fmt.Errorf("%w: unexpected event %s in state %s", ErrTransitionNotAllowed, event, current)
	}

	if !sm.CanTransition(current, next) {
		return current, fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, current, next)
	}

	return next, nil
}

func target(current models.DialogueMode, event Event) (models.DialogueMode, bool) {
	switch event {
	case EventEditName:
		return models.ModeEditingName, true
	case EventEditContact:
		return models.ModeEditingContact, true
	case EventEditPassword:
		return models.ModeEditingPassword, true
	case EventEditPasswordConfirm:
		return models.ModeEditingPasswordConfirm, true
	case EventBack:
		if current.Editing() {
			return models.ModeIdle, true
		}
	case EventFieldAccepted:
		if current.Editing() {
			return models.ModeIdle, true
		}
	case EventCodeSent:
		return models.ModeAwaitingVerificationCode, true
	case EventCodeExpired:
		if current == models.ModeAwaitingVerificationCode {
			return models.ModeIdle, true
		}
	case EventResume:
		return models.ModeIdle, true
	case EventCodeAccepted:
		return models.ModeComplete, true
	case EventAttemptsExhausted:
		return models.ModeBlocked, true
	}

	return current, false
}
