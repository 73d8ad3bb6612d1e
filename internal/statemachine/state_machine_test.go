package statemachine

import (
	"testing"

	"registrationBot/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEvent(t *testing.T) {
	sm := NewStateMachine()

	tests := []struct {
		name    string
		current models.DialogueMode
		event   Event
		want    models.DialogueMode
		wantErr bool
	}{
		{"idle to name", models.ModeIdle, EventEditName, models.ModeEditingName, false},
		{"overwrite contact", models.ModeIdle, EventEditContact, models.ModeEditingContact, false},
		{"switch field", models.ModeEditingName, EventEditPassword, models.ModeEditingPassword, false},
		{"back", models.ModeEditingPassword, EventBack, models.ModeIdle, false},
		{"accepted", models.ModeEditingPasswordConfirm, EventFieldAccepted, models.ModeIdle, false},
		{"code sent", models.ModeIdle, EventCodeSent, models.ModeAwaitingVerificationCode, false},
		{"code accepted", models.ModeAwaitingVerificationCode, EventCodeAccepted, models.ModeComplete, false},
		{"exhausted", models.ModeAwaitingVerificationCode, EventAttemptsExhausted, models.ModeBlocked, false},
		{"expired", models.ModeAwaitingVerificationCode, EventCodeExpired, models.ModeIdle, false},
		{"resume from awaiting", models.ModeAwaitingVerificationCode, EventResume, models.ModeIdle, false},

		{"back from idle", models.ModeIdle, EventBack, models.ModeIdle, true},
		{"edit while awaiting", models.ModeAwaitingVerificationCode, EventEditName, models.ModeAwaitingVerificationCode, true},
		{"code sent while editing", models.ModeEditingName, EventCodeSent, models.ModeEditingName, true},
		{"accept from idle", models.ModeIdle, EventCodeAccepted, models.ModeIdle, true},
		{"leave blocked", models.ModeBlocked, EventResume, models.ModeBlocked, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sm.HandleEvent(tt.current, tt.event)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrTransitionNotAllowed)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditEvent(t *testing.T) {
	assert.Equal(t, EventEditContact, EditEvent(models.FieldContact))
	assert.Equal(t, Event(""), EditEvent(models.Field("unknown")))
}
