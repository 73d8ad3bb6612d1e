package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConversation_PasswordResetsConfirm(t *testing.T) {
	c := NewConversation(1)
	c.Set(FieldPassword, "Abcdef1!")
	c.Set(FieldPasswordConfirm, "Abcdef1!")

	c.Set(FieldPassword, "Qwerty1!")

	assert.Equal(t, "Qwerty1!", c.Password)
	assert.Empty(t, c.PasswordConfirm)
}

func TestConversation_MissingPrerequisite(t *testing.T) {
	c := NewConversation(1)

	_, missing := c.MissingPrerequisite(FieldName)
	assert.False(t, missing)

	f, missing := c.MissingPrerequisite(FieldContact)
	assert.True(t, missing)
	assert.Equal(t, FieldName, f)

	c.Set(FieldName, "Иван")
	_, missing = c.MissingPrerequisite(FieldContact)
	assert.False(t, missing)

	f, missing = c.MissingPrerequisite(FieldPasswordConfirm)
	assert.True(t, missing)
	assert.Equal(t, FieldContact, f)

	c.Set(FieldContact, "+380671234567")
	f, _ = c.MissingPrerequisite(FieldPasswordConfirm)
	assert.Equal(t, FieldPassword, f)
}

func TestConversation_Errors(t *testing.T) {
	c := NewConversation(1)
	c.AddError(5)
	c.AddError(5)
	c.AddError(0)
	c.AddError(6)

	assert.Equal(t, []int{5, 6}, c.TakeErrors())
	assert.Empty(t, c.ErrorMessageIDs)
}

func TestConversation_Filled(t *testing.T) {
	c := NewConversation(1)
	assert.False(t, c.AnyFilled())

	c.Set(FieldName, "Иван")
	c.Set(FieldContact, "ivan@example.com")
	c.Set(FieldPassword, "Abcdef1!")
	assert.True(t, c.AnyFilled())
	assert.False(t, c.Filled())

	c.Set(FieldPasswordConfirm, "Abcdef1!")
	assert.True(t, c.Filled())
	assert.Equal(t, Profile{Name: "Иван", Contact: "ivan@example.com", Password: "Abcdef1!"}, c.Profile())
}

func TestConversation_CodeExpired(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewConversation(1)

	assert.False(t, c.CodeExpired(issued, time.Minute))

	c.CodeIssuedAt = issued
	assert.False(t, c.CodeExpired(issued.Add(time.Minute), time.Minute))
	assert.True(t, c.CodeExpired(issued.Add(time.Minute+time.Second), time.Minute))
	assert.False(t, c.CodeExpired(issued.Add(time.Hour), 0))
}

func TestDialogueMode(t *testing.T) {
	assert.Equal(t, "idle", ModeIdle.String())
	assert.True(t, ModeEditingContact.Editing())
	assert.False(t, ModeAwaitingVerificationCode.Editing())
	assert.True(t, ModeAwaitingVerificationCode.AcceptsInput())
	assert.False(t, ModeIdle.AcceptsInput())
}
