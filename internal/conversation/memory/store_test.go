package memory

import (
	"context"
	"testing"
	"time"

	"registrationBot/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetMissing(t *testing.T) {
	s := New(time.Hour)

	conv, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestStore_SaveReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New(time.Hour)

	conv := models.NewConversation(7)
	conv.Set(models.FieldName, "Иван")
	conv.AddError(11)
	require.NoError(t, s.Save(ctx, conv))

	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Иван", got.Name)
	assert.Equal(t, []int{11}, got.ErrorMessageIDs)

	got.Name = "Петр"

	again, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Иван", again.Name)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := New(time.Hour)

	require.NoError(t, s.Save(ctx, models.NewConversation(3)))
	require.NoError(t, s.Delete(ctx, 3))

	got, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ExpiryAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := New(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, models.NewConversation(1)))

	now = now.Add(30 * time.Second)
	require.NoError(t, s.Save(ctx, models.NewConversation(2)))

	now = now.Add(45 * time.Second)

	expired, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, expired)

	alive, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, alive)

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = s.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	s := New(0)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, models.NewConversation(1)))
	now = now.Add(365 * 24 * time.Hour)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
