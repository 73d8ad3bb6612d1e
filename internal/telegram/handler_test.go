package telegram

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"registrationBot/internal/service/registration"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	mu       sync.Mutex
	entries  []registration.Entry
	actions  []registration.Action
	messages []registration.Message
}

func (c *fakeController) Start(_ context.Context, e registration.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return nil
}

func (c *fakeController) HandleAction(_ context.Context, a registration.Action) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions = append(c.actions, a)
	return nil
}

func (c *fakeController) HandleMessage(ctx context.Context, m registration.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		panic("update handled without deadline")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	return nil
}

func newTestHandler(ctrl Controller) (*Handler, *Dispatcher) {
	d := NewDispatcher(4)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil, ctrl, d, nil, 60, time.Second)
	return h, d
}

func privateMessage(userID int64, id int, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: id,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		Text:      text,
	}
}

func TestHandler_RoutesUpdates(t *testing.T) {
	ctrl := &fakeController{}
	h, d := newTestHandler(ctrl)
	ctx := context.Background()

	start := privateMessage(7, 1, "/start")
	start.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}
	h.HandleUpdate(ctx, tgbotapi.Update{Message: start})

	h.HandleUpdate(ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: 7},
		Message: privateMessage(7, 2, "menu"),
		Data:    registration.ActionName,
	}})

	h.HandleUpdate(ctx, tgbotapi.Update{Message: privateMessage(7, 3, "Иван")})

	shared := privateMessage(7, 4, "")
	shared.Contact = &tgbotapi.Contact{PhoneNumber: "380671234567", UserID: 7}
	h.HandleUpdate(ctx, tgbotapi.Update{Message: shared})

	require.NoError(t, d.Close(ctx))

	require.Len(t, ctrl.entries, 1)
	assert.Equal(t, int64(7), ctrl.entries[0].UserID)
	assert.NotEmpty(t, ctrl.entries[0].EventID)

	require.Len(t, ctrl.actions, 1)
	assert.Equal(t, registration.Action{
		EventID:    ctrl.actions[0].EventID,
		UserID:     7,
		ChatID:     7,
		MessageID:  2,
		CallbackID: "cb-1",
		Data:       registration.ActionName,
	}, ctrl.actions[0])

	require.Len(t, ctrl.messages, 2)
	assert.Equal(t, "Иван", ctrl.messages[0].Text)
	assert.Nil(t, ctrl.messages[0].Contact)
	require.NotNil(t, ctrl.messages[1].Contact)
	assert.Equal(t, "380671234567", ctrl.messages[1].Contact.PhoneNumber)
	assert.Equal(t, int64(7), ctrl.messages[1].Contact.UserID)
	assert.NotEqual(t, ctrl.messages[0].EventID, ctrl.messages[1].EventID)
}

func TestHandler_IgnoresForeignUpdates(t *testing.T) {
	ctrl := &fakeController{}
	h, d := newTestHandler(ctrl)
	ctx := context.Background()

	group := privateMessage(7, 1, "hello")
	group.Chat.Type = "group"
	h.HandleUpdate(ctx, tgbotapi.Update{Message: group})

	h.HandleUpdate(ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 7},
		Message: privateMessage(7, 2, "menu"),
		Data:    "other_action",
	}})

	h.HandleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{MessageID: 3, Text: "no sender"}})

	require.NoError(t, d.Close(ctx))

	assert.Empty(t, ctrl.entries)
	assert.Empty(t, ctrl.actions)
	assert.Empty(t, ctrl.messages)
}

func TestHandler_KeepsPerUserOrder(t *testing.T) {
	ctrl := &fakeController{}
	h, d := newTestHandler(ctrl)
	ctx := context.Background()

	for i := range 50 {
		h.HandleUpdate(ctx, tgbotapi.Update{Message: privateMessage(int64(i%3+1), i, strconv.Itoa(i))})
	}

	require.NoError(t, d.Close(ctx))
	require.Len(t, ctrl.messages, 50)

	last := map[int64]int{}
	for _, m := range ctrl.messages {
		n, err := strconv.Atoi(m.Text)
		require.NoError(t, err)

		if prev, ok := last[m.UserID]; ok {
			assert.Greater(t, n, prev)
		}
		last[m.UserID] = n
	}
}

func TestHandler_RunsToCompletionAfterCancel(t *testing.T) {
	ctrl := &fakeController{}
	h, d := newTestHandler(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.HandleUpdate(ctx, tgbotapi.Update{Message: privateMessage(7, 1, "x")})

	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, ctrl.messages, 1)
}
