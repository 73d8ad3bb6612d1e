package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"registrationBot/internal/domain/models"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Store хранит диалоги в памяти. Значения копируются через JSON,
// чтобы вызывающий код не мог изменить сохраненное состояние в обход Save.
type Store struct {
	mu    sync.RWMutex
	items map[int64]entry
	ttl   time.Duration
	now   func() time.Time
}

func New(ttl time.Duration) *Store {
	return &Store{
		items: make(map[int64]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Store) Get(_ context.Context, tgUserID int64) (*models.Conversation, error) {
	s.mu.RLock()
	e, ok := s.items[tgUserID]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		return nil, nil
	}

	var conv models.Conversation
	if err := json.Unmarshal(e.data, &conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation: %w", err)
	}

	return &conv, nil
}

func (s *Store) Save(_ context.Context, conv *models.Conversation) error {
	now := s.now()
	conv.UpdatedAt = now

	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	e := entry{data: data}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	s.items[conv.TgUserID] = e
	s.mu.Unlock()

	return nil
}

func (s *Store) Delete(_ context.Context, tgUserID int64) error {
	s.mu.Lock()
	delete(s.items, tgUserID)
	s.mu.Unlock()

	return nil
}

// Sweep удаляет диалоги с истекшим сроком и возвращает их количество
func (s *Store) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.items {
		if s.expired(e) {
			delete(s.items, id)
			removed++
		}
	}

	return removed, nil
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}
