package memory

import (
	"context"
	"sync"
	"time"

	"registrationBot/internal/domain/models"
	"registrationBot/internal/repository"
)

// AccountStorage хранит аккаунты в памяти процесса. Используется локально и в тестах.
type AccountStorage struct {
	mu       sync.RWMutex
	accounts map[int64]*models.Account
	nextID   int64
	now      func() time.Time
}

func NewAccountStorage() *AccountStorage {
	return &AccountStorage{
		accounts: make(map[int64]*models.Account),
		now:      time.Now,
	}
}

func (s *AccountStorage) Exists(_ context.Context, tgUserID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.accounts[tgUserID]
	return ok, nil
}

func (s *AccountStorage) IsBlocked(_ context.Context, tgUserID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[tgUserID]
	return ok && a.IsBlocked, nil
}

func (s *AccountStorage) IsAuthorized(_ context.Context, tgUserID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[tgUserID]
	return ok && a.Authorized(), nil
}

// Account возвращает копию записи
func (s *AccountStorage) Account(_ context.Context, tgUserID int64) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[tgUserID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	cp := *a
	return &cp, nil
}

func (s *AccountStorage) CreateShell(_ context.Context, tgUserID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[tgUserID]; ok {
		return nil
	}

	now := s.now()
	s.nextID++
	s.accounts[tgUserID] = &models.Account{
		ID:        s.nextID,
		TgUserID:  tgUserID,
		LastLogin: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return nil
}

func (s *AccountStorage) CompleteRegistration(_ context.Context, tgUserID int64, profile models.Profile) error {
	return s.update(tgUserID, func(a *models.Account, now time.Time) {
		a.Name = profile.Name
		a.Contact = profile.Contact
		a.Password = profile.Password
		a.RegistrationComplete = true
		a.LastLogin = now
	})
}

func (s *AccountStorage) Block(_ context.Context, tgUserID int64) error {
	return s.update(tgUserID, func(a *models.Account, _ time.Time) {
		a.IsBlocked = true
	})
}

func (s *AccountStorage) TouchLastLogin(_ context.Context, tgUserID int64) error {
	return s.update(tgUserID, func(a *models.Account, now time.Time) {
		a.LastLogin = now
	})
}

func (s *AccountStorage) update(tgUserID int64, fn func(a *models.Account, now time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[tgUserID]
	if !ok {
		return repository.ErrAccountNotFound
	}

	now := s.now()
	fn(a, now)
	a.UpdatedAt = now

	return nil
}
