package memory

import (
	"context"
	"testing"
	"time"

	"registrationBot/internal/domain/models"
	"registrationBot/internal/repository"

	"github.com/stretchr/testify/suite"
)

type AccountStorageSuite struct {
	suite.Suite
	store *AccountStorage
	clock time.Time
}

func TestAccountStorageSuite(t *testing.T) {
	suite.Run(t, new(AccountStorageSuite))
}

func (s *AccountStorageSuite) SetupTest() {
	s.clock = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	s.store = NewAccountStorage()
	s.store.now = func() time.Time { return s.clock }
}

func (s *AccountStorageSuite) TestCreateShell() {
	ctx := context.Background()

	s.Run("creates empty unregistered account", func() {
		s.Require().NoError(s.store.CreateShell(ctx, 1))

		exists, err := s.store.Exists(ctx, 1)
		s.NoError(err)
		s.True(exists)

		a, err := s.store.Account(ctx, 1)
		s.NoError(err)
		s.Empty(a.Name)
		s.False(a.RegistrationComplete)
		s.False(a.IsBlocked)
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(s.store.CompleteRegistration(ctx, 1, models.Profile{Name: "Ivan"}))
		s.Require().NoError(s.store.CreateShell(ctx, 1))

		a, err := s.store.Account(ctx, 1)
		s.NoError(err)
		s.Equal("Ivan", a.Name)
		s.True(a.RegistrationComplete)
	})
}

func (s *AccountStorageSuite) TestCompleteRegistration() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateShell(ctx, 7))

	s.clock = s.clock.Add(time.Hour)
	err := s.store.CompleteRegistration(ctx, 7, models.Profile{
		Name:     "Olena",
		Contact:  "+380671234567",
		Password: "Abcdef1!",
	})
	s.Require().NoError(err)

	a, err := s.store.Account(ctx, 7)
	s.Require().NoError(err)
	s.Equal("Olena", a.Name)
	s.Equal("+380671234567", a.Contact)
	s.Equal("Abcdef1!", a.Password)
	s.True(a.RegistrationComplete)
	s.Equal(s.clock, a.LastLogin)

	authorized, err := s.store.IsAuthorized(ctx, 7)
	s.NoError(err)
	s.True(authorized)
}

func (s *AccountStorageSuite) TestBlock() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateShell(ctx, 3))
	s.Require().NoError(s.store.CompleteRegistration(ctx, 3, models.Profile{Name: "x"}))
	s.Require().NoError(s.store.Block(ctx, 3))

	blocked, err := s.store.IsBlocked(ctx, 3)
	s.NoError(err)
	s.True(blocked)

	authorized, err := s.store.IsAuthorized(ctx, 3)
	s.NoError(err)
	s.False(authorized, "blocked account is never authorized")
}

func (s *AccountStorageSuite) TestUnknownAccount() {
	ctx := context.Background()

	exists, err := s.store.Exists(ctx, 404)
	s.NoError(err)
	s.False(exists)

	blocked, err := s.store.IsBlocked(ctx, 404)
	s.NoError(err)
	s.False(blocked)

	_, err = s.store.Account(ctx, 404)
	s.ErrorIs(err, repository.ErrAccountNotFound)
	s.ErrorIs(s.store.Block(ctx, 404), repository.ErrAccountNotFound)
	s.ErrorIs(s.store.TouchLastLogin(ctx, 404), repository.ErrAccountNotFound)
}

func (s *AccountStorageSuite) TestTouchLastLogin() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateShell(ctx, 9))

	s.clock = s.clock.Add(48 * time.Hour)
	s.Require().NoError(s.store.TouchLastLogin(ctx, 9))

	a, err := s.store.Account(ctx, 9)
	s.Require().NoError(err)
	s.Equal(s.clock, a.LastLogin)
}
