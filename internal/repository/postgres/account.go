package postgres

import (
	"context"
	"errors"
	"fmt"

	"registrationBot/internal/domain/models"
	"registrationBot/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                    BIGSERIAL PRIMARY KEY,
	tg_user_id            BIGINT UNIQUE NOT NULL,
	name                  TEXT NOT NULL DEFAULT '',
	contact               TEXT NOT NULL DEFAULT '',
	password              TEXT NOT NULL DEFAULT '',
	registration_complete BOOLEAN NOT NULL DEFAULT FALSE,
	is_blocked            BOOLEAN NOT NULL DEFAULT FALSE,
	last_login            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type AccountStorage struct {
	db *pgxpool.Pool
}

func NewAccountStorage(pool *pgxpool.Pool) *AccountStorage {
	return &AccountStorage{db: pool}
}

// EnsureSchema создает таблицу accounts, если ее еще нет
func (s *AccountStorage) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}
	return nil
}

func (s *AccountStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *AccountStorage) Exists(ctx context.Context, tgUserID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE tg_user_id = $1)`

	if err := s.db.QueryRow(ctx, query, tgUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}

	return exists, nil
}

func (s *AccountStorage) IsBlocked(ctx context.Context, tgUserID int64) (bool, error) {
	var blocked bool
	query := `SELECT is_blocked FROM accounts WHERE tg_user_id = $1`

	err := s.db.QueryRow(ctx, query, tgUserID).Scan(&blocked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("database error: %w", err)
	}

	return blocked, nil
}

func (s *AccountStorage) IsAuthorized(ctx context.Context, tgUserID int64) (bool, error) {
	var authorized bool
	query := `SELECT registration_complete AND NOT is_blocked FROM accounts WHERE tg_user_id = $1`

	err := s.db.QueryRow(ctx, query, tgUserID).Scan(&authorized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("database error: %w", err)
	}

	return authorized, nil
}

func (s *AccountStorage) Account(ctx context.Context, tgUserID int64) (*models.Account, error) {
	query := `
		SELECT id, tg_user_id, name, contact, password, registration_complete, is_blocked, last_login, created_at, updated_at
		FROM accounts
		WHERE tg_user_id = $1
	`

	var a models.Account
	err := s.db.QueryRow(ctx, query, tgUserID).Scan(
		&a.ID,
		&a.TgUserID,
		&a.Name,
		&a.Contact,
		&a.Password,
		&a.RegistrationComplete,
		&a.IsBlocked,
		&a.LastLogin,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &a, nil
}

func (s *AccountStorage) CreateShell(ctx context.Context, tgUserID int64) error {
	query := `
		INSERT INTO accounts (tg_user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (tg_user_id) DO NOTHING
	`

	if _, err := s.db.Exec(ctx, query, tgUserID); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// CompleteRegistration записывает профиль и флаг завершения одним запросом
func (s *AccountStorage) CompleteRegistration(ctx context.Context, tgUserID int64, profile models.Profile) error {
	query := `
		UPDATE accounts
		SET name = $1,
			contact = $2,
			password = $3,
			registration_complete = TRUE,
			last_login = NOW(),
			updated_at = NOW()
		WHERE tg_user_id = $4
	`

	return s.exec(ctx, query, profile.Name, profile.Contact, profile.Password, tgUserID)
}

func (s *AccountStorage) Block(ctx context.Context, tgUserID int64) error {
	query := `UPDATE accounts SET is_blocked = TRUE, updated_at = NOW() WHERE tg_user_id = $1`

	return s.exec(ctx, query, tgUserID)
}

func (s *AccountStorage) TouchLastLogin(ctx context.Context, tgUserID int64) error {
	query := `UPDATE accounts SET last_login = NOW(), updated_at = NOW() WHERE tg_user_id = $1`

	return s.exec(ctx, query, tgUserID)
}

func (s *AccountStorage) exec(ctx context.Context, query string, args ...any) error {
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}
