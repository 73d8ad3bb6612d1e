package models

import (
	"time"
)

// Account представляет зарегистрированного (или регистрирующегося) пользователя бота.
// Запись создается пустой при первом обращении и заполняется только по завершении регистрации.
type Account struct {
	ID                   int64     `db:"id"`
	TgUserID             int64     `db:"tg_user_id"`
	Name                 string    `db:"name"`
	Contact              string    `db:"contact"`
	Password             string    `db:"password"`
	RegistrationComplete bool      `db:"registration_complete"`
	IsBlocked            bool      `db:"is_blocked"`
	LastLogin            time.Time `db:"last_login"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// Authorized сообщает, может ли пользователь работать с ботом без регистрации.
func (a *Account) Authorized() bool {
	return a.RegistrationComplete && !a.IsBlocked
}

// Profile - закрытый набор полей, которые записываются в аккаунт при завершении регистрации.
type Profile struct {
	Name     string
	Contact  string
	Password string
}
