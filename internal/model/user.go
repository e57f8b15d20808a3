package model

import (
	"time"

	"github.com/google/uuid"
)

// User представляет модель пользователя в системе.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password_hash"` // Не возвращаем хеш пароля в JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest содержит данные для входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest содержит refresh-токен для обновления пары токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenPair содержит пару токенов аутентификации.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponse содержит токены и данные пользователя.
type AuthResponse struct {
	TokenPair
	User User `json:"user"`
}
