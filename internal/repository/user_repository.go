package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"verhaal-server/internal/model"
)

// ErrUserNotFound возвращается, когда пользователь не найден.
var ErrUserNotFound = errors.New("пользователь не найден")

// UserRepository представляет репозиторий для работы с пользователями.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool: pool,
	}
}

// Create создает нового пользователя в базе данных.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		now,
	)

	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		return model.User{}, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return user, nil
}

// GetByID получает пользователя по ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail получает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "email = $1", email)
}

// GetByUsername получает пользователя по имени пользователя.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (model.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE ` + where

	row := r.pool.QueryRow(ctx, query, arg)

	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("ошибка получения пользователя: %w", err)
	}

	return user, nil
}
