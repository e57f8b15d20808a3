package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrTokenNotFound возвращается, когда refresh-токен не найден или истек.
var ErrTokenNotFound = errors.New("refresh-токен не найден")

// TokenRepository хранит refresh-токены в Redis. TTL ключа совпадает
// со сроком жизни токена, поэтому истекшие токены исчезают сами.
type TokenRepository struct {
	client *redis.Client
}

// NewTokenRepository создает новый экземпляр хранилища токенов.
func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func refreshKey(token string) string {
	return fmt.Sprintf("refresh_token:%s", token)
}

// SaveRefreshToken сохраняет refresh-токен с привязкой к пользователю.
func (r *TokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshKey(token), userID.String(), ttl).Err(); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("не удалось сохранить refresh-токен")
		return fmt.Errorf("ошибка сохранения refresh-токена: %w", err)
	}
	return nil
}

// GetRefreshToken возвращает владельца refresh-токена.
func (r *TokenRepository) GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("ошибка чтения refresh-токена: %w", err)
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("некорректный владелец refresh-токена: %w", err)
	}
	return userID, nil
}

// DeleteRefreshToken удаляет refresh-токен (ротация при обновлении).
func (r *TokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, refreshKey(token)).Err(); err != nil {
		return fmt.Errorf("ошибка удаления refresh-токена: %w", err)
	}
	return nil
}
