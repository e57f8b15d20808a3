package middleware

import (
	"context"

	"github.com/google/uuid"
)

// contextKey - тип для ключа контекста, чтобы избежать коллизий.
type contextKey string

// userIDKey - ключ для хранения ID пользователя в контексте запроса.
const userIDKey contextKey = "userID"

// WithUserID кладет ID пользователя в контекст запроса.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext извлекает ID пользователя из контекста.
// Идентичность всегда передается явно через контекст запроса,
// установленный JWT middleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}
