package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims определяет пользовательские данные, которые мы храним в токене.
type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager выпускает и проверяет JWT access-токены.
// Секрет передается явно из конфигурации, глобального состояния нет.
type TokenManager struct {
	secret    []byte
	accessTTL time.Duration
}

// NewTokenManager создает новый экземпляр менеджера токенов.
func NewTokenManager(secret string, accessTTL time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("не задан секрет JWT")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &TokenManager{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}, nil
}

// GenerateAccessToken создает новый JWT для указанного UserID.
func (m *TokenManager) GenerateAccessToken(userID string) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.accessTTL)
	claims := &CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "verhaal-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("не удалось подписать токен: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateAccessToken проверяет JWT и возвращает CustomClaims, если токен валиден.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Убедимся, что метод подписи - HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("токен истек: %w", err)
		}
		return nil, fmt.Errorf("не удалось разобрать токен: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, errors.New("невалидный токен")
	}
	return claims, nil
}
