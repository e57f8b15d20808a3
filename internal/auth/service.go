package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"verhaal-server/internal/model"
	"verhaal-server/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("пользователь уже существует")
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrInvalidRefresh     = errors.New("невалидный refresh-токен")
)

// UserRepository - контракт хранилища пользователей для сервиса аутентификации.
type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// TokenRepository - контракт хранилища refresh-токенов.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// Service реализует регистрацию, вход и обновление токенов.
type Service struct {
	users      UserRepository
	tokens     TokenRepository
	tm         *TokenManager
	refreshTTL time.Duration
}

// NewService создает новый экземпляр сервиса аутентификации.
func NewService(users UserRepository, tokens TokenRepository, tm *TokenManager, refreshTTL time.Duration) *Service {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		tm:         tm,
		refreshTTL: refreshTTL,
	}
}

// Register создает нового пользователя.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || len(req.Password) < 6 {
		return model.User{}, fmt.Errorf("имя, email и пароль (минимум 6 символов) обязательны: %w", model.ErrValidation)
	}

	// Проверяем, не занят ли email или username
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.User{}, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, fmt.Errorf("ошибка проверки email: %w", err)
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return model.User{}, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, fmt.Errorf("ошибка проверки имени пользователя: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return user, nil
}

// Login проверяет учетные данные и возвращает пару токенов.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{TokenPair: pair, User: user}, nil
}

// Refresh обменивает валидный refresh-токен на новую пару токенов.
// Старый refresh-токен при этом отзывается (ротация).
func (s *Service) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	userID, err := s.tokens.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return model.TokenPair{}, ErrInvalidRefresh
		}
		return model.TokenPair{}, fmt.Errorf("ошибка проверки refresh-токена: %w", err)
	}

	if err := s.tokens.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return model.TokenPair{}, fmt.Errorf("ошибка ротации refresh-токена: %w", err)
	}

	return s.issueTokens(ctx, userID)
}

// issueTokens выпускает access-токен и новый refresh-токен.
func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (model.TokenPair, error) {
	access, expiresAt, err := s.tm.GenerateAccessToken(userID.String())
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("ошибка выпуска access-токена: %w", err)
	}

	refresh := uuid.NewString()
	if err := s.tokens.SaveRefreshToken(ctx, refresh, userID, s.refreshTTL); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}
