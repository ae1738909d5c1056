package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/digimarket/internal/client/api"
	"github.com/iudanet/digimarket/internal/client/storage"
	"github.com/iudanet/digimarket/internal/validation"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// API endpoints
const (
	loginPath    = "/api/v1/auth/login"
	registerPath = "/api/v1/auth/register"
	mePath       = "/api/v1/users/me"
)

//go:generate moq -out authenticator_mock.go . Authenticator

// Authenticator описывает операции авторизации, которые использует Store
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*pkgapi.AuthResponse, error)
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.User, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*pkgapi.User, error)
}

// Service предоставляет функции авторизации.
// Сервис не хранит состояния: сессия - это токен в durable storage.
type Service struct {
	client *api.Client
	tokens storage.TokenStorage
}

// Compile-time check
var _ Authenticator = (*Service)(nil)

// NewService создает новый сервис авторизации
func NewService(client *api.Client, tokens storage.TokenStorage) *Service {
	return &Service{
		client: client,
		tokens: tokens,
	}
}

// Login выполняет аутентификацию пользователя и сохраняет токен.
// Ошибка сервера возвращается как *api.APIError без изменений,
// при ошибке хранилище не меняется.
func (s *Service) Login(ctx context.Context, email, password string) (*pkgapi.AuthResponse, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	req := pkgapi.LoginRequest{
		Email:    email,
		Password: password,
	}

	resp, err := api.DecodeResponse[pkgapi.AuthResponse](s.client.Post(ctx, loginPath, req))
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login failed: server returned empty access token")
	}

	if err := s.tokens.SaveToken(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to save session token: %w", err)
	}

	return resp, nil
}

// Register регистрирует нового пользователя.
// Токен не выдается: для сессии нужен отдельный Login.
func (s *Service) Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.User, error) {
	// Валидация входных данных
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	user, err := api.DecodeResponse[pkgapi.User](s.client.Post(ctx, registerPath, req))
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return user, nil
}

// Logout удаляет токен. Повторный вызов без токена - не ошибка.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.tokens.DeleteToken(ctx); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

// IsAuthenticated проверяет наличие токена без обращения к сети
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.tokens.GetToken(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetCurrentUser возвращает текущего пользователя.
// Без токена сразу возвращает nil без сетевого запроса.
func (s *Service) GetCurrentUser(ctx context.Context) (*pkgapi.User, error) {
	ok, err := s.IsAuthenticated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	user, err := api.DecodeResponse[pkgapi.User](s.client.Get(ctx, mePath))
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return user, nil
}

// UpdateCurrentUser обновляет профиль текущего пользователя
func (s *Service) UpdateCurrentUser(ctx context.Context, update pkgapi.UserUpdate) (*pkgapi.User, error) {
	if update.Email != nil {
		if err := validation.ValidateEmail(*update.Email); err != nil {
			return nil, fmt.Errorf("invalid email: %w", err)
		}
	}

	user, err := api.DecodeResponse[pkgapi.User](s.client.Put(ctx, mePath, update))
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}
