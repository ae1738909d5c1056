package sellers

import (
	"context"
	"fmt"

	"github.com/iudanet/digimarket/internal/client/api"
	"github.com/iudanet/digimarket/internal/validation"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const (
	applyPath   = "/api/v1/sellers/apply"
	statusPath  = "/api/v1/sellers/application-status"
	profilePath = "/api/v1/sellers/profile"
)

// Service работает с заявкой и профилем продавца
type Service struct {
	client *api.Client
}

// NewService создает сервис продавца
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Apply отправляет заявку на статус продавца.
// Невалидная заявка возвращает validation.FieldErrors без запроса к серверу.
func (s *Service) Apply(ctx context.Context, app pkgapi.SellerApplication) (*pkgapi.SellerApplicationResponse, error) {
	if err := validation.ValidateSellerApplication(app); err != nil {
		return nil, err
	}

	resp, err := api.DecodeResponse[pkgapi.SellerApplicationResponse](s.client.Post(ctx, applyPath, app))
	if err != nil {
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}
	return resp, nil
}

// ApplicationStatus возвращает текущую заявку пользователя
func (s *Service) ApplicationStatus(ctx context.Context) (*pkgapi.SellerApplicationResponse, error) {
	return api.DecodeResponse[pkgapi.SellerApplicationResponse](s.client.Get(ctx, statusPath))
}

// Profile возвращает профиль продавца
func (s *Service) Profile(ctx context.Context) (*pkgapi.SellerProfile, error) {
	return api.DecodeResponse[pkgapi.SellerProfile](s.client.Get(ctx, profilePath))
}
