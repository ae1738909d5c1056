package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/iudanet/digimarket/internal/client/api"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const sellersPath = "/api/v1/admin/sellers"

// MaxPageSize - максимальный limit, который принимает сервер
const MaxPageSize = 100

// ErrInvalidDecision возвращается для статуса решения, отличного от approved/rejected
var ErrInvalidDecision = errors.New("status must be 'approved' or 'rejected'")

// Service - операции администратора над заявками продавцов
type Service struct {
	client *api.Client
}

// NewService создает сервис администратора
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// ListApplications возвращает заявки продавцов.
// Пустой status возвращает все заявки.
func (s *Service) ListApplications(ctx context.Context, status pkgapi.ApplicationStatus, skip, limit int) ([]pkgapi.SellerApplicationResponse, error) {
	switch status {
	case "", pkgapi.ApplicationPending, pkgapi.ApplicationApproved, pkgapi.ApplicationRejected:
	default:
		return nil, fmt.Errorf("unknown application status %q", status)
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := url.Values{}
	q.Set("status", string(status))
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	items, err := api.DecodeResponse[[]pkgapi.SellerApplicationResponse](s.client.Get(ctx, sellersPath, api.WithQuery(q)))
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return *items, nil
}

// Review одобряет или отклоняет заявку продавца
func (s *Service) Review(ctx context.Context, userID int64, decision pkgapi.SellerApprovalRequest) (*pkgapi.SellerApplicationResponse, error) {
	if decision.Status != pkgapi.ApplicationApproved && decision.Status != pkgapi.ApplicationRejected {
		return nil, ErrInvalidDecision
	}
	if decision.RejectionReason != nil && strings.TrimSpace(*decision.RejectionReason) == "" {
		decision.RejectionReason = nil
	}

	path := fmt.Sprintf("%s/%d/approve", sellersPath, userID)
	resp, err := api.DecodeResponse[pkgapi.SellerApplicationResponse](s.client.Patch(ctx, path, decision))
	if err != nil {
		return nil, fmt.Errorf("failed to review application: %w", err)
	}
	return resp, nil
}

// Approve - сокращение для Review со статусом approved
func (s *Service) Approve(ctx context.Context, userID int64) (*pkgapi.SellerApplicationResponse, error) {
	return s.Review(ctx, userID, pkgapi.SellerApprovalRequest{Status: pkgapi.ApplicationApproved})
}

// Reject - сокращение для Review со статусом rejected
func (s *Service) Reject(ctx context.Context, userID int64, reason string) (*pkgapi.SellerApplicationResponse, error) {
	return s.Review(ctx, userID, pkgapi.SellerApprovalRequest{Status: pkgapi.ApplicationRejected, RejectionReason: &reason})
}

// SellerDetails возвращает профиль продавца
func (s *Service) SellerDetails(ctx context.Context, userID int64) (*pkgapi.SellerProfile, error) {
	path := fmt.Sprintf("%s/%d", sellersPath, userID)
	return api.DecodeResponse[pkgapi.SellerProfile](s.client.Get(ctx, path))
}
