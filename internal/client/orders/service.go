// Package orders - заказы покупателя: оформление, история, отмена.
package orders

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/iudanet/digimarket/internal/client/api"
	"github.com/iudanet/digimarket/internal/validation"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const ordersPath = "/api/v1/orders/"

// MaxPageSize - максимальный limit, который принимает сервер
const MaxPageSize = 100

// Service работает с заказами текущего пользователя
type Service struct {
	client *api.Client
}

// NewService создает сервис заказов
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Create оформляет заказ. TotalAmount считается по позициям, статус
// всегда pending. Невалидный заказ возвращает validation.FieldErrors
// без запроса к серверу.
func (s *Service) Create(ctx context.Context, order pkgapi.OrderCreate) (*pkgapi.Order, error) {
	order.Status = pkgapi.OrderPending
	order.TotalAmount = Total(order.Items)
	if err := validation.ValidateOrderCreate(order); err != nil {
		return nil, err
	}

	resp, err := api.DecodeResponse[pkgapi.Order](s.client.Post(ctx, ordersPath, order))
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	return resp, nil
}

// List возвращает заказы текущего пользователя
func (s *Service) List(ctx context.Context, skip, limit int) ([]pkgapi.Order, error) {
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	items, err := api.DecodeResponse[[]pkgapi.Order](s.client.Get(ctx, ordersPath, api.WithQuery(q)))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return *items, nil
}

// Get возвращает заказ по id. Чужой заказ - api.ErrForbidden.
func (s *Service) Get(ctx context.Context, id int64) (*pkgapi.Order, error) {
	return api.DecodeResponse[pkgapi.Order](s.client.Get(ctx, orderPath(id)))
}

// Update частично обновляет заказ: отправляются только заданные поля
func (s *Service) Update(ctx context.Context, id int64, update pkgapi.OrderUpdate) (*pkgapi.Order, error) {
	if err := validation.ValidateOrderUpdate(update); err != nil {
		return nil, err
	}

	resp, err := api.DecodeResponse[pkgapi.Order](s.client.Put(ctx, orderPath(id), update))
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return resp, nil
}

// Cancel переводит заказ в cancelled. Заказ на сервере не удаляется.
func (s *Service) Cancel(ctx context.Context, id int64) (*pkgapi.MessageResponse, error) {
	resp, err := api.DecodeResponse[pkgapi.MessageResponse](s.client.Delete(ctx, orderPath(id)))
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	return resp, nil
}

// Total - сумма price*quantity по позициям, округленная до центов
func Total(items []pkgapi.OrderItemCreate) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}

func orderPath(id int64) string {
	return fmt.Sprintf("%s%d", ordersPath, id)
}
