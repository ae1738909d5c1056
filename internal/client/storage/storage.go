package storage

import (
	"context"

	"github.com/iudanet/digimarket/pkg/api"
)

// Fixed keys of the durable client storage
const (
	// TokenKey holds the raw bearer token
	TokenKey = "access_token"
	// StateKey holds the persisted auth store snapshot
	StateKey = "auth-storage"
)

// TokenStorage хранит единственный bearer token клиента.
// Все методы безопасны для конкурентного использования.
type TokenStorage interface {
	// GetToken returns ErrTokenNotFound if no token is stored
	GetToken(ctx context.Context) (string, error)

	// SaveToken replaces the stored token
	SaveToken(ctx context.Context, token string) error

	// DeleteToken removes the token; deleting a missing token is not an error
	DeleteToken(ctx context.Context) error

	// DeleteTokenIf removes the token only if it still equals token.
	// Reports whether a delete actually happened.
	DeleteTokenIf(ctx context.Context, token string) (bool, error)
}

// StateStorage хранит сериализованный снимок auth store
type StateStorage interface {
	// LoadState returns ErrStateNotFound if nothing was persisted yet
	LoadState(ctx context.Context) ([]byte, error)
	SaveState(ctx context.Context, data []byte) error
	DeleteState(ctx context.Context) error
}

// ProductCache хранит локальную копию товаров продавца для dashboard
type ProductCache interface {
	// ReplaceProducts атомарно заменяет содержимое кэша
	ReplaceProducts(ctx context.Context, products []api.Product) error

	// ListProducts возвращает товары, у которых title или description
	// содержит search (без учета регистра). Пустой search возвращает все.
	ListProducts(ctx context.Context, search string) ([]api.Product, error)

	// GetProduct returns ErrProductNotFound for unknown id
	GetProduct(ctx context.Context, id int64) (*api.Product, error)

	UpsertProduct(ctx context.Context, product *api.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	SetProductActive(ctx context.Context, id int64, active bool) error
}
