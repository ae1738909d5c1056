package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/digimarket/internal/client/storage"
	"github.com/iudanet/digimarket/internal/client/upload"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// PageSize - размер страницы при синхронизации товаров продавца
const PageSize = 100

// ProductAPI - серверные операции, которые нужны dashboard
type ProductAPI interface {
	ListMine(ctx context.Context, skip, limit int) ([]pkgapi.Product, error)
	UpdateProduct(ctx context.Context, id int64, p pkgapi.ProductUpdate, file, thumbnail *upload.Attachment, onProgress upload.ProgressFunc) (*pkgapi.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*pkgapi.MessageResponse, error)
}

// Dashboard - список товаров продавца с локальным кэшем.
// Изменения сначала выполняются на сервере, затем применяются к кэшу.
// Для независимых вызовов побеждает последний пришедший ответ.
type Dashboard struct {
	api    ProductAPI
	cache  storage.ProductCache
	logger *slog.Logger
}

// New создает dashboard
func New(api ProductAPI, cache storage.ProductCache, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{api: api, cache: cache, logger: logger}
}

// Refresh загружает все товары продавца и заменяет ими кэш
func (d *Dashboard) Refresh(ctx context.Context) ([]pkgapi.Product, error) {
	var all []pkgapi.Product
	for skip := 0; ; skip += PageSize {
		page, err := d.api.ListMine(ctx, skip, PageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load products: %w", err)
		}
		all = append(all, page...)
		if len(page) < PageSize {
			break
		}
	}

	if err := d.cache.ReplaceProducts(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to cache products: %w", err)
	}

	d.logger.DebugContext(ctx, "dashboard refreshed", "products", len(all))
	return all, nil
}

// List возвращает товары из кэша, отфильтрованные по title или description
func (d *Dashboard) List(ctx context.Context, search string) ([]pkgapi.Product, error) {
	return d.cache.ListProducts(ctx, search)
}

// Delete удаляет товар на сервере, затем из кэша
func (d *Dashboard) Delete(ctx context.Context, id int64) error {
	if _, err := d.api.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if err := d.cache.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to update cache: %w", err)
	}
	return nil
}

// ToggleActive отправляет {is_active: !current} частичным обновлением и
// после успеха переключает флаг в кэше. Возвращает новое значение флага.
func (d *Dashboard) ToggleActive(ctx context.Context, id int64) (bool, error) {
	current, err := d.cache.GetProduct(ctx, id)
	if err != nil {
		return false, err
	}

	active := !current.IsActive
	if _, err := d.api.UpdateProduct(ctx, id, pkgapi.ProductUpdate{IsActive: &active}, nil, nil, nil); err != nil {
		return current.IsActive, fmt.Errorf("failed to update product: %w", err)
	}

	if err := d.cache.SetProductActive(ctx, id, active); err != nil {
		return active, fmt.Errorf("failed to update cache: %w", err)
	}
	return active, nil
}

// Upsert кладет в кэш товар, созданный или измененный через форму
func (d *Dashboard) Upsert(ctx context.Context, product *pkgapi.Product) error {
	return d.cache.UpsertProduct(ctx, product)
}
