package products

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/digimarket/internal/client/api"
	"github.com/iudanet/digimarket/internal/client/upload"
	"github.com/iudanet/digimarket/internal/validation"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const (
	productsPath = "/api/v1/products"
	myPath       = "/api/v1/products/me"
	uploadPath   = "/api/v1/products/upload"
)

// Service работает с товарами маркетплейса.
// Создание и обновление отправляют multipart форму с прогрессом загрузки.
type Service struct {
	client *api.Client
}

// NewService создает сервис товаров
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// CreateProduct создает товар с обязательным файлом и необязательной обложкой.
// Форма проверяется до отправки: невалидные данные не уходят на сервер.
func (s *Service) CreateProduct(ctx context.Context, p pkgapi.ProductCreate, file, thumbnail *upload.Attachment, onProgress upload.ProgressFunc) (*pkgapi.Product, error) {
	if err := validateCreate(p, file, thumbnail); err != nil {
		return nil, err
	}

	form := createForm(p)
	form.AddFile(FileField, file)
	form.AddFile(ThumbnailField, thumbnail)

	return api.DecodeResponse[pkgapi.Product](
		upload.Do(ctx, s.client, http.MethodPost, productsPath, form, onProgress))
}

// UpdateProduct частично обновляет товар: отправляются только заданные поля
// и переданные вложения
func (s *Service) UpdateProduct(ctx context.Context, id int64, p pkgapi.ProductUpdate, file, thumbnail *upload.Attachment, onProgress upload.ProgressFunc) (*pkgapi.Product, error) {
	if err := validateUpdate(p, file, thumbnail); err != nil {
		return nil, err
	}

	form := updateForm(p)
	form.AddFile(FileField, file)
	form.AddFile(ThumbnailField, thumbnail)

	return api.DecodeResponse[pkgapi.Product](
		upload.Do(ctx, s.client, http.MethodPut, productPath(id), form, onProgress))
}

// CreateProductStream - CreateProduct в виде холодного потока событий
func (s *Service) CreateProductStream(p pkgapi.ProductCreate, file, thumbnail *upload.Attachment) *upload.Stream[pkgapi.Product] {
	return upload.NewStream(func(ctx context.Context, progress upload.ProgressFunc) (*pkgapi.Product, error) {
		return s.CreateProduct(ctx, p, file, thumbnail, progress)
	})
}

// UpdateProductStream - UpdateProduct в виде холодного потока событий
func (s *Service) UpdateProductStream(id int64, p pkgapi.ProductUpdate, file, thumbnail *upload.Attachment) *upload.Stream[pkgapi.Product] {
	return upload.NewStream(func(ctx context.Context, progress upload.ProgressFunc) (*pkgapi.Product, error) {
		return s.UpdateProduct(ctx, id, p, file, thumbnail, progress)
	})
}

// UploadFile загружает файл отдельно от товара
func (s *Service) UploadFile(ctx context.Context, file *upload.Attachment, onProgress upload.ProgressFunc) (*pkgapi.ProductFileUpload, error) {
	if file == nil {
		return nil, validation.FieldErrors{FileField: "product file is required"}
	}
	if err := validation.ValidateAttachment(file.ContentType, file.Size, validation.ProductFileTypes); err != nil {
		return nil, validation.FieldErrors{FileField: err.Error()}
	}

	form := &upload.Form{}
	form.AddFile(FileField, file)

	return api.DecodeResponse[pkgapi.ProductFileUpload](
		upload.Do(ctx, s.client, http.MethodPost, uploadPath, form, onProgress))
}

// GetProduct возвращает товар по id
func (s *Service) GetProduct(ctx context.Context, id int64) (*pkgapi.Product, error) {
	return api.DecodeResponse[pkgapi.Product](s.client.Get(ctx, productPath(id)))
}

// DeleteProduct удаляет товар
func (s *Service) DeleteProduct(ctx context.Context, id int64) (*pkgapi.MessageResponse, error) {
	resp, err := s.client.Delete(ctx, productPath(id))
	if err != nil {
		return nil, err
	}
	// 204 без тела тоже успех
	if len(resp.Body) == 0 {
		return &pkgapi.MessageResponse{}, nil
	}
	return api.DecodeResponse[pkgapi.MessageResponse](resp, nil)
}

// ListMine возвращает товары текущего продавца
func (s *Service) ListMine(ctx context.Context, skip, limit int) ([]pkgapi.Product, error) {
	q := url.Values{}
	q.Set("skip", positive(skip))
	q.Set("limit", positive(limit))

	items, err := api.DecodeResponse[[]pkgapi.Product](s.client.Get(ctx, myPath, api.WithQuery(q)))
	if err != nil {
		return nil, err
	}
	return *items, nil
}

// ListPublic возвращает публичный каталог. Нулевые значения фильтров не передаются.
func (s *Service) ListPublic(ctx context.Context, filters pkgapi.ProductFilters) ([]pkgapi.ProductListItem, error) {
	q := url.Values{}
	q.Set("category", filters.Category)
	q.Set("search", filters.Search)
	q.Set("sort_by", string(filters.SortBy))
	q.Set("sort_order", filters.SortOrder)
	q.Set("skip", positive(filters.Skip))
	q.Set("limit", positive(filters.Limit))

	items, err := api.DecodeResponse[[]pkgapi.ProductListItem](s.client.Get(ctx, productsPath, api.WithQuery(q)))
	if err != nil {
		return nil, err
	}
	return *items, nil
}

func productPath(id int64) string {
	return fmt.Sprintf("%s/%d", productsPath, id)
}

// positive возвращает "" для нуля, чтобы WithQuery пропустил параметр
func positive(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func validateCreate(p pkgapi.ProductCreate, file, thumbnail *upload.Attachment) error {
	errs := validation.FieldErrors{}
	errs.Merge(validation.ValidateProductCreate(p, file != nil))
	checkAttachments(errs, file, thumbnail)
	return errs.Err()
}

func validateUpdate(p pkgapi.ProductUpdate, file, thumbnail *upload.Attachment) error {
	errs := validation.FieldErrors{}
	errs.Merge(validation.ValidateProductUpdate(p))
	checkAttachments(errs, file, thumbnail)
	return errs.Err()
}

func checkAttachments(errs validation.FieldErrors, file, thumbnail *upload.Attachment) {
	if file != nil {
		errs.Check(FileField, validation.ValidateAttachment(file.ContentType, file.Size, validation.ProductFileTypes))
	}
	if thumbnail != nil {
		errs.Check(ThumbnailField, validation.ValidateAttachment(thumbnail.ContentType, thumbnail.Size, validation.ThumbnailTypes))
	}
}
