package api

import "time"

// ProductStatus определяет статус публикации товара
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPending   ProductStatus = "pending"
	ProductStatusActive    ProductStatus = "active"
	ProductStatusSuspended ProductStatus = "suspended"
	ProductStatusArchived  ProductStatus = "archived"
)

// Valid проверяет, что статус входит в допустимое множество
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPending, ProductStatusActive,
		ProductStatusSuspended, ProductStatusArchived:
		return true
	}
	return false
}

// Product представляет полную карточку товара
type Product struct {
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	PublishedAt      *time.Time    `json:"published_at,omitempty"`
	ShortDescription *string       `json:"short_description,omitempty"`
	CompareAtPrice   *float64      `json:"compare_at_price,omitempty"`
	Category         *string       `json:"category,omitempty"`
	Tags             *string       `json:"tags,omitempty"`
	SKU              *string       `json:"sku,omitempty"`
	FileURL          *string       `json:"file_url,omitempty"`
	FileName         *string       `json:"file_name,omitempty"`
	FileSize         *int64        `json:"file_size,omitempty"`
	FileType         *string       `json:"file_type,omitempty"`
	ThumbnailURL     *string       `json:"thumbnail_url,omitempty"`
	PreviewURL       *string       `json:"preview_url,omitempty"`
	SampleFileURL    *string       `json:"sample_file_url,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Status           ProductStatus `json:"status"`
	Price            float64       `json:"price"`
	AverageRating    float64       `json:"average_rating"`
	ID               int64         `json:"id"`
	StockQuantity    int64         `json:"stock_quantity"`
	DownloadLimit    int64         `json:"download_limit"`
	SoldCount        int64         `json:"sold_count"`
	ReviewCount      int64         `json:"review_count"`
	SellerID         int64         `json:"seller_id"`
	IsActive         bool          `json:"is_active"`
	IsFeatured       bool          `json:"is_featured"`
}

// ProductListItem представляет товар в публичном каталоге
type ProductListItem struct {
	CreatedAt        time.Time `json:"created_at"`
	ShortDescription *string   `json:"short_description,omitempty"`
	CompareAtPrice   *float64  `json:"compare_at_price,omitempty"`
	ThumbnailURL     *string   `json:"thumbnail_url,omitempty"`
	SellerName       *string   `json:"seller_name,omitempty"`
	Title            string    `json:"title"`
	Price            float64   `json:"price"`
	SellerRating     float64   `json:"seller_rating"`
	AverageRating    float64   `json:"average_rating"`
	ID               int64     `json:"id"`
	SoldCount        int64     `json:"sold_count"`
	ReviewCount      int64     `json:"review_count"`
	IsFeatured       bool      `json:"is_featured"`
}

// ProductCreate содержит поля для создания товара.
// Необязательные поля передаются указателями: nil не сериализуется.
type ProductCreate struct {
	ShortDescription *string       `json:"short_description,omitempty"`
	CompareAtPrice   *float64      `json:"compare_at_price,omitempty"`
	Category         *string       `json:"category,omitempty"`
	Tags             *string       `json:"tags,omitempty"`
	SKU              *string       `json:"sku,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Status           ProductStatus `json:"status"`
	Price            float64       `json:"price"`
	StockQuantity    int64         `json:"stock_quantity"`
	DownloadLimit    int64         `json:"download_limit"`
	IsActive         bool          `json:"is_active"`
	IsFeatured       bool          `json:"is_featured"`
}

// ProductUpdate содержит поля частичного обновления: nil означает "не менять"
type ProductUpdate struct {
	Title            *string        `json:"title,omitempty"`
	Description      *string        `json:"description,omitempty"`
	ShortDescription *string        `json:"short_description,omitempty"`
	Price            *float64       `json:"price,omitempty"`
	CompareAtPrice   *float64       `json:"compare_at_price,omitempty"`
	Category         *string        `json:"category,omitempty"`
	Tags             *string        `json:"tags,omitempty"`
	SKU              *string        `json:"sku,omitempty"`
	Status           *ProductStatus `json:"status,omitempty"`
	IsActive         *bool          `json:"is_active,omitempty"`
	IsFeatured       *bool          `json:"is_featured,omitempty"`
	StockQuantity    *int64         `json:"stock_quantity,omitempty"`
	DownloadLimit    *int64         `json:"download_limit,omitempty"`
}

// ProductFileUpload представляет результат отдельной загрузки файла
type ProductFileUpload struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

// SortField определяет поле сортировки публичного каталога
type SortField string

const (
	SortByCreatedAt SortField = "created_at"
	SortByPrice     SortField = "price"
	SortBySoldCount SortField = "sold_count"
	SortByRating    SortField = "rating"
)

// ProductFilters параметры фильтрации, сортировки и пагинации
type ProductFilters struct {
	Category  string    `json:"category,omitempty"`
	Search    string    `json:"search,omitempty"`
	SortBy    SortField `json:"sort_by,omitempty"`
	SortOrder string    `json:"sort_order,omitempty"` // asc | desc
	Skip      int       `json:"skip,omitempty"`
	Limit     int       `json:"limit,omitempty"`
}

// MessageResponse представляет ответ сервера с текстовым сообщением
type MessageResponse struct {
	Message string `json:"message"`
}
