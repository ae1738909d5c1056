package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const (
	// MinDescriptionLen минимальная длина описания товара
	MinDescriptionLen = 10
	// MaxUploadSize максимальный размер загружаемого файла (100 MiB)
	MaxUploadSize int64 = 100 << 20
)

// ProductFileTypes допустимые MIME типы файла товара
var ProductFileTypes = []string{
	"application/pdf",
	"application/zip",
	"video/mp4",
	"image/jpeg",
	"image/png",
}

// ThumbnailTypes допустимые MIME типы обложки
var ThumbnailTypes = []string{
	"image/jpeg",
	"image/png",
}

// ValidateProductCreate проверяет форму создания товара.
// hasFile - выбран ли основной файл: при создании он обязателен.
func ValidateProductCreate(p pkgapi.ProductCreate, hasFile bool) error {
	errs := FieldErrors{}
	checkTitle(errs, p.Title)
	checkDescription(errs, p.Description)
	checkPrice(errs, p.Price)

	if p.Status != "" && !p.Status.Valid() {
		errs.Add("status", fmt.Sprintf("unknown status %q", p.Status))
	}
	if p.StockQuantity < 0 {
		errs.Add("stock_quantity", "must not be negative")
	}
	if p.DownloadLimit < 0 {
		errs.Add("download_limit", "must not be negative")
	}
	if p.CompareAtPrice != nil && *p.CompareAtPrice < 0 {
		errs.Add("compare_at_price", "must not be negative")
	}
	if !hasFile {
		errs.Add("file", "product file is required")
	}

	return errs.Err()
}

// ValidateProductUpdate проверяет только заданные поля частичного обновления
func ValidateProductUpdate(p pkgapi.ProductUpdate) error {
	errs := FieldErrors{}
	if p.Title != nil {
		checkTitle(errs, *p.Title)
	}
	if p.Description != nil {
		checkDescription(errs, *p.Description)
	}
	if p.Price != nil {
		checkPrice(errs, *p.Price)
	}
	if p.Status != nil && !p.Status.Valid() {
		errs.Add("status", fmt.Sprintf("unknown status %q", *p.Status))
	}
	if p.StockQuantity != nil && *p.StockQuantity < 0 {
		errs.Add("stock_quantity", "must not be negative")
	}
	if p.DownloadLimit != nil && *p.DownloadLimit < 0 {
		errs.Add("download_limit", "must not be negative")
	}
	return errs.Err()
}

// ValidateAttachment проверяет тип и размер вложения
func ValidateAttachment(contentType string, size int64, allowed []string) error {
	if !allowedType(contentType, allowed) {
		return fmt.Errorf("file type %q is not allowed (allowed: %s)", contentType, strings.Join(allowed, ", "))
	}
	if size > MaxUploadSize {
		return fmt.Errorf("file is too large: %d bytes (max %d MiB)", size, MaxUploadSize>>20)
	}
	return nil
}

func allowedType(contentType string, allowed []string) bool {
	// Игнорируем параметры вида "; charset=..."
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, a := range allowed {
		if contentType == a {
			return true
		}
	}
	return false
}

func checkTitle(errs FieldErrors, title string) {
	if strings.TrimSpace(title) == "" {
		errs.Add("title", "title is required")
	}
}

func checkDescription(errs FieldErrors, description string) {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < MinDescriptionLen {
		errs.Add("description", fmt.Sprintf("description must be at least %d characters", MinDescriptionLen))
	}
}

func checkPrice(errs FieldErrors, price float64) {
	if !(price > 0) {
		errs.Add("price", "price must be greater than 0")
	}
}
