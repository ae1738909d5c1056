package products

import (
	"strconv"

	"github.com/iudanet/digimarket/internal/client/upload"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// Имена multipart полей вложений
const (
	FileField      = "file"
	ThumbnailField = "thumbnail"
)

// createForm сериализует все поля товара. Необязательные поля со значением
// nil пропускаются.
func createForm(p pkgapi.ProductCreate) *upload.Form {
	f := &upload.Form{}
	f.AddField("title", p.Title)
	f.AddField("description", p.Description)
	addString(f, "short_description", p.ShortDescription)
	f.AddField("price", formatFloat(p.Price))
	addFloat(f, "compare_at_price", p.CompareAtPrice)
	addString(f, "category", p.Category)
	addString(f, "tags", p.Tags)
	addString(f, "sku", p.SKU)
	if p.Status != "" {
		f.AddField("status", string(p.Status))
	}
	f.AddField("is_active", strconv.FormatBool(p.IsActive))
	f.AddField("is_featured", strconv.FormatBool(p.IsFeatured))
	f.AddField("stock_quantity", strconv.FormatInt(p.StockQuantity, 10))
	f.AddField("download_limit", strconv.FormatInt(p.DownloadLimit, 10))
	return f
}

// updateForm сериализует только заданные поля: частичное обновление
func updateForm(p pkgapi.ProductUpdate) *upload.Form {
	f := &upload.Form{}
	addString(f, "title", p.Title)
	addString(f, "description", p.Description)
	addString(f, "short_description", p.ShortDescription)
	addFloat(f, "price", p.Price)
	addFloat(f, "compare_at_price", p.CompareAtPrice)
	addString(f, "category", p.Category)
	addString(f, "tags", p.Tags)
	addString(f, "sku", p.SKU)
	if p.Status != nil {
		f.AddField("status", string(*p.Status))
	}
	addBool(f, "is_active", p.IsActive)
	addBool(f, "is_featured", p.IsFeatured)
	addInt(f, "stock_quantity", p.StockQuantity)
	addInt(f, "download_limit", p.DownloadLimit)
	return f
}

func addString(f *upload.Form, name string, v *string) {
	if v != nil {
		f.AddField(name, *v)
	}
}

func addFloat(f *upload.Form, name string, v *float64) {
	if v != nil {
		f.AddField(name, formatFloat(*v))
	}
}

func addBool(f *upload.Form, name string, v *bool) {
	if v != nil {
		f.AddField(name, strconv.FormatBool(*v))
	}
}

func addInt(f *upload.Form, name string, v *int64) {
	if v != nil {
		f.AddField(name, strconv.FormatInt(*v, 10))
	}
}

// formatFloat печатает кратчайшее точное представление: 29.99, 30
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
