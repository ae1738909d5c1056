package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

func validProduct() pkgapi.ProductCreate {
	return pkgapi.ProductCreate{
		Title:       "Go Patterns eBook",
		Description: "A practical book about Go concurrency",
		Price:       29.99,
		Status:      pkgapi.ProductStatusDraft,
	}
}

func TestValidateProductCreate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(p *pkgapi.ProductCreate)
		wantFields []string
		hasFile    bool
	}{
		{name: "valid", mutate: func(p *pkgapi.ProductCreate) {}, hasFile: true},
		{name: "missing file", mutate: func(p *pkgapi.ProductCreate) {}, wantFields: []string{"file"}},
		{
			name:       "blank title",
			mutate:     func(p *pkgapi.ProductCreate) { p.Title = "   " },
			hasFile:    true,
			wantFields: []string{"title"},
		},
		{
			name:       "short description",
			mutate:     func(p *pkgapi.ProductCreate) { p.Description = "too short" },
			hasFile:    true,
			wantFields: []string{"description"},
		},
		{
			name:       "zero price",
			mutate:     func(p *pkgapi.ProductCreate) { p.Price = 0 },
			hasFile:    true,
			wantFields: []string{"price"},
		},
		{
			name: "bad status and negative counters",
			mutate: func(p *pkgapi.ProductCreate) {
				p.Status = "sold"
				p.StockQuantity = -1
				p.DownloadLimit = -5
			},
			hasFile:    true,
			wantFields: []string{"status", "stock_quantity", "download_limit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)

			err := ValidateProductCreate(p, tt.hasFile)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Len(t, fe, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fe, f)
			}
		})
	}
}

func TestValidateProductUpdate(t *testing.T) {
	price := 29.99
	assert.NoError(t, ValidateProductUpdate(pkgapi.ProductUpdate{Price: &price}))
	assert.NoError(t, ValidateProductUpdate(pkgapi.ProductUpdate{}))

	zero := 0.0
	empty := ""
	err := ValidateProductUpdate(pkgapi.ProductUpdate{Price: &zero, Title: &empty})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "price")
	assert.Contains(t, fe, "title")
	assert.NotContains(t, fe, "description")
}

func TestValidateAttachment(t *testing.T) {
	assert.NoError(t, ValidateAttachment("application/pdf", 1024, ProductFileTypes))
	assert.NoError(t, ValidateAttachment("IMAGE/PNG; name=x", 1024, ThumbnailTypes))
	assert.NoError(t, ValidateAttachment("video/mp4", MaxUploadSize, ProductFileTypes))

	err := ValidateAttachment("application/pdf", 1024, ThumbnailTypes)
	assert.ErrorContains(t, err, "not allowed")

	err = ValidateAttachment("application/zip", MaxUploadSize+1, ProductFileTypes)
	assert.ErrorContains(t, err, "too large")
}
