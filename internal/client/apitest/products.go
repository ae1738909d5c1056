package apitest

import (
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

const maxMultipartMemory = 32 << 20

// handleListPublic обрабатывает GET /api/v1/products: только активные товары
func (s *Server) handleListPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))
	category := q.Get("category")

	s.mu.Lock()
	var items []pkgapi.ProductListItem
	for _, id := range s.order {
		p := s.products[id]
		if !p.IsActive || p.Status != pkgapi.ProductStatusActive {
			continue
		}
		if category != "" && (p.Category == nil || *p.Category != category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		items = append(items, pkgapi.ProductListItem{
			ID:               p.ID,
			Title:            p.Title,
			ShortDescription: p.ShortDescription,
			Price:            p.Price,
			CompareAtPrice:   p.CompareAtPrice,
			ThumbnailURL:     p.ThumbnailURL,
			SoldCount:        p.SoldCount,
			AverageRating:    p.AverageRating,
			ReviewCount:      p.ReviewCount,
			IsFeatured:       p.IsFeatured,
			CreatedAt:        p.CreatedAt,
		})
	}
	s.mu.Unlock()

	sortItems(items, q.Get("sort_by"), q.Get("sort_order"))
	writeJSON(w, http.StatusOK, paginate(items, q.Get("skip"), q.Get("limit")))
}

// handleListMine обрабатывает GET /api/v1/products/me
func (s *Server) handleListMine(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := s.approvedSeller(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	items := []pkgapi.Product{}
	for _, id := range s.order {
		if p := s.products[id]; p.SellerID == sellerID {
			items = append(items, *p)
		}
	}
	s.mu.Unlock()

	q := r.URL.Query()
	writeJSON(w, http.StatusOK, paginate(items, q.Get("skip"), q.Get("limit")))
}

// handleGetProduct обрабатывает GET /api/v1/products/{id}
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	p, found := s.products[id]
	var out pkgapi.Product
	if found {
		out = *p
	}
	s.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateProduct обрабатывает multipart POST /api/v1/products
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := s.approvedSeller(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file := formFile(r, "file")
	if file == nil {
		writeValidationError(w, "file", "Field required")
		return
	}

	p := pkgapi.Product{Status: pkgapi.ProductStatusDraft}
	if field, msg := applyForm(&p, r.MultipartForm.Value); field != "" {
		writeValidationError(w, field, msg)
		return
	}
	if p.Title == "" {
		writeValidationError(w, "title", "Field required")
		return
	}
	attachFiles(&p, file, formFile(r, "thumbnail"))

	writeJSON(w, http.StatusCreated, s.AddProduct(sellerID, p))
}

// handleUpdateProduct обрабатывает multipart PUT /api/v1/products/{id}.
// Меняются только переданные поля.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	sellerID, ok := s.approvedSeller(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found := s.products[id]
	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if existing.SellerID != sellerID {
		writeError(w, http.StatusForbidden, "Not enough permissions")
		return
	}

	updated := *existing
	if field, msg := applyForm(&updated, r.MultipartForm.Value); field != "" {
		writeValidationError(w, field, msg)
		return
	}
	attachFiles(&updated, formFile(r, "file"), formFile(r, "thumbnail"))
	updated.UpdatedAt = time.Now().UTC()

	*existing = updated
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteProduct обрабатывает DELETE /api/v1/products/{id}
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	sellerID, ok := s.approvedSeller(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, found := s.products[id]
	if !found {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if p.SellerID != sellerID {
		writeError(w, http.StatusForbidden, "Not enough permissions")
		return
	}

	delete(s.products, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	writeJSON(w, http.StatusOK, pkgapi.MessageResponse{Message: "Product deleted successfully"})
}

// handleUpload обрабатывает POST /api/v1/products/upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.approvedSeller(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file := formFile(r, "file")
	if file == nil {
		writeValidationError(w, "file", "Field required")
		return
	}

	writeJSON(w, http.StatusOK, pkgapi.ProductFileUpload{
		FileURL:  "/uploads/products/" + file.Filename,
		FileName: file.Filename,
		FileType: file.Header.Get("Content-Type"),
		FileSize: file.Size,
	})
}

// approvedSeller возвращает id продавца или пишет 403
func (s *Server) approvedSeller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	s.mu.Lock()
	u := s.users[currentUserID(r)]
	ok := u != nil && u.ApprovedSeller()
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusForbidden, "Seller account not approved")
		return 0, false
	}
	return u.ID, true
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeValidationError(w, "id", "Input should be a valid integer")
		return 0, false
	}
	return id, true
}

func formFile(r *http.Request, name string) *multipart.FileHeader {
	if r.MultipartForm == nil || len(r.MultipartForm.File[name]) == 0 {
		return nil
	}
	return r.MultipartForm.File[name][0]
}

func attachFiles(p *pkgapi.Product, file, thumbnail *multipart.FileHeader) {
	if file != nil {
		url := "/uploads/products/" + file.Filename
		name := file.Filename
		size := file.Size
		ctype := file.Header.Get("Content-Type")
		p.FileURL, p.FileName, p.FileSize, p.FileType = &url, &name, &size, &ctype
	}
	if thumbnail != nil {
		url := "/uploads/thumbnails/" + thumbnail.Filename
		p.ThumbnailURL = &url
	}
}

// applyForm переносит поля формы в товар; возвращает поле с ошибкой
func applyForm(p *pkgapi.Product, values map[string][]string) (string, string) {
	for field, vals := range values {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]

		var err error
		switch field {
		case "title":
			p.Title = v
		case "description":
			p.Description = v
		case "short_description":
			p.ShortDescription = &v
		case "category":
			p.Category = &v
		case "tags":
			p.Tags = &v
		case "sku":
			p.SKU = &v
		case "status":
			status := pkgapi.ProductStatus(v)
			if !status.Valid() {
				return field, "Input should be 'draft', 'pending', 'active', 'suspended' or 'archived'"
			}
			p.Status = status
		case "price":
			p.Price, err = strconv.ParseFloat(v, 64)
			if err == nil && p.Price <= 0 {
				return field, "Input should be greater than 0"
			}
		case "compare_at_price":
			var f float64
			f, err = strconv.ParseFloat(v, 64)
			p.CompareAtPrice = &f
		case "is_active":
			p.IsActive, err = strconv.ParseBool(v)
		case "is_featured":
			p.IsFeatured, err = strconv.ParseBool(v)
		case "stock_quantity":
			p.StockQuantity, err = strconv.ParseInt(v, 10, 64)
		case "download_limit":
			p.DownloadLimit, err = strconv.ParseInt(v, 10, 64)
		default:
			return field, "Extra inputs are not permitted"
		}
		if err != nil {
			return field, "Input has an invalid format"
		}
	}
	return "", ""
}

func sortItems(items []pkgapi.ProductListItem, by, order string) {
	var less func(a, b pkgapi.ProductListItem) bool
	switch pkgapi.SortField(by) {
	case pkgapi.SortByPrice:
		less = func(a, b pkgapi.ProductListItem) bool { return a.Price < b.Price }
	case pkgapi.SortBySoldCount:
		less = func(a, b pkgapi.ProductListItem) bool { return a.SoldCount < b.SoldCount }
	case pkgapi.SortByRating:
		less = func(a, b pkgapi.ProductListItem) bool { return a.AverageRating < b.AverageRating }
	default:
		less = func(a, b pkgapi.ProductListItem) bool { return a.CreatedAt.Before(b.CreatedAt) }
		if order == "" {
			order = "desc"
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if order == "desc" {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func paginate[T any](items []T, skipParam, limitParam string) []T {
	skip, _ := strconv.Atoi(skipParam)
	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit <= 0 {
		limit = 100
	}

	skip = max(0, min(skip, len(items)))
	end := min(skip+limit, len(items))
	out := items[skip:end]
	if out == nil {
		return []T{}
	}
	return out
}
