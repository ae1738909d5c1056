// Package apitest предоставляет in-process фейковый API маркетплейса для тестов.
package apitest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// account - пользователь фейкового API вместе с данными продавца
type account struct {
	application *pkgapi.SellerApplication
	appliedAt   time.Time
	password    string
	pkgapi.User
}

// Server - фейковый API. Состояние хранится в памяти и сбрасывается с сервером.
type Server struct {
	*httptest.Server

	logger   *slog.Logger
	users    map[int64]*account
	products map[int64]*pkgapi.Product
	orders   map[int64]*pkgapi.Order
	tokens   tokenConfig

	order         []int64
	hits          map[string]int
	nextUserID    int64
	nextProductID int64
	nextOrderID   int64
	nextItemID    int64
	generation    int

	mu sync.Mutex
}

// New запускает фейковый API; сервер закрывается в tb.Cleanup
func New(tb testing.TB) *Server {
	tb.Helper()

	s := &Server{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		users:    make(map[int64]*account),
		products: make(map[int64]*pkgapi.Product),
		orders:   make(map[int64]*pkgapi.Order),
		hits:     make(map[string]int),
		tokens: tokenConfig{
			Secret: []byte("apitest-secret"),
			TTL:    time.Hour,
		},
		nextUserID:    1,
		nextProductID: 1,
		nextOrderID:   1,
		nextItemID:    1,
	}

	s.Server = httptest.NewServer(s.routes())
	tb.Cleanup(s.Close)

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.logger))
	r.Use(requestLogger(s.logger))
	r.Use(s.countHits)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Get("/products", s.handleListPublic)
		r.Get("/products/{id}", s.handleGetProduct)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/me", s.handleMe)
			r.Put("/users/me", s.handleUpdateMe)

			r.Get("/products/me", s.handleListMine)
			r.Post("/products", s.handleCreateProduct)
			r.Post("/products/upload", s.handleUpload)
			r.Put("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)

			r.Post("/orders/", s.handleCreateOrder)
			r.Get("/orders/", s.handleListOrders)
			r.Get("/orders/{id}", s.handleGetOrder)
			r.Put("/orders/{id}", s.handleUpdateOrder)
			r.Delete("/orders/{id}", s.handleCancelOrder)

			r.Post("/sellers/apply", s.handleApply)
			r.Get("/sellers/application-status", s.handleApplicationStatus)
			r.Get("/sellers/profile", s.handleSellerProfile)

			r.Route("/admin/sellers", func(r chi.Router) {
				r.Use(s.requireRole(pkgapi.RoleAdmin))
				r.Get("/", s.handleAdminList)
				r.Get("/{id}", s.handleAdminDetails)
				r.Patch("/{id}/approve", s.handleAdminReview)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})

	return r
}

// AddUser создает пользователя напрямую, минуя регистрацию
func (s *Server) AddUser(email, password string, role pkgapi.Role, approvedSeller bool) pkgapi.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.newAccount(email, password, role)
	if role == pkgapi.RoleSeller {
		approved := approvedSeller
		u.IsSellerApproved = &approved
	}
	return u.User
}

// AddProduct кладет товар продавца в каталог
func (s *Server) AddProduct(sellerID int64, p pkgapi.Product) pkgapi.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextProductID
	s.nextProductID++
	p.SellerID = sellerID
	if p.Status == "" {
		p.Status = pkgapi.ProductStatusDraft
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	s.products[p.ID] = &p
	s.order = append(s.order, p.ID)
	return p
}

// Product возвращает товар по id
func (s *Server) Product(id int64) (pkgapi.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return pkgapi.Product{}, false
	}
	return *p, true
}

// Order возвращает заказ по id
func (s *Server) Order(id int64) (pkgapi.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return pkgapi.Order{}, false
	}
	return *o, true
}

// RevokeTokens делает все выданные токены недействительными
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

// Hits возвращает число запросов к "METHOD /path"
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// requireRole пропускает только пользователей с ролью role
func (s *Server) requireRole(role pkgapi.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			u := s.users[currentUserID(r)]
			allowed := u != nil && u.Role == role
			s.mu.Unlock()

			if !allowed {
				writeError(w, http.StatusForbidden, "Not enough permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// newAccount вызывается под s.mu
func (s *Server) newAccount(email, password string, role pkgapi.Role) *account {
	if role == "" {
		role = pkgapi.RoleBuyer
	}
	verified := false
	u := &account{
		password: password,
		User: pkgapi.User{
			ID:         s.nextUserID,
			Email:      email,
			Role:       role,
			IsActive:   true,
			IsVerified: &verified,
		},
	}
	s.nextUserID++
	s.users[u.ID] = u
	return u
}

// findByEmail вызывается под s.mu
func (s *Server) findByEmail(email string) *account {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError пишет ошибку в формате FastAPI: {"detail": "..."}
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidationError пишет ошибку валидации в формате FastAPI 422
func writeValidationError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{
			"loc":  []string{"body", field},
			"msg":  msg,
			"type": "value_error",
		}},
	})
}
