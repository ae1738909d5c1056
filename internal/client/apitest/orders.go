package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// handleCreateOrder обрабатывает POST /api/v1/orders/.
// Сумма пересчитывается по позициям, название товара берется из каталога.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.OrderCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !(req.TotalAmount > 0) {
		writeValidationError(w, "total_amount", "Input should be greater than 0")
		return
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			writeValidationError(w, "quantity", "Input should be greater than 0")
			return
		}
		if !(item.Price > 0) {
			writeValidationError(w, "price", "Input should be greater than 0")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	o := &pkgapi.Order{
		UserID:          currentUserID(r),
		Status:          pkgapi.OrderPending,
		ShippingAddress: req.ShippingAddress,
		TrackingNumber:  req.TrackingNumber,
		Items:           []pkgapi.OrderItem{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, item := range req.Items {
		p, ok := s.products[item.ProductID]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Product %d not found", item.ProductID))
			return
		}
		o.Items = append(o.Items, pkgapi.OrderItem{
			ID:          s.nextItemID,
			ProductID:   item.ProductID,
			ProductName: p.Title,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
		s.nextItemID++
		o.TotalAmount += item.Price * float64(item.Quantity)
	}

	o.ID = s.nextOrderID
	s.nextOrderID++
	s.orders[o.ID] = o

	writeJSON(w, http.StatusOK, o)
}

// handleListOrders обрабатывает GET /api/v1/orders/
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	s.mu.Lock()
	items := []pkgapi.Order{}
	for id := int64(1); id < s.nextOrderID; id++ {
		if o, ok := s.orders[id]; ok && o.UserID == userID {
			items = append(items, *o)
		}
	}
	s.mu.Unlock()

	q := r.URL.Query()
	writeJSON(w, http.StatusOK, paginate(items, q.Get("skip"), q.Get("limit")))
}

// handleGetOrder обрабатывает GET /api/v1/orders/{id}
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ownOrder(w, r, "view")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// handleUpdateOrder обрабатывает PUT /api/v1/orders/{id}
func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ownOrder(w, r, "update")
	if !ok {
		return
	}
	if req.Status != nil {
		o.Status = *req.Status
	}
	if req.ShippingAddress != nil {
		o.ShippingAddress = req.ShippingAddress
	}
	if req.TrackingNumber != nil {
		o.TrackingNumber = req.TrackingNumber
	}
	o.UpdatedAt = time.Now().UTC()

	writeJSON(w, http.StatusOK, o)
}

// handleCancelOrder обрабатывает DELETE /api/v1/orders/{id}: заказ не удаляется
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.ownOrder(w, r, "cancel")
	if !ok {
		return
	}
	o.Status = pkgapi.OrderCancelled
	o.UpdatedAt = time.Now().UTC()

	writeJSON(w, http.StatusOK, pkgapi.MessageResponse{Message: "Order cancelled successfully"})
}

// ownOrder находит заказ текущего пользователя или пишет 404/403.
// Вызывается под s.mu.
func (s *Server) ownOrder(w http.ResponseWriter, r *http.Request, action string) (*pkgapi.Order, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeValidationError(w, "order_id", "Input should be a valid integer")
		return nil, false
	}

	o, ok := s.orders[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Order not found")
		return nil, false
	}
	if o.UserID != currentUserID(r) {
		writeError(w, http.StatusForbidden, fmt.Sprintf("You can only %s your own orders", action))
		return nil, false
	}
	return o, true
}
