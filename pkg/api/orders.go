package api

import "time"

// OrderStatus определяет статус заказа
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid проверяет, что статус входит в допустимое множество
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// OrderItemCreate - позиция нового заказа. Price - цена за единицу.
type OrderItemCreate struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderCreate представляет тело POST /orders/.
// Сервер пересчитывает TotalAmount по позициям, но поле обязательно и должно быть > 0.
type OrderCreate struct {
	ShippingAddress *string           `json:"shipping_address,omitempty"`
	TrackingNumber  *string           `json:"tracking_number,omitempty"`
	Status          OrderStatus       `json:"status,omitempty"`
	Items           []OrderItemCreate `json:"items"`
	TotalAmount     float64           `json:"total_amount"`
}

// OrderItem - позиция заказа в ответе сервера
type OrderItem struct {
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	Quantity    int64   `json:"quantity"`
}

// Order представляет заказ покупателя
type Order struct {
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	ShippingAddress *string     `json:"shipping_address,omitempty"`
	TrackingNumber  *string     `json:"tracking_number,omitempty"`
	Status          OrderStatus `json:"status"`
	Items           []OrderItem `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
}

// OrderUpdate - частичное обновление заказа; nil поля не отправляются
type OrderUpdate struct {
	Status          *OrderStatus `json:"status,omitempty"`
	ShippingAddress *string      `json:"shipping_address,omitempty"`
	TrackingNumber  *string      `json:"tracking_number,omitempty"`
}
