package api

import "time"

// ApplicationStatus определяет статус заявки продавца
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// SellerApplication представляет заявку на статус продавца
type SellerApplication struct {
	SellerTaxID   *string `json:"seller_tax_id,omitempty"`
	StoreName     string  `json:"store_name"`
	SellerBio     string  `json:"seller_bio"`
	SellerAddress string  `json:"seller_address"`
	TermsAccepted bool    `json:"terms_accepted"`
}

// SellerApplicationResponse представляет заявку в том виде, как её хранит сервер
type SellerApplicationResponse struct {
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
	SellerTaxID   *string           `json:"seller_tax_id,omitempty"`
	Email         string            `json:"email"`
	StoreName     string            `json:"store_name"`
	SellerBio     string            `json:"seller_bio"`
	SellerAddress string            `json:"seller_address"`
	Status        ApplicationStatus `json:"status"`
	ID            int64             `json:"id"`
}

// SellerProfile представляет публичный профиль продавца
type SellerProfile struct {
	CreatedAt        time.Time `json:"created_at"`
	Username         *string   `json:"username,omitempty"`
	FullName         *string   `json:"full_name,omitempty"`
	StoreName        *string   `json:"store_name,omitempty"`
	SellerBio        *string   `json:"seller_bio,omitempty"`
	SellerAddress    *string   `json:"seller_address,omitempty"`
	SellerTaxID      *string   `json:"seller_tax_id,omitempty"`
	Email            string    `json:"email"`
	TotalSales       float64   `json:"total_sales"`
	SellerRating     float64   `json:"seller_rating"`
	ID               int64     `json:"id"`
	TotalProducts    int64     `json:"total_products"`
	IsSellerApproved bool      `json:"is_seller_approved"`
	SellerVerified   bool      `json:"seller_verified"`
}

// SellerApprovalRequest представляет решение администратора по заявке
type SellerApprovalRequest struct {
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	Status          ApplicationStatus `json:"status"`
}
