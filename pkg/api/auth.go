package api

import "time"

// Role определяет роль пользователя на маркетплейсе
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// User представляет текущего пользователя, как его возвращает сервер
type User struct {
	Username         *string `json:"username,omitempty"`
	FullName         *string `json:"full_name,omitempty"`
	IsSellerApproved *bool   `json:"is_seller_approved,omitempty"`
	IsVerified       *bool   `json:"is_verified,omitempty"`
	Email            string  `json:"email"`
	Role             Role    `json:"role"`
	ID               int64   `json:"id"`
	IsActive         bool    `json:"is_active"`
}

// DisplayName возвращает имя для вывода: full name, username или email
func (u *User) DisplayName() string {
	switch {
	case u.FullName != nil && *u.FullName != "":
		return *u.FullName
	case u.Username != nil && *u.Username != "":
		return *u.Username
	default:
		return u.Email
	}
}

// ApprovedSeller сообщает, может ли пользователь управлять товарами
func (u *User) ApprovedSeller() bool {
	return u.Role == RoleSeller && u.IsSellerApproved != nil && *u.IsSellerApproved
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     Role    `json:"role,omitempty"`
}

// UserUpdate представляет частичное обновление профиля (PUT /users/me)
type UserUpdate struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// AuthResponse представляет ответ на успешный логин
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"` // bearer token
	TokenType   string `json:"token_type"`   // обычно "bearer"
	ExpiresIn   int64  `json:"expires_in"`   // время жизни токена в секундах
}

// Expiry возвращает момент истечения токена относительно now
func (r *AuthResponse) Expiry(now time.Time) time.Time {
	if r.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(r.ExpiresIn) * time.Second)
}
