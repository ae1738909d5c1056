package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken означает, что токен не является JWT
var ErrOpaqueToken = errors.New("token is not a JWT")

// TokenClaims содержит данные из payload токена.
// Подпись не проверяется: клиент не знает секрета сервера,
// значения используются только для отображения.
type TokenClaims struct {
	ExpiresAt time.Time
	IssuedAt  time.Time
	Subject   string
}

// ParseTokenClaims разбирает JWT без проверки подписи
func ParseTokenClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	out := &TokenClaims{}

	// FastAPI кладет в sub как строку, так и число
	if sub, ok := claims["sub"]; ok && sub != nil {
		out.Subject = fmt.Sprint(sub)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("invalid iat claim: %w", err)
	}
	if iat != nil {
		out.IssuedAt = iat.Time
	}

	return out, nil
}

// Expired сообщает, истек ли токен к моменту now.
// Токен без exp считается бессрочным.
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
