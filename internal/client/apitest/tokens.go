package apitest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims - claims токена фейкового API. Generation позволяет
// отозвать все выданные токены разом.
type tokenClaims struct {
	Role       string `json:"role"`
	Generation int    `json:"gen"`
	jwt.RegisteredClaims
}

type tokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// issueToken создает HS256 access token с sub = id пользователя
func issueToken(cfg tokenConfig, userID int64, role string, generation int) (string, int64, error) {
	now := time.Now()

	claims := tokenClaims{
		Role:       role,
		Generation: generation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "digimarket-test",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, int64(cfg.TTL.Seconds()), nil
}

// parseToken проверяет подпись и срок действия токена
func parseToken(cfg tokenConfig, tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
