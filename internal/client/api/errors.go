package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors для сравнения через errors.Is
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// APIError представляет ответ сервера со статусом вне 2xx.
// Body содержит тело ответа без изменений.
type APIError struct {
	Detail     string
	Body       []byte
	StatusCode int
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}
	if msg, ok := errorMessage(body); ok {
		e.Detail = msg
	}
	return e
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, string(e.Body))
}

// Is сопоставляет статус с sentinel ошибками
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Message возвращает сообщение для пользователя: detail сервера или fallback
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err == nil {
		return ""
	}
	return fallback
}
