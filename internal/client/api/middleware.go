package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/iudanet/digimarket/internal/client/storage"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// Middleware оборачивает транспорт клиента.
// Middleware не должен изменять входящий *http.Request: только его клон.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripFunc адаптер функции к http.RoundTripper
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper
func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain собирает транспорт: mw[0] - самый внешний, rt - самый внутренний
func Chain(rt http.RoundTripper, mw ...Middleware) http.RoundTripper {
	for i := len(mw) - 1; i >= 0; i-- {
		rt = mw[i](rt)
	}
	return rt
}

// TokenSource читает текущий токен из durable storage
type TokenSource interface {
	GetToken(ctx context.Context) (string, error)
}

// TokenPurger удаляет токен, если он все еще совпадает с переданным
type TokenPurger interface {
	TokenSource
	DeleteTokenIf(ctx context.Context, token string) (bool, error)
}

// UnauthorizedHandler вызывается, когда сервер отклонил запрос с 401 и
// в durable storage не осталось токена. Аналог редиректа на страницу логина.
// Handler должен быть идемпотентным: без токена 401 могут прийти несколько раз.
type UnauthorizedHandler func(ctx context.Context)

// RequestID проставляет X-Request-ID, если его нет
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			r := req.Clone(req.Context())
			r.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r)
		})
	}
}

// BearerAuth добавляет Authorization: Bearer <token> к каждому запросу,
// если токен есть в хранилище. Без токена запрос уходит неаутентифицированным.
func BearerAuth(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			token, err := tokens.GetToken(req.Context())
			if err != nil {
				if errors.Is(err, storage.ErrTokenNotFound) {
					return next.RoundTrip(req)
				}
				closeRequestBody(req)
				return nil, fmt.Errorf("failed to read session token: %w", err)
			}

			r := req.Clone(req.Context())
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(r)
			return next.RoundTrip(r)
		})
	}
}

// Unauthorized обрабатывает любой 401 и вызывает handler.
// Если запрос ушел с токеном, этот токен сначала удаляется из хранилища.
// Удаление - compare-and-delete, поэтому при нескольких одновременных 401
// с одним токеном handler вызывается один раз, а токен, сохраненный новым
// логином, не трогается. Запрос без токена вызывает handler, только если
// токена нет и в хранилище.
// Ответ в любом случае возвращается вызывающему без изменений.
func Unauthorized(tokens TokenPurger, handler UnauthorizedHandler) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}

			ctx := req.Context()
			if token := bearerToken(req); token != "" {
				deleted, purgeErr := tokens.DeleteTokenIf(ctx, token)
				if purgeErr != nil {
					slog.WarnContext(ctx, "failed to purge rejected token", "error", purgeErr)
					return resp, nil
				}
				if !deleted {
					// Токен уже удален или заменен новым логином
					return resp, nil
				}
			} else if _, getErr := tokens.GetToken(ctx); !errors.Is(getErr, storage.ErrTokenNotFound) {
				// Пока запрос был в пути, появился токен (или хранилище недоступно)
				return resp, nil
			}

			if handler != nil {
				handler(ctx)
			}
			return resp, nil
		})
	}
}

// Logging логирует метод, путь, статус и длительность каждого запроса.
// НЕ логирует sensitive данные (токены, тела запросов)
func Logging(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			duration := time.Since(start)

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"duration_ms", duration.Milliseconds(),
			}
			if id := req.Header.Get(RequestIDHeader); id != "" {
				attrs = append(attrs, "request_id", id)
			}

			if err != nil {
				logger.WarnContext(req.Context(), "HTTP request failed", append(attrs, "error", err)...)
				return resp, err
			}

			// Определяем уровень логирования на основе статуса
			logLevel := slog.LevelDebug
			if resp.StatusCode >= 500 {
				logLevel = slog.LevelError
			} else if resp.StatusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			logger.Log(req.Context(), logLevel, "HTTP request", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}

func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// closeRequestBody закрывает тело, как того требует контракт RoundTripper при ошибке
func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
