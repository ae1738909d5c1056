package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/digimarket/pkg/api"
)

// DefaultTimeout ограничивает обычные запросы; загрузки файлов
// контролируются контекстом вызывающего
const DefaultTimeout = 30 * time.Second

// Client представляет HTTP клиент для взаимодействия с API маркетплейса.
// Все запросы проходят через цепочку middleware (токен, 401, логирование).
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	middleware []Middleware
}

// Option настраивает Client
type Option func(*Client)

// WithMiddleware добавляет middleware в цепочку; первый - самый внешний
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithTimeout задает таймаут http.Client (0 - без таймаута)
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTransport подменяет базовый транспорт (тесты, прокси)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithLogger задает логгер клиента
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: http.DefaultTransport,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient.Transport = Chain(c.httpClient.Transport, c.middleware...)

	return c
}

// BaseURL возвращает адрес API без завершающего слэша
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RawBody отправляется как есть, минуя JSON-кодирование (multipart и т.п.)
type RawBody struct {
	Reader      io.Reader
	ContentType string
	Length      int64 // -1 если длина неизвестна
}

// RequestOption настраивает отдельный запрос
type RequestOption func(*http.Request)

// WithQuery добавляет query параметры; пустые значения пропускаются
func WithQuery(values url.Values) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		for key, vals := range values {
			for _, v := range vals {
				if v != "" {
					q.Add(key, v)
				}
			}
		}
		r.URL.RawQuery = q.Encode()
	}
}

// WithHeader устанавливает заголовок запроса
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Get выполняет GET запрос
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post выполняет POST запрос
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put выполняет PUT запрос
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch выполняет PATCH запрос
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Delete выполняет DELETE запрос
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Do выполняет HTTP запрос.
// Ответ 2xx возвращается как *Response. Любой другой статус возвращается
// как *APIError с неизмененным телом ответа сервера.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	fullURL := c.baseURL + path

	var (
		bodyReader  io.Reader
		contentType string
		length      int64 = -1
	)

	switch b := body.(type) {
	case nil:
	case *RawBody:
		bodyReader = b.Reader
		contentType = b.ContentType
		length = b.Length
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		contentType = "application/json"
		length = int64(len(jsonData))
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if length >= 0 && bodyReader != nil {
		req.ContentLength = length
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// Response представляет успешный ответ сервера
type Response struct {
	Header     http.Header
	Body       []byte
	StatusCode int
}

// Decode декодирует JSON тело ответа в v
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("failed to decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// DecodeResponse декодирует результат вызова Get/Post/...:
//
//	user, err := DecodeResponse[api.User](c.Get(ctx, "/api/v1/users/me"))
func DecodeResponse[T any](resp *Response, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// errorMessage извлекает текст ошибки из detail FastAPI
func errorMessage(body []byte) (string, bool) {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || len(errResp.Detail) == 0 {
		return "", false
	}
	return errResp.Message(), true
}
