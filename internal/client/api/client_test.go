package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/digimarket/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8000/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8000", client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)

	custom := NewClient("http://localhost:8000", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, custom.httpClient.Timeout)
}

// TestClient_PostJSON проверяет отправку JSON и декодирование ответа
func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Проверяем метод и путь
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.AuthResponse{AccessToken: "tok123", TokenType: "bearer", ExpiresIn: 3600})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Post(context.Background(), "/api/v1/auth/login", api.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	auth, err := DecodeResponse[api.AuthResponse](resp, nil)
	require.NoError(t, err)
	assert.Equal(t, "tok123", auth.AccessToken)
	assert.Equal(t, int64(3600), auth.ExpiresIn)
}

// TestClient_ErrorStatuses проверяет, что ошибки сервера доходят до вызывающего без изменений
func TestClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		sentinel       error
		name           string
		body           string
		expectedErrMsg string
		expectedDetail string
		statusCode     int
	}{
		{
			name:           "detail string",
			statusCode:     http.StatusConflict,
			body:           `{"detail":"Email already registered"}`,
			expectedErrMsg: "server error (409): Email already registered",
			expectedDetail: "Email already registered",
		},
		{
			name:           "validation list",
			statusCode:     http.StatusUnprocessableEntity,
			body:           `{"detail":[{"loc":["body","price"],"msg":"must be greater than 0"},{"msg":"field required"}]}`,
			expectedErrMsg: "server error (422): must be greater than 0; field required",
			expectedDetail: "must be greater than 0; field required",
		},
		{
			name:           "plain text",
			statusCode:     http.StatusInternalServerError,
			body:           "Internal Server Error",
			expectedErrMsg: "request failed with status 500: Internal Server Error",
		},
		{
			name:           "forbidden",
			statusCode:     http.StatusForbidden,
			body:           `{"detail":"Only sellers can create products"}`,
			expectedErrMsg: "server error (403): Only sellers can create products",
			expectedDetail: "Only sellers can create products",
			sentinel:       ErrForbidden,
		},
		{
			name:           "not found",
			statusCode:     http.StatusNotFound,
			body:           `{"detail":"Product not found"}`,
			expectedErrMsg: "server error (404): Product not found",
			expectedDetail: "Product not found",
			sentinel:       ErrNotFound,
		},
		{
			name:           "unauthorized",
			statusCode:     http.StatusUnauthorized,
			body:           `{"detail":"Invalid credentials"}`,
			expectedErrMsg: "server error (401): Invalid credentials",
			expectedDetail: "Invalid credentials",
			sentinel:       ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			resp, err := client.Get(context.Background(), "/api/v1/anything")

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, tt.expectedErrMsg, err.Error())

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.expectedDetail, apiErr.Detail)
			assert.Equal(t, tt.body, string(apiErr.Body))

			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := NewClient(addr)
	_, err := client.Get(context.Background(), "/api/v1/products")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_WithQuery_SkipsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "books", r.URL.Query().Get("category"))
		assert.False(t, r.URL.Query().Has("search"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	query := url.Values{}
	query.Set("category", "books")
	query.Set("search", "")
	query.Set("limit", "20")

	_, err := client.Get(context.Background(), "/api/v1/products", WithQuery(query))
	require.NoError(t, err)
}

func TestClient_RawBody(t *testing.T) {
	payload := "--boundary\r\n...\r\n--boundary--\r\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "multipart/form-data; boundary=boundary", r.Header.Get("Content-Type"))
		assert.Equal(t, int64(len(payload)), r.ContentLength)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Put(context.Background(), "/api/v1/products/1", &RawBody{
		Reader:      strings.NewReader(payload),
		ContentType: "multipart/form-data; boundary=boundary",
		Length:      int64(len(payload)),
	})
	require.NoError(t, err)

	msg, err := DecodeResponse[api.MessageResponse](resp, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Message)
}

func TestResponse_Decode_Empty(t *testing.T) {
	resp := &Response{StatusCode: http.StatusNoContent}
	var v map[string]any
	assert.Error(t, resp.Decode(&v))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Product not found", Message(&APIError{StatusCode: 404, Detail: "Product not found"}, "Failed"))
	assert.Equal(t, "Failed", Message(errors.New("boom"), "Failed"))
	assert.Equal(t, "", Message(nil, "Failed"))
}
