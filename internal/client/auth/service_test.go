package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/digimarket/internal/client/api"
	"github.com/iudanet/digimarket/internal/client/storage"
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

// TestService_Login проверяет сохранение токена после успешного входа
func TestService_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)
		assert.Equal(t, "secret", req.Password)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pkgapi.AuthResponse{
			User:        pkgapi.User{ID: 1, Email: "a@b.com", Role: pkgapi.RoleBuyer},
			AccessToken: "tok123",
			TokenType:   "bearer",
			ExpiresIn:   3600,
		})
	}))
	defer server.Close()

	ctx := context.Background()
	mem := storage.NewMemory()
	service := NewService(api.NewClient(server.URL), mem)

	resp, err := service.Login(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok123", resp.AccessToken)

	token, err := mem.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

// TestService_LoginValidation проверяет отказ без сетевого запроса
func TestService_LoginValidation(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	service := NewService(api.NewClient(server.URL), storage.NewMemory())

	_, err := service.Login(context.Background(), "", "secret")
	assert.Error(t, err)
	_, err = service.Login(context.Background(), "a@b.com", "")
	assert.Error(t, err)
	assert.Zero(t, hits.Load())
}

// TestService_LoginEmptyToken проверяет, что пустой токен не сохраняется
func TestService_LoginEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"","user":{"id":1}}`))
	}))
	defer server.Close()

	ctx := context.Background()
	mem := storage.NewMemory()
	service := NewService(api.NewClient(server.URL), mem)

	_, err := service.Login(ctx, "a@b.com", "secret")
	require.Error(t, err)

	ok, err := service.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestService_Register проверяет регистрацию и валидацию полей
func TestService_Register(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, registerPath, r.URL.Path)

		var req pkgapi.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, pkgapi.RoleSeller, req.Role)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(pkgapi.User{ID: 5, Email: req.Email, Role: req.Role, IsActive: true})
	}))
	defer server.Close()

	ctx := context.Background()
	mem := storage.NewMemory()
	service := NewService(api.NewClient(server.URL), mem)

	tests := []struct {
		name    string
		req     pkgapi.RegisterRequest
		wantErr bool
	}{
		{
			name: "valid seller",
			req:  pkgapi.RegisterRequest{Email: "s@b.com", Password: "password1", Role: pkgapi.RoleSeller},
		},
		{
			name:    "bad email",
			req:     pkgapi.RegisterRequest{Email: "not-an-email", Password: "password1", Role: pkgapi.RoleSeller},
			wantErr: true,
		},
		{
			name:    "short password",
			req:     pkgapi.RegisterRequest{Email: "s@b.com", Password: "short", Role: pkgapi.RoleSeller},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := service.Register(ctx, tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), user.ID)
		})
	}

	assert.Equal(t, int32(1), hits.Load())

	// Регистрация не создает сессию
	_, err := mem.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

// TestService_RegisterConflict проверяет передачу detail сервера
func TestService_RegisterConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
	}))
	defer server.Close()

	service := NewService(api.NewClient(server.URL), storage.NewMemory())

	_, err := service.Register(context.Background(), pkgapi.RegisterRequest{Email: "a@b.com", Password: "password1"})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", api.Message(err, "registration failed"))
}

// TestService_Logout проверяет, что logout без сети очищает токен
func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.SaveToken(ctx, "tok"))

	service := NewService(api.NewClient("http://127.0.0.1:1"), mem)

	ok, err := service.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, service.Logout(ctx))

	ok, err = service.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Повторный logout не ошибка
	require.NoError(t, service.Logout(ctx))
}

// TestService_GetCurrentUser проверяет чтение /users/me
func TestService_GetCurrentUser(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, mePath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pkgapi.User{ID: 1, Email: "a@b.com"})
	}))
	defer server.Close()

	ctx := context.Background()
	mem := storage.NewMemory()
	service := NewService(api.NewClient(server.URL), mem)

	// Без токена запрос не отправляется
	user, err := service.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, hits.Load())

	require.NoError(t, mem.SaveToken(ctx, "tok"))
	user, err = service.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, int32(1), hits.Load())
}

// TestService_UpdateCurrentUser проверяет PUT /users/me
func TestService_UpdateCurrentUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"full_name": "Alice"}, body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pkgapi.User{ID: 1, Email: "a@b.com", FullName: strPtr("Alice")})
	}))
	defer server.Close()

	service := NewService(api.NewClient(server.URL), storage.NewMemory())

	user, err := service.UpdateCurrentUser(context.Background(), pkgapi.UserUpdate{FullName: strPtr("Alice")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName())

	_, err = service.UpdateCurrentUser(context.Background(), pkgapi.UserUpdate{Email: strPtr("bad")})
	assert.Error(t, err)
}

func strPtr(s string) *string { return &s }
