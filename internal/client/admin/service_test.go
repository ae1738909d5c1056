package admin

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
	pkgapi "github.com/iudanet/digimarket/pkg/api"
)

func TestService_ListApplications(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sellersPath, r.URL.Path)
		assert.Equal(t, "limit=100&status=pending", r.URL.RawQuery)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]pkgapi.SellerApplicationResponse{
			{ID: 1, StoreName: "A", Status: pkgapi.ApplicationPending},
			{ID: 2, StoreName: "B", Status: pkgapi.ApplicationPending},
		})
	}))
	defer server.Close()

	svc := NewService(api.NewClient(server.URL))

	apps, err := svc.ListApplications(context.Background(), pkgapi.ApplicationPending, 0, 500)
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	_, err = svc.ListApplications(context.Background(), "archived", 0, 10)
	assert.Error(t, err)
}

func TestService_Review(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/admin/sellers/12/approve", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pkgapi.SellerApplicationResponse{
			ID:     12,
			Status: pkgapi.ApplicationStatus(body["status"].(string)),
		})
	}))
	defer server.Close()

	svc := NewService(api.NewClient(server.URL))
	ctx := context.Background()

	res, err := svc.Approve(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, pkgapi.ApplicationApproved, res.Status)

	res, err = svc.Reject(ctx, 12, "incomplete address")
	require.NoError(t, err)
	assert.Equal(t, pkgapi.ApplicationRejected, res.Status)

	// Недопустимый статус не отправляется
	_, err = svc.Review(ctx, 12, pkgapi.SellerApprovalRequest{Status: pkgapi.ApplicationPending})
	assert.ErrorIs(t, err, ErrInvalidDecision)
	assert.Equal(t, int32(2), hits.Load())
}

func TestService_SellerDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/api/v1/admin/sellers/5" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Seller not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(pkgapi.SellerProfile{ID: 5, Email: "s@b.com"})
	}))
	defer server.Close()

	svc := NewService(api.NewClient(server.URL))

	profile, err := svc.SellerDetails(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "s@b.com", profile.Email)

	_, err = svc.SellerDetails(context.Background(), 6)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, "Seller not found", api.Message(err, ""))
}
