package sqlite

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/digimarket/internal/client/storage"
	"github.com/iudanet/digimarket/pkg/api"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestNew_MigrationOutputGoesToSlog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	newTestStorage(t)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "component=goose")
	assert.Contains(t, out, "00001_products.sql")

	// Выше Debug вывода миграций нет
	buf.Reset()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	newTestStorage(t)
	assert.Empty(t, buf.String())
}

func testProducts() []api.Product {
	return []api.Product{
		{ID: 3, Title: "Go Patterns eBook", Description: "Idiomatic concurrency patterns", Price: 19.99, Status: api.ProductStatusActive, IsActive: true},
		{ID: 1, Title: "Icon Pack", Description: "500 vector icons for 100% of apps", Price: 9.5, Status: api.ProductStatusDraft},
		{ID: 2, Title: "Lo-fi beats", Description: "Royalty free music loops", Price: 4, Status: api.ProductStatusActive, IsActive: true},
	}
}

func TestNew_RunsMigrations(t *testing.T) {
	s := newTestStorage(t)

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNew_InMemory(t *testing.T) {
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	products, err := s.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestStorage_ReplaceAndList_KeepsServerOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	require.NoError(t, s.ReplaceProducts(ctx, testProducts()))

	products, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, 19.99, products[0].Price)

	// Повторная замена полностью перезаписывает кэш
	require.NoError(t, s.ReplaceProducts(ctx, testProducts()[:1]))
	products, err = s.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestStorage_ListProducts_Search(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	require.NoError(t, s.ReplaceProducts(ctx, testProducts()))

	tests := []struct {
		name   string
		search string
		want   []int64
	}{
		{name: "title case insensitive", search: "ICON", want: []int64{1}},
		{name: "description match", search: "music", want: []int64{2}},
		{name: "matches several", search: "o", want: []int64{3, 1, 2}},
		{name: "percent is literal", search: "100%", want: []int64{1}},
		{name: "underscore is literal", search: "_", want: []int64{}},
		{name: "no match", search: "nothing here", want: []int64{}},
		{name: "blank returns all", search: "   ", want: []int64{3, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := s.ListProducts(ctx, tt.search)
			require.NoError(t, err)

			ids := make([]int64, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStorage_GetUpsertDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	require.NoError(t, s.ReplaceProducts(ctx, testProducts()))

	_, err := s.GetProduct(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)

	// Обновление существующего сохраняет позицию
	updated := testProducts()[1]
	updated.Title = "Icon Pack v2"
	require.NoError(t, s.UpsertProduct(ctx, &updated))

	// Новый товар добавляется в конец
	require.NoError(t, s.UpsertProduct(ctx, &api.Product{ID: 42, Title: "New", Description: "brand new item"}))

	products, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, "Icon Pack v2", products[1].Title)
	assert.Equal(t, int64(42), products[3].ID)

	require.NoError(t, s.DeleteProduct(ctx, 1))
	_, err = s.GetProduct(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)

	// Удаление отсутствующего - не ошибка
	assert.NoError(t, s.DeleteProduct(ctx, 1))

	assert.Error(t, s.UpsertProduct(ctx, nil))
}

func TestStorage_SetProductActive(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	require.NoError(t, s.ReplaceProducts(ctx, testProducts()))

	require.NoError(t, s.SetProductActive(ctx, 1, true))

	p, err := s.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	var column bool
	require.NoError(t, s.db.QueryRow(`SELECT is_active FROM products WHERE id = 1`).Scan(&column))
	assert.True(t, column)

	err = s.SetProductActive(ctx, 999, true)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
}
