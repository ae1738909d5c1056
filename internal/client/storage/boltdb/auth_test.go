package boltdb

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/digimarket/internal/client/storage"
)

// создаём тестовое BoltDB хранилище
func createTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "auth_test.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		require.NoError(t, store.Close())
	}

	return store, cleanup
}

func TestStorage_SaveGetDeleteToken(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// До сохранения токена нет
	_, err := store.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	require.NoError(t, store.SaveToken(ctx, "tok123"))

	token, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)

	// Перезапись
	require.NoError(t, store.SaveToken(ctx, "tok456"))
	token, err = store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok456", token)

	require.NoError(t, store.DeleteToken(ctx))
	_, err = store.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	// Повторное удаление - не ошибка
	assert.NoError(t, store.DeleteToken(ctx))
}

func TestStorage_SaveToken_Empty(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	assert.Error(t, store.SaveToken(ctx, ""))
}

func TestStorage_DeleteTokenIf(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Нет токена - ничего не удаляем
	deleted, err := store.DeleteTokenIf(ctx, "tok123")
	require.NoError(t, err)
	assert.False(t, deleted)

	require.NoError(t, store.SaveToken(ctx, "fresh"))

	// Устаревший токен не должен удалить новый
	deleted, err = store.DeleteTokenIf(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, deleted)

	token, err := store.GetToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	deleted, err = store.DeleteTokenIf(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestStorage_DeleteTokenIf_Concurrent(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	require.NoError(t, store.SaveToken(ctx, "tok123"))

	var (
		wg      sync.WaitGroup
		deletes atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deleted, err := store.DeleteTokenIf(ctx, "tok123")
			assert.NoError(t, err)
			if deleted {
				deletes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), deletes.Load())
}

func TestStorage_State(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.LoadState(ctx)
	assert.ErrorIs(t, err, storage.ErrStateNotFound)

	blob := []byte(`{"state":{"user":null,"token":null,"isAuthenticated":false},"version":0}`)
	require.NoError(t, store.SaveState(ctx, blob))

	got, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	// Токен и снимок хранятся под разными ключами
	_, err = store.GetToken(ctx)
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	require.NoError(t, store.DeleteState(ctx))
	_, err = store.LoadState(ctx)
	assert.ErrorIs(t, err, storage.ErrStateNotFound)
}

func TestStorage_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Для теста удалим bucket напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketLocal)
	})
	require.NoError(t, err)

	err = store.SaveToken(ctx, "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local storage bucket not found")

	_, err = store.DeleteTokenIf(ctx, "tok")
	assert.Error(t, err)
}
