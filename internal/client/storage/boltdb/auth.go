package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/digimarket/internal/client/storage"
)

// GetToken returns the stored bearer token
func (s *Storage) GetToken(ctx context.Context) (string, error) {
	data, err := s.get(storage.TokenKey)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", storage.ErrTokenNotFound
	}
	return string(data), nil
}

// SaveToken stores the bearer token under the fixed key
func (s *Storage) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	return s.put(storage.TokenKey, []byte(token))
}

// DeleteToken removes the bearer token. Отсутствие токена не является ошибкой.
func (s *Storage) DeleteToken(ctx context.Context) error {
	return s.remove(storage.TokenKey)
}

// DeleteTokenIf удаляет токен, только если он совпадает с переданным.
// Write-транзакции BoltDB сериализованы, поэтому из нескольких конкурентных
// вызовов с одним и тем же токеном удаление выполнит ровно один.
func (s *Storage) DeleteTokenIf(ctx context.Context, token string) (bool, error) {
	deleted := false
	err := s.update(func(bucket *bbolt.Bucket) error {
		current := bucket.Get([]byte(storage.TokenKey))
		if current == nil || string(current) != token {
			return nil
		}

		if err := bucket.Delete([]byte(storage.TokenKey)); err != nil {
			return fmt.Errorf("failed to delete token: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// LoadState returns the persisted auth store snapshot
func (s *Storage) LoadState(ctx context.Context) ([]byte, error) {
	data, err := s.get(storage.StateKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, storage.ErrStateNotFound
	}
	return data, nil
}

// SaveState stores the auth store snapshot as-is
func (s *Storage) SaveState(ctx context.Context, data []byte) error {
	return s.put(storage.StateKey, data)
}

// DeleteState removes the auth store snapshot
func (s *Storage) DeleteState(ctx context.Context) error {
	return s.remove(storage.StateKey)
}
