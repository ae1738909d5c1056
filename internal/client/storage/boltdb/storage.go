package boltdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/digimarket/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketLocal = []byte("local_storage")
)

// Storage represents BoltDB durable key/value storage of the client.
// Это аналог localStorage браузера: один файл на установку клиента.
// db защищен mu: операции держат RLock на время транзакции, Close берет Lock.
type Storage struct {
	db *bbolt.DB
	mu sync.RWMutex
}

// Compile-time checks
var (
	_ storage.TokenStorage = (*Storage)(nil)
	_ storage.StateStorage = (*Storage)(nil)
)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB; таймаут защищает от второго процесса, держащего lock
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
// Дожидается завершения операций, начатых до вызова.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketLocal); err != nil {
			return fmt.Errorf("failed to create local storage bucket: %w", err)
		}
		return nil
	})
}

// view выполняет read-транзакцию над bucket'ом local storage
func (s *Storage) view(fn func(bucket *bbolt.Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLocal)
		if bucket == nil {
			return fmt.Errorf("local storage bucket not found")
		}
		return fn(bucket)
	})
}

// update выполняет write-транзакцию над bucket'ом local storage
func (s *Storage) update(fn func(bucket *bbolt.Bucket) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLocal)
		if bucket == nil {
			return fmt.Errorf("local storage bucket not found")
		}
		return fn(bucket)
	})
}

func (s *Storage) get(key string) ([]byte, error) {
	var value []byte
	err := s.view(func(bucket *bbolt.Bucket) error {
		// Значение валидно только внутри транзакции, копируем
		if data := bucket.Get([]byte(key)); data != nil {
			value = make([]byte, len(data))
			copy(value, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Storage) put(key string, value []byte) error {
	return s.update(func(bucket *bbolt.Bucket) error {
		if err := bucket.Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		return nil
	})
}

func (s *Storage) remove(key string) error {
	return s.update(func(bucket *bbolt.Bucket) error {
		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
		return nil
	})
}
