package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/digimarket/internal/client/storage"
	"github.com/iudanet/digimarket/pkg/api"
)

// Compile-time check
var _ storage.ProductCache = (*Storage)(nil)

// ReplaceProducts заменяет кэш списком products, сохраняя порядок сервера
func (s *Storage) ReplaceProducts(ctx context.Context, products []api.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	now := time.Now().Unix()
	for i := range products {
		if err := insertProduct(ctx, tx, &products[i], int64(i), now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListProducts возвращает товары в порядке сервера с фильтром по подстроке
func (s *Storage) ListProducts(ctx context.Context, search string) ([]api.Product, error) {
	query := `SELECT payload FROM products`
	var args []any

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query += ` WHERE lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY position, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	products := make([]api.Product, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		var p api.Product
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// GetProduct возвращает товар из кэша
func (s *Storage) GetProduct(ctx context.Context, id int64) (*api.Product, error) {
	return getProduct(ctx, s.db, id)
}

// UpsertProduct добавляет товар в конец списка или обновляет существующий на месте
func (s *Storage) UpsertProduct(ctx context.Context, product *api.Product) error {
	if product == nil {
		return fmt.Errorf("product is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var position int64
	err = tx.QueryRowContext(ctx, `SELECT position FROM products WHERE id = ?`, product.ID).Scan(&position)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM products`).Scan(&position); err != nil {
			return fmt.Errorf("failed to compute position: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to query product: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, product.ID); err != nil {
			return fmt.Errorf("failed to replace product: %w", err)
		}
	}

	if err := insertProduct(ctx, tx, product, position, time.Now().Unix()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteProduct удаляет товар из кэша; отсутствие товара не ошибка
func (s *Storage) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// SetProductActive меняет флаг is_active в колонке и в сохраненном JSON
func (s *Storage) SetProductActive(ctx context.Context, id int64, active bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	product, err := getProduct(ctx, tx, id)
	if err != nil {
		return err
	}
	product.IsActive = active

	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET is_active = ?, payload = ? WHERE id = ?`,
		active, payload, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getProduct(ctx context.Context, q queryRower, id int64) (*api.Product, error) {
	var payload []byte
	err := q.QueryRowContext(ctx, `SELECT payload FROM products WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var p api.Product
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	return &p, nil
}

func insertProduct(ctx context.Context, e execer, p *api.Product, position, cachedAt int64) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = e.ExecContext(ctx,
		`INSERT INTO products (id, position, title, description, status, is_active, payload, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, position, p.Title, p.Description, string(p.Status), p.IsActive, payload, cachedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product %d: %w", p.ID, err)
	}
	return nil
}

// escapeLike экранирует спецсимволы LIKE
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
