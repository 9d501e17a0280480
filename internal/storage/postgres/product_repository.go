package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price_minor, stock, is_deleted, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		product.ID, product.Name, product.PriceMinor, product.Stock,
		product.IsDeleted, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var product domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, price_minor, stock, is_deleted, created_at, updated_at
		FROM products
		WHERE id = $1 AND NOT is_deleted
	`, id).Scan(
		&product.ID, &product.Name, &product.PriceMinor, &product.Stock,
		&product.IsDeleted, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.NewNotFoundError("product")
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, price_minor, stock, is_deleted, created_at, updated_at
		FROM products
		WHERE NOT is_deleted
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.PriceMinor, &product.Stock,
			&product.IsDeleted, &product.CreatedAt, &product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		result = append(result, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return result, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, price_minor = $2, stock = $3, updated_at = NOW()
		WHERE id = $4 AND NOT is_deleted
	`, product.Name, product.PriceMinor, product.Stock, product.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res, "product")
}

func (r *productRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	return requireAffected(res, "product")
}

// DecrementStock — атомарный условный декремент: применяется только если
// текущего стока хватает. Нулевой affected означает, что предикат не прошёл.
func (r *productRepository) DecrementStock(ctx context.Context, id string, qty int32) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted AND stock >= $2
	`, id, qty)
	if err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// IncrementStock атомарно увеличивает сток на qty.
func (r *productRepository) IncrementStock(ctx context.Context, id string, qty int32) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1
	`, id, qty)
	if err != nil {
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
