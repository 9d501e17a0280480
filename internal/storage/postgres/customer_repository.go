package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(ctx context.Context, customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, is_deleted, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		customer.ID, customer.Name, customer.Email, customer.Phone,
		customer.IsDeleted, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("customer email already exists")
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, is_deleted, created_at, updated_at
		FROM customers
		WHERE id = $1 AND NOT is_deleted
	`, id))
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, is_deleted, created_at, updated_at
		FROM customers
		WHERE LOWER(email) = LOWER($1) AND NOT is_deleted
	`, email))
}

func (r *customerRepository) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, is_deleted, created_at, updated_at
		FROM customers
		WHERE NOT is_deleted
		  AND (name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		ORDER BY name, id
	`, query)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Customer, 0)
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
			&customer.IsDeleted, &customer.CreatedAt, &customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		result = append(result, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return result, nil
}

func (r *customerRepository) Update(ctx context.Context, customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, updated_at = NOW()
		WHERE id = $4 AND NOT is_deleted
	`, customer.Name, customer.Email, customer.Phone, customer.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewValidationError("customer email already exists")
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return requireAffected(res, "customer")
}

func (r *customerRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND NOT is_deleted
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete customer: %w", err)
	}
	return requireAffected(res, "customer")
}

func (r *customerRepository) scanOne(row *sql.Row) (domain.Customer, error) {
	var customer domain.Customer
	err := row.Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
		&customer.IsDeleted, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.NewNotFoundError("customer")
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return customer, nil
}

// requireAffected переводит "запись не затронута" в NotFoundError сущности.
func requireAffected(res sql.Result, entity string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.NewNotFoundError(entity)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
