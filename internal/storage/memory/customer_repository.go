package memory

import (
	"context"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// customerRepository — in-memory реализация CustomerRepository поверх Store.
type customerRepository struct {
	store *Store
}

func (r *customerRepository) Create(_ context.Context, customer domain.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Сохраняем копию значения: мутации снаружи хранилище не затрагивают.
	r.store.customers[customer.ID] = customer
	return nil
}

func (r *customerRepository) FindByID(_ context.Context, id string) (domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	customer, ok := r.store.customers[id]
	if !ok || customer.IsDeleted {
		return domain.Customer{}, domain.NewNotFoundError("customer")
	}
	return customer, nil
}

func (r *customerRepository) FindByEmail(_ context.Context, email string) (domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, customer := range r.store.customers {
		if !customer.IsDeleted && strings.EqualFold(customer.Email, email) {
			return customer, nil
		}
	}
	return domain.Customer{}, domain.NewNotFoundError("customer")
}

func (r *customerRepository) Search(_ context.Context, query string) ([]domain.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	needle := strings.ToLower(query)
	result := make([]domain.Customer, 0)
	for _, customer := range r.store.customers {
		if customer.IsDeleted {
			continue
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(customer.Name), needle) ||
			strings.Contains(strings.ToLower(customer.Email), needle) {
			result = append(result, customer)
		}
	}
	return result, nil
}

func (r *customerRepository) Update(_ context.Context, customer domain.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.customers[customer.ID]
	if !ok || current.IsDeleted {
		return domain.NewNotFoundError("customer")
	}
	customer.CreatedAt = current.CreatedAt
	customer.UpdatedAt = time.Now().UTC()
	r.store.customers[customer.ID] = customer
	return nil
}

func (r *customerRepository) SoftDelete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	customer, ok := r.store.customers[id]
	if !ok || customer.IsDeleted {
		return domain.NewNotFoundError("customer")
	}
	customer.IsDeleted = true
	customer.UpdatedAt = time.Now().UTC()
	r.store.customers[id] = customer
	return nil
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
