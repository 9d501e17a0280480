package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// productRepository — in-memory реализация ProductRepository поверх Store.
type productRepository struct {
	store *Store
}

func (r *productRepository) Create(_ context.Context, product domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.products[product.ID] = product
	return nil
}

func (r *productRepository) FindByID(_ context.Context, id string) (domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	product, ok := r.store.products[id]
	if !ok || product.IsDeleted {
		return domain.Product{}, domain.NewNotFoundError("product")
	}
	return product, nil
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		if product.IsDeleted {
			continue
		}
		result = append(result, product)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *productRepository) Update(_ context.Context, product domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.products[product.ID]
	if !ok || current.IsDeleted {
		return domain.NewNotFoundError("product")
	}
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.store.products[product.ID] = product
	return nil
}

func (r *productRepository) SoftDelete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.products[id]
	if !ok || product.IsDeleted {
		return domain.NewNotFoundError("product")
	}
	product.IsDeleted = true
	product.UpdatedAt = time.Now().UTC()
	r.store.products[id] = product
	return nil
}

// DecrementStock выполняет условный декремент "stock >= qty" атомарно
// под мьютексом хранилища. Нулевой результат означает невыполненный предикат.
func (r *productRepository) DecrementStock(_ context.Context, id string, qty int32) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.decrementStockLocked(id, qty), nil
}

// IncrementStock увеличивает сток на qty.
func (r *productRepository) IncrementStock(_ context.Context, id string, qty int32) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.incrementStockLocked(id, qty), nil
}

// decrementStockLocked применяет условный декремент. Вызывать только под s.mu.
func (s *Store) decrementStockLocked(id string, qty int32) int64 {
	product, ok := s.products[id]
	if !ok || product.IsDeleted || product.Stock < qty {
		return 0
	}
	product.Stock -= qty
	product.UpdatedAt = time.Now().UTC()
	s.products[id] = product
	return 1
}

// incrementStockLocked применяет инкремент. Вызывать только под s.mu.
func (s *Store) incrementStockLocked(id string, qty int32) int64 {
	product, ok := s.products[id]
	if !ok {
		return 0
	}
	product.Stock += qty
	product.UpdatedAt = time.Now().UTC()
	s.products[id] = product
	return 1
}

var _ domain.ProductRepository = (*productRepository)(nil)
