package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/memory"
)

func TestProductRepository_DecrementStock_Conditional(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 2, 1000)
	repo := store.ProductRepository()

	affected, err := repo.DecrementStock(context.Background(), "product-1", 3)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("predicate stock >= 3 should fail, affected=%d", affected)
	}

	affected, err = repo.DecrementStock(context.Background(), "product-1", 2)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected affected 1, got %d", affected)
	}

	product, err := repo.FindByID(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if product.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", product.Stock)
	}
}

func TestProductRepository_DecrementStock_ConcurrentWriters(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 10, 1000)
	repo := store.ProductRepository()

	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := int64(0)

	// 20 конкурентных декрементов по 1 при стоке 10: применится ровно 10.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			affected, err := repo.DecrementStock(context.Background(), "product-1", 1)
			if err != nil {
				t.Errorf("decrement failed: %v", err)
				return
			}
			mu.Lock()
			applied += affected
			mu.Unlock()
		}()
	}
	wg.Wait()

	if applied != 10 {
		t.Fatalf("expected exactly 10 applied decrements, got %d", applied)
	}
	product, err := repo.FindByID(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if product.Stock != 0 {
		t.Fatalf("stock should be exactly 0, got %d", product.Stock)
	}
}

func TestProductRepository_SoftDelete(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 2, 1000)
	repo := store.ProductRepository()

	if err := repo.SoftDelete(context.Background(), "product-1"); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), "product-1"); !domain.IsNotFound(err) {
		t.Fatalf("deleted product should not resolve, got %v", err)
	}

	// Удалённый товар не участвует в условных декрементах.
	affected, err := repo.DecrementStock(context.Background(), "product-1", 1)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("decrement on deleted product should affect 0 rows, got %d", affected)
	}
}
