package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/memory"
)

func seedCustomer(t *testing.T, store *memory.Store, id, name, email string) {
	t.Helper()

	now := time.Now().UTC()
	err := store.CustomerRepository().Create(context.Background(), domain.Customer{
		ID: id, Name: name, Email: email, Phone: "9876543210", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed customer failed: %v", err)
	}
}

func TestCustomerRepository_FindByID(t *testing.T) {
	store := memory.NewStore()
	seedCustomer(t, store, "customer-1", "Alice", "alice@example.com")
	repo := store.CustomerRepository()

	customer, err := repo.FindByID(context.Background(), "customer-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if customer.Email != "alice@example.com" {
		t.Fatalf("unexpected email: %s", customer.Email)
	}

	if _, err := repo.FindByID(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestCustomerRepository_FindByEmail_CaseInsensitive(t *testing.T) {
	store := memory.NewStore()
	seedCustomer(t, store, "customer-1", "Alice", "alice@example.com")
	repo := store.CustomerRepository()

	customer, err := repo.FindByEmail(context.Background(), "ALICE@example.com")
	if err != nil {
		t.Fatalf("find by email failed: %v", err)
	}
	if customer.ID != "customer-1" {
		t.Fatalf("unexpected customer: %s", customer.ID)
	}
}

func TestCustomerRepository_Search(t *testing.T) {
	store := memory.NewStore()
	seedCustomer(t, store, "customer-1", "Alice", "alice@example.com")
	seedCustomer(t, store, "customer-2", "Bob", "bob@example.com")
	repo := store.CustomerRepository()

	found, err := repo.Search(context.Background(), "ali")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != "customer-1" {
		t.Fatalf("unexpected search result: %+v", found)
	}

	all, err := repo.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("empty query should return everyone, got %d", len(all))
	}
}

func TestCustomerRepository_SoftDelete(t *testing.T) {
	store := memory.NewStore()
	seedCustomer(t, store, "customer-1", "Alice", "alice@example.com")
	repo := store.CustomerRepository()

	if err := repo.SoftDelete(context.Background(), "customer-1"); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), "customer-1"); !domain.IsNotFound(err) {
		t.Fatalf("deleted customer should not resolve, got %v", err)
	}
	if err := repo.SoftDelete(context.Background(), "customer-1"); !domain.IsNotFound(err) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}
