package domain

import (
	"testing"
	"time"
)

func TestCanTransition_AllowedPairs(t *testing.T) {
	allowed := [][2]OrderStatus{
		{OrderStatusPending, OrderStatusCompleted},
		{OrderStatusPending, OrderStatusCancelled},
	}
	for _, pair := range allowed {
		if err := CanTransition(pair[0], pair[1]); err != nil {
			t.Fatalf("transition %s -> %s should be allowed, got %v", pair[0], pair[1], err)
		}
	}
}

func TestCanTransition_DeniedPairs(t *testing.T) {
	denied := [][2]OrderStatus{
		{OrderStatusCompleted, OrderStatusPending},
		{OrderStatusCompleted, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusCompleted},
		{OrderStatusPending, OrderStatusPending},
		{OrderStatusCompleted, OrderStatusCompleted},
		{OrderStatusCancelled, OrderStatusCancelled},
	}
	for _, pair := range denied {
		err := CanTransition(pair[0], pair[1])
		if err == nil {
			t.Fatalf("transition %s -> %s should be denied", pair[0], pair[1])
		}
		if !IsValidation(err) {
			t.Fatalf("denied transition should yield ValidationError, got %T", err)
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled} {
		if !status.Valid() {
			t.Fatalf("status %s should be valid", status)
		}
	}
	if OrderStatus("shipped").Valid() {
		t.Fatal("unknown status should not be valid")
	}
}

func TestOrder_ValidateInvariants(t *testing.T) {
	now := time.Now().UTC()
	items := []OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: now},
		{ID: "item-2", OrderID: "order-1", ProductID: "product-2", Qty: 1, PriceMinor: 500, CreatedAt: now},
	}
	order := Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		Status:     OrderStatusPending,
		TotalMinor: 6500,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if errs := order.ValidateInvariants(items); len(errs) != 0 {
		t.Fatalf("expected no invariant violations, got %v", errs)
	}
}

func TestOrder_ValidateInvariants_TotalMismatch(t *testing.T) {
	now := time.Now().UTC()
	order := Order{ID: "order-1", CustomerID: "customer-1", Status: OrderStatusPending, TotalMinor: 100}
	items := []OrderItem{{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 2, PriceMinor: 100, CreatedAt: now}}

	errs := order.ValidateInvariants(items)
	found := false
	for _, err := range errs {
		if err == ErrTotalMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrTotalMismatch, got %v", errs)
	}
}

func TestOrder_ValidateInvariants_EmptyItems(t *testing.T) {
	order := Order{ID: "order-1", CustomerID: "customer-1", Status: OrderStatusPending}
	errs := order.ValidateInvariants(nil)
	found := false
	for _, err := range errs {
		if err == ErrItemsRequired {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrItemsRequired, got %v", errs)
	}
}

func TestItemsTotal(t *testing.T) {
	items := []OrderItem{
		{Qty: 3, PriceMinor: 2000},
		{Qty: 2, PriceMinor: 150},
	}
	if got := ItemsTotal(items); got != 6300 {
		t.Fatalf("expected total 6300, got %d", got)
	}
}
