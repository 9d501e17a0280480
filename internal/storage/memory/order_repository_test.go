package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/memory"
)

func seedProduct(t *testing.T, store *memory.Store, id string, stock int32, price int64) {
	t.Helper()

	now := time.Now().UTC()
	err := store.ProductRepository().Create(context.Background(), domain.Product{
		ID: id, Name: "product-" + id, PriceMinor: price, Stock: stock, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
}

func newOrder(id, customerID string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:         id,
		CustomerID: customerID,
		Status:     domain.OrderStatusPending,
		TotalMinor: 6000,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestOrderRepository_CreateWithItems(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 5, 2000)
	repo := store.OrderRepository()

	now := time.Now().UTC()
	order := newOrder("order-1", "customer-1", now)
	items := []domain.OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: now},
	}

	if err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.FindByID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", stored.Status)
	}

	product, err := store.ProductRepository().FindByID(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("product lookup failed: %v", err)
	}
	if product.Stock != 2 {
		t.Fatalf("expected stock 2 after decrement, got %d", product.Stock)
	}
}

func TestOrderRepository_CreateWithItems_RollsBackOnConflict(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 5, 2000)
	seedProduct(t, store, "product-2", 1, 500)
	repo := store.OrderRepository()

	now := time.Now().UTC()
	order := newOrder("order-1", "customer-1", now)
	items := []domain.OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: now},
		{ID: "item-2", OrderID: "order-1", ProductID: "product-2", Qty: 2, PriceMinor: 500, CreatedAt: now},
	}

	err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-1"})
	if !domain.IsStockConflict(err) {
		t.Fatalf("expected StockError, got %v", err)
	}

	// Декремент первой позиции должен быть возвращён.
	product, err := store.ProductRepository().FindByID(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("product lookup failed: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("expected stock 5 after rollback, got %d", product.Stock)
	}

	if _, err := repo.FindByID(context.Background(), "order-1"); !domain.IsNotFound(err) {
		t.Fatalf("order should not exist after rollback, got %v", err)
	}

	pending, err := store.OutboxRepository().PullPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("outbox pull failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("no outbox events expected after rollback, got %d", len(pending))
	}
}

func TestOrderRepository_CancelWithRestock(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 5, 2000)
	repo := store.OrderRepository()

	now := time.Now().UTC()
	order := newOrder("order-1", "customer-1", now)
	items := []domain.OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: now},
	}
	if err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.CancelWithRestock(context.Background(), order, items, domain.OutboxMessage{ID: "evt-2"}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	stored, err := repo.FindByID(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", stored.Status)
	}

	product, err := store.ProductRepository().FindByID(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("product lookup failed: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", product.Stock)
	}
}

func TestOrderRepository_CancelWithRestock_NonPendingRejected(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 5, 2000)
	repo := store.OrderRepository()

	now := time.Now().UTC()
	order := newOrder("order-1", "customer-1", now)
	items := []domain.OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: now},
	}
	if err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.CancelWithRestock(context.Background(), order, items, domain.OutboxMessage{ID: "evt-2"}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// Статус проверяется внутри метода под мьютексом: повторная отмена
	// отклоняется даже когда вызывающая сторона статус не перечитала.
	err := repo.CancelWithRestock(context.Background(), order, items, domain.OutboxMessage{ID: "evt-3"})
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	product, err := store.ProductRepository().FindByID(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("product lookup failed: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("stock must not be restored twice: expected 5, got %d", product.Stock)
	}
}

func TestOrderRepository_CancelWithRestock_ConcurrentSingleWinner(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 5, 2000)
	repo := store.OrderRepository()

	now := time.Now().UTC()
	order := newOrder("order-1", "customer-1", now)
	items := []domain.OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: now},
	}
	if err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results <- repo.CancelWithRestock(context.Background(), order, items,
				domain.OutboxMessage{ID: fmt.Sprintf("evt-cancel-%d", n)})
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case domain.IsValidation(err):
			rejected++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("expected exactly one winner, got succeeded=%d rejected=%d", succeeded, rejected)
	}

	product, err := store.ProductRepository().FindByID(context.Background(), "product-1")
	if err != nil {
		t.Fatalf("product lookup failed: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("stock must be restored exactly once: expected 5, got %d", product.Stock)
	}
}

func TestOrderRepository_FindJoined_OrderingAndPagination(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 100, 2000)
	repo := store.OrderRepository()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		order := newOrder("order-"+id, "customer-1", base.Add(time.Duration(i)*time.Minute))
		items := []domain.OrderItem{
			{ID: "item-" + id, OrderID: order.ID, ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: order.CreatedAt},
		}
		if err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-" + id}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	views, err := repo.FindJoined(context.Background(), domain.OrderFilter{}, 0, 2)
	if err != nil {
		t.Fatalf("find joined failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	// Самый свежий заказ первым.
	if views[0].Order.ID != "order-c" || views[1].Order.ID != "order-b" {
		t.Fatalf("unexpected ordering: %s, %s", views[0].Order.ID, views[1].Order.ID)
	}

	rest, err := repo.FindJoined(context.Background(), domain.OrderFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("find joined failed: %v", err)
	}
	if len(rest) != 1 || rest[0].Order.ID != "order-a" {
		t.Fatalf("unexpected second page: %+v", rest)
	}

	total, err := repo.Count(context.Background(), domain.OrderFilter{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
}

func TestOrderRepository_FindJoined_FilterByStatus(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 100, 2000)
	repo := store.OrderRepository()

	now := time.Now().UTC()
	for _, id := range []string{"order-1", "order-2"} {
		order := newOrder(id, "customer-1", now)
		items := []domain.OrderItem{
			{ID: "item-" + id, OrderID: id, ProductID: "product-1", Qty: 3, PriceMinor: 2000, CreatedAt: now},
		}
		if err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-" + id}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if _, err := repo.UpdateStatus(context.Background(), "order-2", domain.OrderStatusCompleted, domain.OutboxMessage{}); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	views, err := repo.FindJoined(context.Background(), domain.OrderFilter{Status: domain.OrderStatusCompleted}, 0, 10)
	if err != nil {
		t.Fatalf("find joined failed: %v", err)
	}
	if len(views) != 1 || views[0].Order.ID != "order-2" {
		t.Fatalf("unexpected filtered result: %+v", views)
	}
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	store := memory.NewStore()
	repo := store.OrderRepository()

	_, err := repo.UpdateStatus(context.Background(), "missing", domain.OrderStatusCompleted, domain.OutboxMessage{})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestOrderRepository_UpdateStatus_EnqueuesEvent(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "product-1", 5, 2000)
	repo := store.OrderRepository()

	now := time.Now().UTC()
	order := newOrder("order-1", "customer-1", now)
	items := []domain.OrderItem{
		{ID: "item-1", OrderID: "order-1", ProductID: "product-1", Qty: 1, PriceMinor: 2000, CreatedAt: now},
	}
	if err := repo.CreateWithItems(context.Background(), order, items, domain.OutboxMessage{ID: "evt-1", EventType: "order.created"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	event := domain.OutboxMessage{ID: "evt-2", AggregateID: "order-1", EventType: "order.status_changed"}
	if _, err := repo.UpdateStatus(context.Background(), "order-1", domain.OrderStatusCompleted, event); err != nil {
		t.Fatalf("update status failed: %v", err)
	}

	pending, err := store.OutboxRepository().PullPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("outbox pull failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 outbox events, got %d", len(pending))
	}
	if pending[1].EventType != "order.status_changed" {
		t.Fatalf("expected order.status_changed event, got %s", pending[1].EventType)
	}
}
