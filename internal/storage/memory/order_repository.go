package memory

import (
	"context"
	"sort"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// orderRepository — in-memory реализация OrderRepository поверх Store.
//
// Транзакционные методы держат один мьютекс хранилища на всё время операции,
// поэтому наблюдать частичные эффекты снаружи невозможно.
type orderRepository struct {
	store *Store
}

func (r *orderRepository) CreateWithItems(_ context.Context, order domain.Order, items []domain.OrderItem, event domain.OutboxMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Условные декременты идут первыми: при отказе любого из них
	// возвращаем уже применённые и выходим без следов заказа.
	applied := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if r.store.decrementStockLocked(item.ProductID, item.Qty) == 0 {
			for _, undo := range applied {
				r.store.incrementStockLocked(undo.ProductID, undo.Qty)
			}
			return domain.NewStockError("stock update failed due to concurrency")
		}
		applied = append(applied, item)
	}

	r.store.orders[order.ID] = order
	stored := make([]domain.OrderItem, len(items))
	copy(stored, items)
	r.store.items[order.ID] = stored
	r.store.appendOutbox(event)
	return nil
}

func (r *orderRepository) CancelWithRestock(_ context.Context, order domain.Order, items []domain.OrderItem, event domain.OutboxMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.orders[order.ID]
	if !ok {
		return domain.NewNotFoundError("order")
	}
	// Статус перепроверяется под мьютексом: проверка в сервисе идёт вне
	// блокировки, и конкурентная отмена могла успеть первой. Без этого
	// сток вернулся бы дважды.
	if current.Status != domain.OrderStatusPending {
		return domain.NewValidationError("only pending orders can be cancelled")
	}

	for _, item := range items {
		r.store.incrementStockLocked(item.ProductID, item.Qty)
	}

	current.Status = domain.OrderStatusCancelled
	current.UpdatedAt = time.Now().UTC()
	r.store.orders[order.ID] = current
	r.store.appendOutbox(event)
	return nil
}

func (r *orderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, event domain.OutboxMessage) (domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.Order{}, domain.NewNotFoundError("order")
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.store.orders[id] = order
	if event.ID != "" {
		r.store.appendOutbox(event)
	}
	return order, nil
}

func (r *orderRepository) FindByID(_ context.Context, id string) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.Order{}, domain.NewNotFoundError("order")
	}
	return order, nil
}

func (r *orderRepository) ListItems(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	items := r.store.items[orderID]
	result := make([]domain.OrderItem, len(items))
	copy(result, items)
	return result, nil
}

func (r *orderRepository) Count(_ context.Context, filter domain.OrderFilter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, order := range r.store.orders {
		if matchesFilter(order, filter) {
			count++
		}
	}
	return count, nil
}

func (r *orderRepository) FindJoined(_ context.Context, filter domain.OrderFilter, skip, limit int) ([]domain.OrderView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]domain.Order, 0)
	for _, order := range r.store.orders {
		if matchesFilter(order, filter) {
			matched = append(matched, order)
		}
	}

	// Контракт выдачи: свежие заказы первыми, для стабильности — ID как tie-break.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return []domain.OrderView{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	views := make([]domain.OrderView, 0, len(matched))
	for _, order := range matched {
		views = append(views, r.buildViewLocked(order))
	}
	return views, nil
}

func (r *orderRepository) FindJoinedByID(_ context.Context, id string) (domain.OrderView, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[id]
	if !ok {
		return domain.OrderView{}, domain.NewNotFoundError("order")
	}
	return r.buildViewLocked(order), nil
}

// buildViewLocked собирает денормализованное представление. Вызывать под s.mu.
func (r *orderRepository) buildViewLocked(order domain.Order) domain.OrderView {
	view := domain.OrderView{Order: order}

	if customer, ok := r.store.customers[order.CustomerID]; ok {
		c := customer
		view.Customer = &c
	}

	items := r.store.items[order.ID]
	view.Items = make([]domain.OrderItemView, 0, len(items))
	for _, item := range items {
		itemView := domain.OrderItemView{Item: item}
		if product, ok := r.store.products[item.ProductID]; ok {
			p := product
			itemView.Product = &p
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}

func matchesFilter(order domain.Order, filter domain.OrderFilter) bool {
	if filter.Status != "" && order.Status != filter.Status {
		return false
	}
	if filter.CustomerID != "" && order.CustomerID != filter.CustomerID {
		return false
	}
	return true
}

var _ domain.OrderRepository = (*orderRepository)(nil)
