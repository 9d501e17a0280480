package domain

import "time"

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, сток зарезервирован, исполнение ещё не завершено.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCompleted — заказ исполнен; терминальный статус.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled — заказ отменён, сток возвращён на склад; терминальный статус.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid сообщает, известен ли статус системе.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// allowedTransitions задаёт граф переходов статуса.
// Терминальные статусы не имеют исходящих рёбер; self-переходы запрещены.
var allowedTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending: {
		OrderStatusCompleted: true,
		OrderStatusCancelled: true,
	},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransition проверяет допустимость перехода статуса.
// Чистая функция без состояния: используется и явным обновлением статуса,
// и отменой заказа. Возвращает nil либо ValidationError с причиной отказа.
func CanTransition(from, to OrderStatus) error {
	if allowedTransitions[from][to] {
		return nil
	}
	return NewValidationError("cannot change status from %s to %s", from, to)
}

// OrderItem — одна позиция заказа. Цена фиксируется в момент создания
// заказа и не зависит от последующих изменений каталога.
type OrderItem struct {
	ID         string
	OrderID    string
	ProductID  string
	Qty        int32
	PriceMinor int64
	CreatedAt  time.Time
}

// Order — заголовок заказа. После создания ядро мутирует только Status.
type Order struct {
	ID         string
	CustomerID string
	Status     OrderStatus
	TotalMinor int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ItemsTotal считает сумму заказа по позициям: qty * price.
func ItemsTotal(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Qty) * item.PriceMinor
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и его позиций.
func (o *Order) ValidateInvariants(items []OrderItem) []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusUnknown)
	}

	for _, item := range items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}
	if ItemsTotal(items) != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
