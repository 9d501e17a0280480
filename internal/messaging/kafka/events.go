package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderCancelled     EventType = "order.cancelled"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
)

// Topics для публикации.
const (
	TopicOrderEvents = "fulfillment.order.events"
)

// Aggregate-типы для outbox.
const (
	AggregateOrder = "order"
)

// OrderEvent — полезная нагрузка события жизненного цикла заказа.
type OrderEvent struct {
	EventType  EventType `json:"event_type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status"`
	TotalMinor int64     `json:"total_minor"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewOrderEvent создаёт событие заказа с текущим временем.
func NewOrderEvent(eventType EventType, orderID, customerID, status string, totalMinor int64) OrderEvent {
	return OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		TotalMinor: totalMinor,
		Timestamp:  time.Now().UTC(),
	}
}
