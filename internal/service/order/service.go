package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/fulfillment/internal/metrics"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ItemRequest — запрошенная позиция при создании заказа.
type ItemRequest struct {
	ProductID string
	Qty       int32
}

// Pagination описывает окно выдачи и суммарные показатели.
type Pagination struct {
	Total int
	Page  int
	Pages int
}

// ListResult — страница денормализованных заказов с пагинацией.
type ListResult struct {
	Orders     []domain.OrderView
	Pagination Pagination
}

// Service — оркестратор транзакций заказов: валидация запроса, подсчёт
// суммы, атомарное создание с резервированием стока, отмена с возвратом
// стока и сборка read-model для выдачи.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
}

// NewService создаёт рабочий экземпляр оркестратора.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		logger:    logger,
		metrics:   metrics.NewOrderMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт оркестратор без метрик (для тестов).
func NewServiceWithoutMetrics(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	logger *log.Entry,
) *Service {
	svc := NewService(customers, products, orders, logger)
	svc.metrics = nil
	return svc
}

// CreateOrder валидирует запрос, снимает snapshot цен, считает сумму и
// выполняет атомарную транзакцию: заголовок + позиции + условные декременты
// стока + outbox-событие, всё или ничего.
//
// Предварительная проверка стока — только быстрый отказ; корректность под
// конкурентными заказами обеспечивает условный декремент внутри транзакции.
func (s *Service) CreateOrder(ctx context.Context, customerID string, requested []ItemRequest) (domain.Order, error) {
	start := time.Now()

	if len(requested) == 0 {
		return domain.Order{}, s.fail(domain.NewValidationError("order must contain at least one item"))
	}
	for _, item := range requested {
		if item.Qty < 1 {
			return domain.Order{}, s.fail(domain.NewValidationError("item quantity must be at least 1"))
		}
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return domain.Order{}, s.fail(err)
	}

	now := time.Now().UTC()
	orderID := uuid.NewString()
	items := make([]domain.OrderItem, 0, len(requested))
	var total int64

	for _, item := range requested {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return domain.Order{}, s.fail(err)
		}
		if product.Stock < item.Qty {
			return domain.Order{}, s.fail(domain.NewStockError("insufficient stock for product: %s", product.Name))
		}

		total += product.PriceMinor * int64(item.Qty)
		items = append(items, domain.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			ProductID:  product.ID,
			Qty:        item.Qty,
			PriceMinor: product.PriceMinor, // snapshot цены на момент заказа
			CreatedAt:  now,
		})
	}

	order := domain.Order{
		ID:         orderID,
		CustomerID: customer.ID,
		Status:     domain.OrderStatusPending,
		TotalMinor: total,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	event, err := s.orderEvent(kafka.EventTypeOrderCreated, order)
	if err != nil {
		return domain.Order{}, s.fail(err)
	}

	if err := s.orders.CreateWithItems(ctx, order, items, event); err != nil {
		if domain.IsStockConflict(err) && s.metrics != nil {
			s.metrics.RecordStockConflict()
		}
		return domain.Order{}, s.fail(err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(time.Since(start))
	}
	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"customer_id": order.CustomerID,
		"total_minor": order.TotalMinor,
		"items":       len(items),
	}).Info("order created")

	return order, nil
}

// CancelOrder отменяет pending-заказ: атомарно возвращает сток по всем
// позициям и переводит статус в cancelled. Частичного возврата не бывает.
func (s *Service) CancelOrder(ctx context.Context, orderID string) error {
	start := time.Now()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return s.fail(err)
	}
	if order.Status != domain.OrderStatusPending {
		return s.fail(domain.NewValidationError("only pending orders can be cancelled"))
	}

	items, err := s.orders.ListItems(ctx, orderID)
	if err != nil {
		return s.fail(err)
	}

	order.Status = domain.OrderStatusCancelled
	event, err := s.orderEvent(kafka.EventTypeOrderCancelled, order)
	if err != nil {
		return s.fail(err)
	}

	if err := s.orders.CancelWithRestock(ctx, order, items, event); err != nil {
		return s.fail(err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCancelled(time.Since(start))
	}
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"items":    len(items),
	}).Info("order cancelled, stock restored")

	return nil
}

// UpdateOrderStatus выполняет явный переход статуса. Легальность перехода
// решает чистая функция domain.CanTransition; складских эффектов нет,
// но событие order.status_changed кладётся в outbox той же транзакцией.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) (domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, s.fail(err)
	}

	prevStatus := order.Status
	if err := domain.CanTransition(prevStatus, newStatus); err != nil {
		return domain.Order{}, s.fail(err)
	}

	order.Status = newStatus
	event, err := s.orderEvent(kafka.EventTypeOrderStatusChanged, order)
	if err != nil {
		return domain.Order{}, s.fail(err)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, newStatus, event)
	if err != nil {
		return domain.Order{}, s.fail(err)
	}

	if s.metrics != nil {
		s.metrics.RecordStatusUpdate()
	}
	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"from":     prevStatus,
		"to":       newStatus,
	}).Info("order status updated")

	return updated, nil
}

// ListOrders собирает страницу денормализованных заказов под фильтром.
// Выдача отсортирована по created_at по убыванию; total считается
// независимо от окна, pages = ceil(total / limit).
func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter, page, limit int) (ListResult, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	skip := (page - 1) * limit

	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return ListResult{}, s.fail(err)
	}
	views, err := s.orders.FindJoined(ctx, filter, skip, limit)
	if err != nil {
		return ListResult{}, s.fail(err)
	}

	return ListResult{
		Orders: views,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// GetOrderByID возвращает одно денормализованное представление заказа.
func (s *Service) GetOrderByID(ctx context.Context, id string) (domain.OrderView, error) {
	view, err := s.orders.FindJoinedByID(ctx, id)
	if err != nil {
		return domain.OrderView{}, s.fail(err)
	}
	return view, nil
}

// orderEvent собирает outbox-событие жизненного цикла заказа.
func (s *Service) orderEvent(eventType kafka.EventType, order domain.Order) (domain.OutboxMessage, error) {
	payload, err := json.Marshal(kafka.NewOrderEvent(
		eventType, order.ID, order.CustomerID, string(order.Status), order.TotalMinor,
	))
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal order event: %w", err)
	}
	return domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: kafka.AggregateOrder,
		AggregateID:   order.ID,
		EventType:     string(eventType),
		Payload:       payload,
	}, nil
}

// fail учитывает ошибку в метриках и отдаёт её без изменения вида:
// ядро не глотает и не переписывает вид ошибки.
func (s *Service) fail(err error) error {
	if s.metrics != nil {
		switch {
		case domain.IsValidation(err):
			s.metrics.RecordFailure("validation")
		case domain.IsNotFound(err):
			s.metrics.RecordFailure("not_found")
		case domain.IsStockConflict(err):
			s.metrics.RecordFailure("stock")
		default:
			s.metrics.RecordFailure("internal")
		}
	}
	return err
}
