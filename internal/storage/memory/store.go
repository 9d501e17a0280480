package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// outboxRecord — внутреннее состояние outbox-сообщения.
type outboxRecord struct {
	msg       domain.OutboxMessage
	status    string // pending | sent | failed
	createdAt time.Time
}

// Store — in-memory хранилище для локальной разработки и тестов.
//
// Все коллекции живут под одним мьютексом, поэтому транзакционные методы
// репозиториев (создание заказа с декрементами, отмена с возвратом стока)
// применяются атомарно: конкурентная операция не увидит частичных эффектов.
type Store struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	products  map[string]domain.Product
	orders    map[string]domain.Order
	items     map[string][]domain.OrderItem // key: order id
	outbox    []outboxRecord
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		customers: make(map[string]domain.Customer),
		products:  make(map[string]domain.Product),
		orders:    make(map[string]domain.Order),
		items:     make(map[string][]domain.OrderItem),
	}
}

// CustomerRepository возвращает представление хранилища для покупателей.
func (s *Store) CustomerRepository() domain.CustomerRepository {
	return &customerRepository{store: s}
}

// ProductRepository возвращает представление хранилища для каталога.
func (s *Store) ProductRepository() domain.ProductRepository {
	return &productRepository{store: s}
}

// OrderRepository возвращает представление хранилища для заказов.
func (s *Store) OrderRepository() domain.OrderRepository {
	return &orderRepository{store: s}
}

// OutboxRepository возвращает представление хранилища для outbox.
func (s *Store) OutboxRepository() domain.OutboxRepository {
	return &outboxRepository{store: s}
}

// appendOutbox кладёт событие в outbox. Вызывать только под s.mu.
func (s *Store) appendOutbox(msg domain.OutboxMessage) {
	s.outbox = append(s.outbox, outboxRecord{
		msg:       msg,
		status:    "pending",
		createdAt: time.Now().UTC(),
	})
}
