package domain

import "context"

// CustomerRepository описывает требования к хранилищу покупателей.
// Для ядра заказов достаточно FindByID; остальное обслуживает CRUD-сервис.
type CustomerRepository interface {
	// Create сохраняет нового покупателя.
	Create(ctx context.Context, customer Customer) error
	// FindByID возвращает неудалённого покупателя или NotFoundError.
	FindByID(ctx context.Context, id string) (Customer, error)
	// FindByEmail возвращает неудалённого покупателя по email или NotFoundError.
	FindByEmail(ctx context.Context, email string) (Customer, error)
	// Search ищет по подстроке имени или email без учёта регистра.
	Search(ctx context.Context, query string) ([]Customer, error)
	// Update перезаписывает имя/email/телефон покупателя.
	Update(ctx context.Context, customer Customer) error
	// SoftDelete помечает покупателя удалённым, запись остаётся для истории заказов.
	SoftDelete(ctx context.Context, id string) error
}

// ProductRepository описывает требования к хранилищу каталога.
// Stock меняется только условными инкрементами/декрементами: прямой записи
// поля из ядра заказов нет.
type ProductRepository interface {
	// Create сохраняет новую позицию каталога.
	Create(ctx context.Context, product Product) error
	// FindByID возвращает неудалённую позицию или NotFoundError.
	FindByID(ctx context.Context, id string) (Product, error)
	// List возвращает все неудалённые позиции каталога.
	List(ctx context.Context) ([]Product, error)
	// Update перезаписывает имя/цену/сток позиции.
	Update(ctx context.Context, product Product) error
	// SoftDelete помечает позицию удалённой.
	SoftDelete(ctx context.Context, id string) error
	// DecrementStock атомарно выполняет "stock = stock - qty, если stock >= qty".
	// Возвращает число затронутых записей: 0 означает, что предикат не выполнился.
	DecrementStock(ctx context.Context, id string, qty int32) (int64, error)
	// IncrementStock атомарно увеличивает сток на qty.
	IncrementStock(ctx context.Context, id string, qty int32) (int64, error)
}

// OrderFilter ограничивает выборку заказов. Нулевые поля не фильтруют.
type OrderFilter struct {
	Status     OrderStatus
	CustomerID string
}

// OrderItemView — позиция заказа вместе с деталями товара.
// Product равен nil, если товар больше не резолвится.
type OrderItemView struct {
	Item    OrderItem
	Product *Product
}

// OrderView — денормализованное представление заказа для выдачи:
// заголовок, покупатель (nil, если не резолвится) и позиции с товарами.
type OrderView struct {
	Order    Order
	Customer *Customer
	Items    []OrderItemView
}

// OrderRepository описывает требования к хранилищу заказов.
//
// CreateWithItems и CancelWithRestock — транзакционные методы: все записи
// внутри них применяются как единое целое либо не применяются вовсе,
// частичное применение исключено структурой метода, а не соглашением.
type OrderRepository interface {
	// CreateWithItems атомарно сохраняет заголовок, позиции и для каждой
	// позиции выполняет условный декремент стока "stock >= qty". Если хотя бы
	// один декремент затронул 0 записей, транзакция откатывается целиком и
	// возвращается StockError. Попутно в той же транзакции кладётся событие
	// в outbox.
	CreateWithItems(ctx context.Context, order Order, items []OrderItem, event OutboxMessage) error
	// CancelWithRestock атомарно возвращает сток по всем позициям заказа и
	// переводит статус в cancelled, с событием в outbox в той же транзакции.
	CancelWithRestock(ctx context.Context, order Order, items []OrderItem, event OutboxMessage) error
	// UpdateStatus обновляет статус и кладёт событие в outbox в той же
	// транзакции; возвращает обновлённый заголовок или NotFoundError.
	UpdateStatus(ctx context.Context, id string, status OrderStatus, event OutboxMessage) (Order, error)
	// FindByID возвращает заголовок заказа или NotFoundError.
	FindByID(ctx context.Context, id string) (Order, error)
	// ListItems возвращает позиции заказа в порядке создания.
	ListItems(ctx context.Context, orderID string) ([]OrderItem, error)
	// Count возвращает число заказов под фильтром независимо от окна пагинации.
	Count(ctx context.Context, filter OrderFilter) (int, error)
	// FindJoined возвращает страницу денормализованных заказов, отсортированных
	// по created_at по убыванию (контракт выдачи: свежие первыми).
	FindJoined(ctx context.Context, filter OrderFilter, skip, limit int) ([]OrderView, error)
	// FindJoinedByID возвращает одно денормализованное представление заказа
	// той же формы, что элемент FindJoined, или NotFoundError.
	FindJoinedByID(ctx context.Context, id string) (OrderView, error)
}
