package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// CreateWithItems сохраняет заказ, позиции, условные декременты стока и
// outbox-событие в одной транзакции. Любая ошибка откатывает всё:
// частичное применение исключено границей транзакции.
//
// Условный декремент "stock >= qty" — единственный механизм корректности
// под конкурентными заказами: предварительная проверка стока в сервисе
// лишь быстрый отказ и на неё полагаться нельзя.
func (r *orderRepository) CreateWithItems(ctx context.Context, order domain.Order, items []domain.OrderItem, event domain.OutboxMessage) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, customer_id, status, total_minor, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		order.ID, order.CustomerID, string(order.Status), order.TotalMinor,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, qty, price_minor, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`,
			item.ID, order.ID, item.ProductID, item.Qty, item.PriceMinor, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	for _, item := range items {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND NOT is_deleted AND stock >= $2
		`, item.ProductID, item.Qty)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			// Конкурентный заказ исчерпал сток между предварительной
			// проверкой и транзакционным декрементом.
			err = domain.NewStockError("stock update failed due to concurrency")
			return err
		}
	}

	if err = r.enqueueTx(ctx, tx, event); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

// CancelWithRestock возвращает сток по позициям заказа и переводит статус
// в cancelled одной транзакцией. Предикат status = 'pending' в UPDATE
// защищает от конкурентной двойной отмены с двойным возвратом стока.
func (r *orderRepository) CancelWithRestock(ctx context.Context, order domain.Order, items []domain.OrderItem, event domain.OutboxMessage) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, string(domain.OrderStatusCancelled), order.ID, string(domain.OrderStatusPending))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	var affected int64
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, existsErr := r.orderExistsTx(ctx, tx, order.ID)
		if existsErr != nil {
			err = existsErr
			return err
		}
		if !exists {
			err = domain.NewNotFoundError("order")
			return err
		}
		err = domain.NewValidationError("only pending orders can be cancelled")
		return err
	}

	for _, item := range items {
		if _, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock + $2, updated_at = NOW()
			WHERE id = $1
		`, item.ProductID, item.Qty); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	if err = r.enqueueTx(ctx, tx, event); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel order: %w", err)
	}
	return nil
}

// UpdateStatus меняет статус и кладёт outbox-событие одной транзакцией:
// событие не публикуется без записи и наоборот.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, event domain.OutboxMessage) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var order domain.Order
	var stored string
	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, customer_id, status, total_minor, created_at, updated_at
	`, string(status), id).Scan(
		&order.ID, &order.CustomerID, &stored, &order.TotalMinor,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.NewNotFoundError("order")
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	order.Status = domain.OrderStatus(stored)

	if err = r.enqueueTx(ctx, tx, event); err != nil {
		return domain.Order{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit update status: %w", err)
	}
	return order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var order domain.Order
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, status, total_minor, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &status, &order.TotalMinor,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.NewNotFoundError("order")
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, qty, price_minor, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Qty, &item.PriceMinor, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

func (r *orderRepository) Count(ctx context.Context, filter domain.OrderFilter) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	where, args := buildOrderFilter(filter)
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

// FindJoined собирает страницу денормализованных заказов: заголовок,
// покупатель через LEFT JOIN (nil, если запись исчезла) и позиции с
// деталями товара. Сортировка created_at DESC — контракт выдачи.
func (r *orderRepository) FindJoined(ctx context.Context, filter domain.OrderFilter, skip, limit int) ([]domain.OrderView, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	where, args := buildOrderFilter(filter)
	args = append(args, limit, skip)
	query := fmt.Sprintf(`
		SELECT o.id, o.customer_id, o.status, o.total_minor, o.created_at, o.updated_at,
		       c.id, c.name, c.email, c.phone, c.is_deleted, c.created_at, c.updated_at
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		%s
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find joined orders: %w", err)
	}
	defer rows.Close()

	views := make([]domain.OrderView, 0)
	for rows.Next() {
		var (
			view       domain.OrderView
			status     string
			custID     sql.NullString
			custName   sql.NullString
			custEmail  sql.NullString
			custPhone  sql.NullString
			custDel    sql.NullBool
			custCreate sql.NullTime
			custUpdate sql.NullTime
		)
		if err := rows.Scan(
			&view.Order.ID, &view.Order.CustomerID, &status, &view.Order.TotalMinor,
			&view.Order.CreatedAt, &view.Order.UpdatedAt,
			&custID, &custName, &custEmail, &custPhone, &custDel, &custCreate, &custUpdate,
		); err != nil {
			return nil, fmt.Errorf("scan joined order: %w", err)
		}
		view.Order.Status = domain.OrderStatus(status)
		if custID.Valid {
			view.Customer = &domain.Customer{
				ID:        custID.String,
				Name:      custName.String,
				Email:     custEmail.String,
				Phone:     custPhone.String,
				IsDeleted: custDel.Bool,
				CreatedAt: custCreate.Time,
				UpdatedAt: custUpdate.Time,
			}
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate joined orders: %w", err)
	}

	for i := range views {
		items, err := r.loadItemViews(ctx, views[i].Order.ID)
		if err != nil {
			return nil, err
		}
		views[i].Items = items
	}
	return views, nil
}

func (r *orderRepository) FindJoinedByID(ctx context.Context, id string) (domain.OrderView, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		view       domain.OrderView
		status     string
		custID     sql.NullString
		custName   sql.NullString
		custEmail  sql.NullString
		custPhone  sql.NullString
		custDel    sql.NullBool
		custCreate sql.NullTime
		custUpdate sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT o.id, o.customer_id, o.status, o.total_minor, o.created_at, o.updated_at,
		       c.id, c.name, c.email, c.phone, c.is_deleted, c.created_at, c.updated_at
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id).Scan(
		&view.Order.ID, &view.Order.CustomerID, &status, &view.Order.TotalMinor,
		&view.Order.CreatedAt, &view.Order.UpdatedAt,
		&custID, &custName, &custEmail, &custPhone, &custDel, &custCreate, &custUpdate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.OrderView{}, domain.NewNotFoundError("order")
		}
		return domain.OrderView{}, fmt.Errorf("select joined order: %w", err)
	}
	view.Order.Status = domain.OrderStatus(status)
	if custID.Valid {
		view.Customer = &domain.Customer{
			ID:        custID.String,
			Name:      custName.String,
			Email:     custEmail.String,
			Phone:     custPhone.String,
			IsDeleted: custDel.Bool,
			CreatedAt: custCreate.Time,
			UpdatedAt: custUpdate.Time,
		}
	}

	items, err := r.loadItemViews(ctx, view.Order.ID)
	if err != nil {
		return domain.OrderView{}, err
	}
	view.Items = items
	return view, nil
}

func (r *orderRepository) loadItemViews(ctx context.Context, orderID string) ([]domain.OrderItemView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.order_id, i.product_id, i.qty, i.price_minor, i.created_at,
		       p.id, p.name, p.price_minor, p.stock, p.is_deleted, p.created_at, p.updated_at
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.created_at ASC, i.id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order item views: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItemView, 0)
	for rows.Next() {
		var (
			view      domain.OrderItemView
			prodID    sql.NullString
			prodName  sql.NullString
			prodPrice sql.NullInt64
			prodStock sql.NullInt32
			prodDel   sql.NullBool
			prodCr    sql.NullTime
			prodUp    sql.NullTime
		)
		if err := rows.Scan(
			&view.Item.ID, &view.Item.OrderID, &view.Item.ProductID, &view.Item.Qty,
			&view.Item.PriceMinor, &view.Item.CreatedAt,
			&prodID, &prodName, &prodPrice, &prodStock, &prodDel, &prodCr, &prodUp,
		); err != nil {
			return nil, fmt.Errorf("scan order item view: %w", err)
		}
		if prodID.Valid {
			view.Product = &domain.Product{
				ID:         prodID.String,
				Name:       prodName.String,
				PriceMinor: prodPrice.Int64,
				Stock:      prodStock.Int32,
				IsDeleted:  prodDel.Bool,
				CreatedAt:  prodCr.Time,
				UpdatedAt:  prodUp.Time,
			}
		}
		items = append(items, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item views: %w", err)
	}
	return items, nil
}

// enqueueTx кладёт outbox-событие в рамках открытой транзакции.
func (r *orderRepository) enqueueTx(ctx context.Context, tx *sql.Tx, event domain.OutboxMessage) error {
	if event.ID == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO outbox_messages (id, aggregate_type, aggregate_id, event_type, payload, status)
		VALUES ($1,$2,$3,$4,$5,'pending')
	`, event.ID, event.AggregateType, event.AggregateID, event.EventType, event.Payload); err != nil {
		return fmt.Errorf("enqueue outbox message: %w", err)
	}
	return nil
}

func (r *orderRepository) orderExistsTx(ctx context.Context, tx *sql.Tx, orderID string) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

// buildOrderFilter собирает WHERE-часть и аргументы под фильтр выборки.
func buildOrderFilter(filter domain.OrderFilter) (string, []any) {
	conditions := ""
	args := make([]any, 0, 2)

	appendCond := func(cond string, value any) {
		args = append(args, value)
		if conditions == "" {
			conditions = " WHERE "
		} else {
			conditions += " AND "
		}
		conditions += fmt.Sprintf(cond, len(args))
	}

	if filter.Status != "" {
		appendCond("status = $%d", string(filter.Status))
	}
	if filter.CustomerID != "" {
		appendCond("customer_id = $%d", filter.CustomerID)
	}
	return conditions, args
}

var _ domain.OrderRepository = (*orderRepository)(nil)
