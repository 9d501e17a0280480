package domain

import "time"

// Customer — покупатель. Для ядра заказов это read-only зависимость;
// CRUD живёт в отдельном сервисе.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
