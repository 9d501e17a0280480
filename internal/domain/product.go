package domain

import "time"

// Product — позиция каталога. Stock мутируется только через атомарные
// условные инкременты/декременты при создании и отмене заказов.
type Product struct {
	ID         string
	Name       string
	PriceMinor int64
	Stock      int32
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
