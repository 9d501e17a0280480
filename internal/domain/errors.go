package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы заказа.
	ErrTotalNegative = errors.New("total_minor must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match items sum")
	// Ошибка неизвестного статуса заказа.
	ErrStatusUnknown = errors.New("unknown order status")
)

// ValidationError — некорректный запрос или запрещённый переход статуса.
// Ошибка вызывающей стороны, внутренних retry не предполагает.
type ValidationError struct {
	Reason string
}

// NewValidationError создаёт ValidationError с форматированной причиной.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NotFoundError — запрошенная сущность отсутствует в хранилище.
type NotFoundError struct {
	Entity string
}

// NewNotFoundError создаёт NotFoundError для сущности (например, "order").
func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// StockError — нехватка стока на предварительной проверке либо конфликт
// конкурентных декрементов на атомарной записи. Вызывающая сторона может
// повторить запрос; ядро автоматических retry не делает.
type StockError struct {
	Reason string
}

// NewStockError создаёт StockError с форматированной причиной.
func NewStockError(format string, args ...any) *StockError {
	return &StockError{Reason: fmt.Sprintf(format, args...)}
}

func (e *StockError) Error() string {
	return e.Reason
}

// IsValidation проверяет, является ли ошибка ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound проверяет, является ли ошибка NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsStockConflict проверяет, является ли ошибка StockError.
func IsStockConflict(err error) bool {
	var target *StockError
	return errors.As(err, &target)
}
