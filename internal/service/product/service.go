package product

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Service — CRUD каталога. Сток здесь задаётся только целиком при создании
// или правке карточки; резервирование и возврат идут через условные
// декременты в ядре заказов.
type Service struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "product-service")
	}
	return &Service{products: products, logger: logger}
}

// CreateInput — данные новой позиции каталога.
type CreateInput struct {
	Name       string
	PriceMinor int64
	Stock      int32
}

// UpdateInput — изменяемые поля позиции. Указатели отличают
// "не менять" от нулевого значения.
type UpdateInput struct {
	Name       *string
	PriceMinor *int64
	Stock      *int32
}

// Create добавляет позицию каталога.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Product{}, domain.NewValidationError("product name is required")
	}
	if in.PriceMinor < 0 {
		return domain.Product{}, domain.NewValidationError("product price must be non-negative")
	}
	if in.Stock < 0 {
		return domain.Product{}, domain.NewValidationError("product stock must be non-negative")
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		PriceMinor: in.PriceMinor,
		Stock:      in.Stock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"stock":      product.Stock,
	}).Info("product created")
	return product, nil
}

// GetByID возвращает неудалённую позицию каталога.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// List возвращает все неудалённые позиции каталога.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Update перезаписывает указанные поля позиции.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return domain.Product{}, domain.NewValidationError("product name is required")
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.PriceMinor != nil {
		if *in.PriceMinor < 0 {
			return domain.Product{}, domain.NewValidationError("product price must be non-negative")
		}
		product.PriceMinor = *in.PriceMinor
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Product{}, domain.NewValidationError("product stock must be non-negative")
		}
		product.Stock = *in.Stock
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}

	s.logger.WithField("product_id", id).Info("product updated")
	return product, nil
}

// Delete помечает позицию удалённой. В существующих заказах её снимок
// цены и ссылки остаются.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}
