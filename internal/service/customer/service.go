package customer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Service — CRUD покупателей. Удаление мягкое: запись остаётся,
// чтобы история заказов продолжала резолвиться.
type Service struct {
	customers domain.CustomerRepository
	logger    *log.Entry
}

// NewService создаёт сервис покупателей.
func NewService(customers domain.CustomerRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customer-service")
	}
	return &Service{customers: customers, logger: logger}
}

// CreateInput — данные нового покупателя.
type CreateInput struct {
	Name  string
	Email string
	Phone string
}

// UpdateInput — изменяемые поля покупателя.
type UpdateInput struct {
	Name  string
	Email string
	Phone string
}

// Create регистрирует покупателя. Email уникален среди неудалённых записей.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Customer{}, domain.NewValidationError("customer name is required")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return domain.Customer{}, domain.NewValidationError("customer email is required")
	}

	if _, err := s.customers.FindByEmail(ctx, email); err == nil {
		return domain.Customer{}, domain.NewValidationError("customer email already exists")
	} else if !domain.IsNotFound(err) {
		return domain.Customer{}, err
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return domain.Customer{}, err
	}

	s.logger.WithField("customer_id", customer.ID).Info("customer created")
	return customer, nil
}

// GetByID возвращает неудалённого покупателя.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// Search ищет покупателей по подстроке имени или email.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Customer, error) {
	return s.customers.Search(ctx, strings.TrimSpace(query))
}

// Update перезаписывает имя/email/телефон. Смена email проверяется
// на уникальность среди остальных неудалённых покупателей.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if strings.TrimSpace(in.Name) != "" {
		customer.Name = strings.TrimSpace(in.Name)
	}
	if strings.TrimSpace(in.Phone) != "" {
		customer.Phone = strings.TrimSpace(in.Phone)
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != customer.Email {
		existing, err := s.customers.FindByEmail(ctx, email)
		if err == nil && existing.ID != id {
			return domain.Customer{}, domain.NewValidationError("customer email already exists")
		}
		if err != nil && !domain.IsNotFound(err) {
			return domain.Customer{}, err
		}
		customer.Email = email
	}

	customer.UpdatedAt = time.Now().UTC()
	if err := s.customers.Update(ctx, customer); err != nil {
		return domain.Customer{}, err
	}

	s.logger.WithField("customer_id", id).Info("customer updated")
	return customer, nil
}

// Delete помечает покупателя удалённым.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.customers.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("customer_id", id).Info("customer deleted")
	return nil
}
