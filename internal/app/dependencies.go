package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/memory"
	"github.com/vladislavdragonenkov/fulfillment/internal/storage/postgres"
)

// Dependencies содержит хранилищные зависимости приложения.
type Dependencies struct {
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Orders    domain.OrderRepository
	Outbox    domain.OutboxRepository

	// Ping проверяет доступность хранилища; для memory всегда nil-ошибка.
	Ping func(ctx context.Context) error
	// Close освобождает ресурсы хранилища.
	Close func() error
}

// initStorage собирает репозитории под выбранный драйвер. Для postgres
// прогоняет миграции до готовности.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		store := memory.NewStore()
		logger.Info("using in-memory storage")
		return &Dependencies{
			Customers: store.CustomerRepository(),
			Products:  store.ProductRepository(),
			Orders:    store.OrderRepository(),
			Outbox:    store.OutboxRepository(),
			Ping:      func(context.Context) error { return nil },
			Close:     func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.MigrateUp(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("using postgres storage, migrations applied")
		return &Dependencies{
			Customers: postgres.NewCustomerRepository(store),
			Products:  postgres.NewProductRepository(store),
			Orders:    postgres.NewOrderRepository(store),
			Outbox:    postgres.NewOutboxRepository(store),
			Ping:      store.Ping,
			Close:     store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.StorageDriver)
	}
}
