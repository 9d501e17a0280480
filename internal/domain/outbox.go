package domain

import (
	"context"
	"time"
)

// OutboxMessage хранит событие для последующей публикации в брокер.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository позволяет сохранять события и отдавать их воркеру.
// Запись в outbox на мутациях заказов происходит внутри той же транзакции,
// что и сами мутации (см. OrderRepository).
type OutboxRepository interface {
	Enqueue(ctx context.Context, msg OutboxMessage) (OutboxMessage, error)
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// OutboxPublisher публикует события из outbox; должен быть идемпотентным.
type OutboxPublisher interface {
	Publish(msg OutboxMessage) error
}
