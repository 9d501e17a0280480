package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// outboxRepository — in-memory реализация OutboxRepository поверх Store.
type outboxRepository struct {
	store *Store
}

func (r *outboxRepository) Enqueue(_ context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.store.appendOutbox(msg)
	return msg, nil
}

func (r *outboxRepository) PullPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	result := make([]domain.OutboxMessage, 0, limit)
	for _, rec := range r.store.outbox {
		if rec.status != "pending" {
			continue
		}
		result = append(result, rec.msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *outboxRepository) Stats(_ context.Context) (domain.OutboxStats, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var stats domain.OutboxStats
	for _, rec := range r.store.outbox {
		if rec.status != "pending" {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || rec.createdAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = rec.createdAt
		}
	}
	return stats, nil
}

func (r *outboxRepository) MarkSent(_ context.Context, id string) error {
	return r.markStatus(id, "sent")
}

func (r *outboxRepository) MarkFailed(_ context.Context, id string) error {
	return r.markStatus(id, "failed")
}

func (r *outboxRepository) markStatus(id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.outbox {
		if r.store.outbox[i].msg.ID == id {
			r.store.outbox[i].status = status
			return nil
		}
	}
	return domain.NewNotFoundError("outbox message")
}

var _ domain.OutboxRepository = (*outboxRepository)(nil)
