package kafka

import "github.com/vladislavdragonenkov/fulfillment/internal/domain"

// OutboxPublisher адаптирует Producer под domain.OutboxPublisher:
// outbox-воркер публикует события заказов, не зная о Kafka напрямую.
type OutboxPublisher struct {
	producer *Producer
	topic    string
}

// NewOutboxPublisher создаёт publisher для topic событий заказов.
func NewOutboxPublisher(producer *Producer) *OutboxPublisher {
	return &OutboxPublisher{
		producer: producer,
		topic:    TopicOrderEvents,
	}
}

// Publish отправляет outbox-сообщение с ключом по ID агрегата.
func (p *OutboxPublisher) Publish(msg domain.OutboxMessage) error {
	return p.producer.Publish(p.topic, msg.AggregateID, msg.Payload)
}

var _ domain.OutboxPublisher = (*OutboxPublisher)(nil)
