package repository

import (
	"context"

	"github.com/google/uuid"

	"FinDash/internal/domain/models"
	"FinDash/internal/domain/repository"
	pkgkafka "FinDash/pkg/kafka"
)

type producer interface {
	Publish(ctx context.Context, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, messages []pkgkafka.Message) error
	Close() error
}

// SignalEvent is the message value. ID lets consumers drop redelivered events.
type SignalEvent struct {
	ID     string                  `json:"id"`
	Signal *models.TechnicalSignal `json:"signal"`
}

// KafkaPublisher emits signal snapshots keyed by symbol.
type KafkaPublisher struct {
	producer producer
	newID    func() string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(p *pkgkafka.Producer) repository.Publisher {
	return &KafkaPublisher{producer: p, newID: uuid.NewString}
}

func (p *KafkaPublisher) event(s *models.TechnicalSignal) SignalEvent {
	id := ""
	if p.newID != nil {
		id = p.newID()
	}
	return SignalEvent{ID: id, Signal: s}
}

func (p *KafkaPublisher) PublishSignal(ctx context.Context, s *models.TechnicalSignal) error {
	if s == nil {
		return nil
	}
	return p.producer.Publish(ctx, []byte(s.Symbol), p.event(s))
}

func (p *KafkaPublisher) PublishSignals(ctx context.Context, signals []*models.TechnicalSignal) error {
	msgs := make([]pkgkafka.Message, 0, len(signals))
	for _, s := range signals {
		if s == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{Key: []byte(s.Symbol), Value: p.event(s)})
	}
	return p.producer.PublishBatch(ctx, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops every signal. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishSignal(context.Context, *models.TechnicalSignal) error    { return nil }
func (NopPublisher) PublishSignals(context.Context, []*models.TechnicalSignal) error { return nil }
func (NopPublisher) Close() error                                                    { return nil }
