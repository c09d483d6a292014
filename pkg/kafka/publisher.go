package kafka

import (
	"context"
	"encoding/json"

	"github.com/Astemirdum/department-portal/pkg/circuit_breaker"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Publisher sends portal events to Kafka. Delivery is best effort: a failed
// send is logged and the breaker stops hammering a dead broker.
type Publisher struct {
	producer sarama.SyncProducer
	cb       circuit_breaker.CircuitBreaker
	topic    string
	log      *zap.Logger
}

func NewPublisher(producer sarama.SyncProducer, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		cb:       cb,
		topic:    EventsTopic,
		log:      log.Named("publisher"),
	}
}

func (p *Publisher) Publish(_ context.Context, event EventPortal) {
	data, err := json.Marshal(event)
	if err != nil {
		p.log.Error("json.Marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(data),
	}
	if err := p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	}); err != nil {
		p.log.Warn("event dropped", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
