package handler

import (
	"context"
	"encoding/json"

	"github.com/Astemirdum/department-portal/portal/internal/errs"
	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type addVerified func(ctx context.Context, items []model.VerifiedEmail) (int, error)

// Consumer applies verified-email import batches published by the
// spreadsheet tooling. Each message value is a JSON array of {email, role}.
type Consumer struct {
	addVerifiedHandler addVerified
	log                *zap.Logger
}

func NewConsumer(addVerified addVerified, log *zap.Logger) *Consumer {
	return &Consumer{
		addVerifiedHandler: addVerified,
		log:                log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if consumer.handle(session.Context(), message) {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message should be marked as consumed.
// Undecodable and rejected batches are marked and skipped. Other failures
// stay unmarked; the group commits the highest marked offset, so such a
// batch is replayed only if nothing after it in the partition is marked.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	var items []model.VerifiedEmail
	if err := json.Unmarshal(message.Value, &items); err != nil {
		consumer.log.Error("json.Unmarshal", zap.Error(err), zap.Int64("offset", message.Offset))
		return true
	}
	added, err := consumer.addVerifiedHandler(ctx, items)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidRole) || errors.Is(err, errs.ErrInvalidEmail) {
			consumer.log.Error("batch rejected", zap.Error(err), zap.Int64("offset", message.Offset))
			return true
		}
		consumer.log.Error("consumer.addVerifiedHandler", zap.Error(err))
		return false
	}
	consumer.log.Debug("Message claimed:",
		zap.Int("added", added),
		zap.Time("timestamp", message.Timestamp),
		zap.String("topic", message.Topic))
	return true
}
