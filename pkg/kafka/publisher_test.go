package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Astemirdum/department-portal/pkg/circuit_breaker"
	"github.com/Astemirdum/department-portal/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	event := kafka.EventPortal{
		Timestamp: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		Type:      kafka.EventBorrowStatusChanged,
		UserID:    "u1",
		BookID:    "1",
		RecordID:  "r1",
		Status:    "Issued",
	}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got kafka.EventPortal
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		require.Equal(t, event, got)
		return nil
	})

	p := kafka.NewPublisher(producer, circuit_breaker.New(10, time.Second, 0.5, 1), zap.NewNop())
	p.Publish(context.Background(), event)
	require.NoError(t, p.Close())
}

func TestPublisher_FailureDoesNotPanic(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	cb := circuit_breaker.New(2, time.Minute, 1, 1)
	p := kafka.NewPublisher(producer, cb, zap.NewNop())
	p.Publish(context.Background(), kafka.EventPortal{Type: kafka.EventUserApproved})
	p.Publish(context.Background(), kafka.EventPortal{Type: kafka.EventUserApproved})
	// breaker is open now, the producer is not called again
	p.Publish(context.Background(), kafka.EventPortal{Type: kafka.EventUserApproved})
	require.NoError(t, p.Close())
}
