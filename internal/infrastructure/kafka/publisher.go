package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"dentalab/internal/config"
	"dentalab/internal/dto"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, event dto.StockAdjustedEvent) error
	Close() error
}

// New returns a Kafka publisher, or a NoopPublisher when no broker is
// configured.
func New(cfg config.KafkaConfig, logger *zap.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("kafka disabled, stock events will not be published")
		return NoopPublisher{}
	}
	return NewStockEventPublisher(cfg, logger)
}

// StockEventPublisher writes StockAdjusted events keyed by order id so all
// movements of an order land on the same partition.
type StockEventPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewStockEventPublisher(cfg config.KafkaConfig, logger *zap.Logger) *StockEventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return newStockEventPublisher(writer, logger)
}

func newStockEventPublisher(writer messageWriter, logger *zap.Logger) *StockEventPublisher {
	return &StockEventPublisher{writer: writer, logger: logger}
}

func (p *StockEventPublisher) Publish(ctx context.Context, event dto.StockAdjustedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding stock event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.OrderID), 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte("StockAdjusted")},
			{Key: "eventId", Value: []byte(event.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing stock event: %w", err)
	}

	p.logger.Debug("stock event published", zap.String("eventId", event.EventID), zap.Uint("orderId", event.OrderID))
	return nil
}

func (p *StockEventPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, dto.StockAdjustedEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
