// Package messaging publishes insight events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/config"
)

// ErrCircuitOpen is returned while the breaker rejects writes after repeated broker failures.
var ErrCircuitOpen = errors.New("kafka circuit breaker is open")

const (
	breakerMaxFailures = 3
	breakerOpenTimeout = 30 * time.Second
	writeTimeout       = 5 * time.Second
)

// MessageWriter is the subset of kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer sends JSON-encoded events to a single topic.
type Producer struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewProducer creates a producer for cfg.Topic. It returns nil when no brokers are configured.
func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) *Producer {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: writeTimeout,
	}, logger)
}

func newProducer(writer MessageWriter, logger *zap.Logger) *Producer {
	p := &Producer{writer: writer, logger: logger}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-insights",
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("kafka breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return p
}

// SendEvent publishes event under key.
func (p *Producer) SendEvent(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	p.logger.Debug("event sent to kafka", zap.String("key", key))
	return nil
}

// State reports the breaker state: closed, open or half-open.
func (p *Producer) State() string {
	return p.breaker.State().String()
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
