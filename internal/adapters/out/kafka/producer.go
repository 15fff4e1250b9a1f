// Package kafka delivers outbox events to Kafka topics through a circuit
// breaker.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/outbox"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = fmt.Errorf("kafka circuit breaker is open: %w", ports.ErrProducerUnavailable)

const (
	HeaderEventType     = "event-type"
	HeaderEventID       = "event-id"
	HeaderAggregateType = "aggregate-type"
	HeaderContentType   = "content-type"
)

type Config struct {
	Brokers      []string
	BatchTimeout time.Duration
	RequiredAcks int

	// FailureThreshold consecutive failures open the breaker, which stays
	// open for OpenTimeout before letting a probe through.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func DefaultConfig(brokers []string) Config {
	return Config{
		Brokers:          brokers,
		BatchTimeout:     10 * time.Millisecond,
		RequiredAcks:     int(kafkago.RequireAll),
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer keeps one writer per topic.
type Producer struct {
	cfg       Config
	breaker   *gobreaker.CircuitBreaker
	logger    *slog.Logger
	newWriter func(topic string) messageWriter

	mu      sync.Mutex
	writers map[string]messageWriter
}

func NewProducer(cfg Config, logger *slog.Logger) *Producer {
	p := &Producer{
		cfg:     cfg,
		logger:  logger.With("component", "kafka_producer"),
		writers: make(map[string]messageWriter),
	}
	p.newWriter = p.kafkaWriter
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-producer",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return p
}

func (p *Producer) kafkaWriter(topic string) messageWriter {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(p.cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: p.cfg.BatchTimeout,
		RequiredAcks: kafkago.RequiredAcks(p.cfg.RequiredAcks),
	}
}

func (p *Producer) writer(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// Publish writes the event to its topic, keyed by aggregate id so that the
// events of one fulfillment stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, event *outbox.Event) error {
	msg := kafkago.Message{
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: HeaderEventType, Value: []byte(event.EventType)},
			{Key: HeaderEventID, Value: []byte(event.ID)},
			{Key: HeaderAggregateType, Value: []byte(event.AggregateType)},
			{Key: HeaderContentType, Value: []byte("application/json")},
		},
		Time: event.CreatedAt,
	}

	w := p.writer(event.Topic)
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, w.WriteMessages(ctx, msg)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ErrCircuitOpen
	case err != nil:
		return fmt.Errorf("publish %s to %s: %w", event.EventType, event.Topic, err)
	}
	return nil
}

// State reports the breaker state, e.g. "closed" or "open".
func (p *Producer) State() string {
	return p.breaker.State().String()
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errList []error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close writer for %s: %w", topic, err))
		}
	}
	p.writers = make(map[string]messageWriter)
	return errors.Join(errList...)
}
