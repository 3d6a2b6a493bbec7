package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
)

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{writer: writer}
}

// PublishEvent writes event as JSON. Messages for one entity share a key so
// they stay ordered on one partition.
func (p *Producer) PublishEvent(ctx context.Context, key string, event any) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: eventBytes,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

// Write publishes audit events so downstream read models can follow the
// appointment lifecycle.
func (p *Producer) Write(ctx context.Context, ev audit.Event) error {
	key := ev.Entity
	if ev.EntityID != nil {
		key = fmt.Sprintf("%s-%s", ev.Entity, *ev.EntityID)
	}
	return p.PublishEvent(ctx, key, ev)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

var _ audit.Sink = (*Producer)(nil)
