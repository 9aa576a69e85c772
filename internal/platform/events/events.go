// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package events publishes domain events to Kafka after a state change has committed.
//
// Publishing is best effort. A failed publish is logged and never undoes or fails the
// operation that produced the event; the audit tables remain the system of record.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/ctxutil"
	"github.com/taibuivan/techhub/pkg/uuidv7"
)

// # Event Types

const (
	TypeContentSubmitted = "content.submitted"
	TypeContentModerated = "content.moderated"
	TypeUserRoleChanged  = "user.role_changed"
	TypeUserDeactivated  = "user.deactivated"
)

// Event is the envelope written as the Kafka message value.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	ActorID    int64     `json:"actor_id"`
	Data       any       `json:"data"`
}

// New builds an event keyed by the aggregate identifier so related events stay ordered
// within one partition.
func New(eventType string, aggregateID int64, actorID int64, data any) Event {
	return Event{
		ID:         uuidv7.String(),
		Type:       eventType,
		Key:        strconv.FormatInt(aggregateID, 10),
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
		Data:       data,
	}
}

// Publisher delivers events to the message bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emit publishes event with a bounded timeout and logs instead of returning failures.
func Emit(ctx context.Context, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}

	// The request context may already be cancelled once the response is written
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.EventPublishTimeout)
	defer cancel()

	if err := publisher.Publish(publishCtx, event); err != nil {
		ctxutil.Logger(ctx).WarnContext(ctx, "event_publish_failed",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()),
		)
	}
}

// # Kafka

// KafkaConfig selects the brokers and topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// batchTimeout is how long a synchronous write waits for more messages to share its
// batch. kafka-go defaults to one second, which every Submit and Decide would pay.
const batchTimeout = 10 * time.Millisecond

// KafkaPublisher writes events synchronously with acknowledgement from all in-sync replicas.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a publisher. No connection is opened until the first write.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: batchTimeout,
			Async:        false,
		},
	}
}

// Publish encodes event as JSON and writes it keyed by aggregate.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", event.Type, err)
	}

	message := kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("events: write %s: %w", event.Type, err)
	}
	return nil
}

// Close flushes pending writes and releases connections.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// # Alternatives

// Nop discards events. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

// Publish records event, or returns Err when set.
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

// Close is a no-op.
func (r *Recorder) Close() error { return nil }

// Events returns a snapshot of recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []string {
	recorded := r.Events()
	types := make([]string, len(recorded))
	for i, event := range recorded {
		types[i] = event.Type
	}
	return types
}
