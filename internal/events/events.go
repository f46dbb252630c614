// Package events publishes tracker domain events for the Gateway and other
// services. Publishing is best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Event types.
const (
	TypeApplicationCreated = "EVENT_APPLICATION_CREATED"
	TypeApplicationUpdated = "EVENT_APPLICATION_UPDATED"
	TypeApplicationDeleted = "EVENT_APPLICATION_DELETED"
	TypeFollowUpDue        = "EVENT_FOLLOW_UP_DUE"
)

// Event is the JSON payload published for every domain change.
type Event struct {
	Type          string         `json:"type"`
	UserID        uuid.UUID      `json:"userId"`
	ApplicationID *uuid.UUID     `json:"applicationId,omitempty"`
	At            time.Time      `json:"at"`
	Data          map[string]any `json:"data,omitempty"`
}

// Publisher delivers events to a message backend.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// ─── Redis ───────────────────────────────────────────────────────────────────

// RedisPublisher publishes each event on the Redis channel named after its type.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Type, err)
	}
	if err := p.rdb.Publish(ctx, e.Type, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// ─── NATS ────────────────────────────────────────────────────────────────────

// SubjectPrefix prefixes every NATS subject; the event type is appended.
const SubjectPrefix = "jobmate.tracker."

// NATSPublisher publishes each event on SubjectPrefix + type.
type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: nc}
}

func (p *NATSPublisher) Publish(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", e.Type, err)
	}
	if err := p.nc.Publish(Subject(e.Type), payload); err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

// Subject returns the NATS subject for an event type.
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// ─── Nop ─────────────────────────────────────────────────────────────────────

// Nop discards every event. Used when EVENTS_BACKEND=none.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
