package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
)

// OutboxEvent represents an enriched domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
	// CreatedAt is set on commit.
	CreatedAt time.Time
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	// InsertMut creates a mutation for inserting an outbox event
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent converts a domain event to an outbox event with metadata
	EnrichEvent(event domain.DomainEvent, payload string) *OutboxEvent
}

// EventFilter narrows ListEvents. Empty fields match every event.
type EventFilter struct {
	EventType   string
	AggregateID string
	Status      string
	Limit       int
}

// EventReader reads committed outbox events, newest first.
type EventReader interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]*OutboxEvent, error)
}
