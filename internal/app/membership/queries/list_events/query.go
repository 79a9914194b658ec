package list_events

import (
	"context"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Request contains filtering parameters for listing events.
type Request struct {
	EventType   string // e.g. "subscription.cancelled"
	AggregateID string
	Status      string // "pending", "completed", "failed"
	Limit       int    // default 100, at most 1000
}

// Query handles the list events query use case.
type Query struct {
	readModel contracts.EventReader
}

// NewQuery creates a new list events query.
func NewQuery(readModel contracts.EventReader) *Query {
	return &Query{readModel: readModel}
}

// Execute retrieves outbox events, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.OutboxEvent, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return q.readModel.ListEvents(ctx, contracts.EventFilter{
		EventType:   req.EventType,
		AggregateID: req.AggregateID,
		Status:      req.Status,
		Limit:       limit,
	})
}
