package repo

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/models/m_outbox"
	"github.com/light-bringer/csa-service/internal/pkg/query"
)

// EventsReadModel implements contracts.EventReader for Spanner.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{client: client}
}

// ListEvents retrieves events from the outbox_events table with filtering.
func (r *EventsReadModel) ListEvents(ctx context.Context, filter contracts.EventFilter) ([]*contracts.OutboxEvent, error) {
	b := query.From(m_outbox.TableName).Select(m_outbox.Columns...)
	if filter.EventType != "" {
		b = b.Where(query.Eq(m_outbox.EventType, filter.EventType))
	}
	if filter.AggregateID != "" {
		b = b.Where(query.Eq(m_outbox.AggregateID, filter.AggregateID))
	}
	if filter.Status != "" {
		b = b.Where(query.Eq(m_outbox.Status, filter.Status))
	}
	stmt := b.OrderBy(m_outbox.CreatedAt, query.Desc).Limit(int64(filter.Limit)).Build()

	return readAll(ctx, r.client, stmt, func(d *m_outbox.Data) (*contracts.OutboxEvent, error) {
		payload := ""
		if d.Payload.Valid {
			payload = d.Payload.String()
		}
		return &contracts.OutboxEvent{
			EventID:     d.EventID,
			EventType:   d.EventType,
			AggregateID: d.AggregateID,
			Payload:     payload,
			Status:      d.Status,
			CreatedAt:   d.CreatedAt,
		}, nil
	})
}
