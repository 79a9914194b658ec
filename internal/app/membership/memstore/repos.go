package memstore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/models/m_outbox"
	"github.com/light-bringer/csa-service/internal/models/m_subscription"
)

// register records the in-memory effect of a mutation; the caller holds no lock.
func (s *Store) register(m *spanner.Mutation, op func()) *spanner.Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[m] = op
	return m
}

// SubscriptionRepo is the in-memory contracts.SubscriptionRepository.
type SubscriptionRepo struct {
	store *Store
}

// SubscriptionRepo returns the subscription repository of this store.
func (s *Store) SubscriptionRepo() contracts.SubscriptionRepository {
	return &SubscriptionRepo{store: s}
}

func (r *SubscriptionRepo) GetByID(_ context.Context, id string) (*domain.Subscription, error) {
	d, ok := r.store.Subscription(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSubscriptionNotFound, id)
	}
	return domain.ReconstructSubscription(d), nil
}

func (r *SubscriptionRepo) InsertMut(sub *domain.Subscription) *spanner.Mutation {
	d := sub.Data()
	m := spanner.Insert(m_subscription.TableName, []string{m_subscription.SubscriptionID}, []interface{}{d.ID})
	return r.store.register(m, func() {
		d.Version = 1
		r.store.subscriptions[d.ID] = d
	})
}

func (r *SubscriptionRepo) UpdateMut(sub *domain.Subscription) *spanner.Mutation {
	if !sub.Changes().HasChanges() {
		return nil
	}
	d := sub.Data()
	m := spanner.Update(m_subscription.TableName, []string{m_subscription.SubscriptionID}, []interface{}{d.ID})
	return r.store.register(m, func() {
		stored := r.store.subscriptions[d.ID]
		if sub.Changes().Dirty(domain.FieldCancellationTS) {
			stored.CancellationTS = d.CancellationTS
		}
		if sub.Changes().Dirty(domain.FieldEndDate) {
			stored.EndDate = d.EndDate
		}
		if sub.Changes().Dirty(domain.FieldAdminConfirmed) {
			stored.AdminConfirmed = d.AdminConfirmed
		}
		stored.Version++
		r.store.subscriptions[d.ID] = stored
	})
}

func (r *SubscriptionRepo) DeleteMut(id string) *spanner.Mutation {
	m := spanner.Delete(m_subscription.TableName, spanner.Key{id})
	return r.store.register(m, func() {
		delete(r.store.subscriptions, id)
	})
}

// OutboxRepo is the in-memory contracts.OutboxRepository.
type OutboxRepo struct {
	store *Store
}

// OutboxRepo returns the outbox repository of this store.
func (s *Store) OutboxRepo() contracts.OutboxRepository {
	return &OutboxRepo{store: s}
}

func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	m := spanner.Insert(m_outbox.TableName, []string{m_outbox.EventID}, []interface{}{event.EventID})
	return r.store.register(m, func() {
		e := *event
		e.CreatedAt = time.Now().UTC()
		r.store.outbox = append(r.store.outbox, &e)
	})
}

func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      m_outbox.StatusPending,
	}
}

// ListEvents returns committed outbox events, newest first.
func (s *Store) ListEvents(_ context.Context, filter contracts.EventFilter) ([]*contracts.OutboxEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*contracts.OutboxEvent
	for i := len(s.outbox) - 1; i >= 0; i-- {
		e := s.outbox[i]
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if filter.AggregateID != "" && e.AggregateID != filter.AggregateID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		c := *e
		out = append(out, &c)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var _ contracts.EventReader = (*Store)(nil)
