package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// SubscriptionCreatedEvent is emitted when a subscription is created.
type SubscriptionCreatedEvent struct {
	SubscriptionID string     `json:"subscription_id"`
	MemberID       string     `json:"member_id"`
	ProductID      string     `json:"product_id"`
	Quantity       int        `json:"quantity"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (e *SubscriptionCreatedEvent) EventType() string {
	return "subscription.created"
}

func (e *SubscriptionCreatedEvent) AggregateID() string {
	return e.SubscriptionID
}

// SubscriptionRenewedEvent is emitted when a subscription is continued into the next growing period.
type SubscriptionRenewedEvent struct {
	SubscriptionID         string    `json:"subscription_id"`
	PreviousSubscriptionID string    `json:"previous_subscription_id"`
	MemberID               string    `json:"member_id"`
	ProductID              string    `json:"product_id"`
	PeriodID               string    `json:"period_id"`
	StartDate              time.Time `json:"start_date"`
	EndDate                time.Time `json:"end_date"`
	RenewedAt              time.Time `json:"renewed_at"`
}

func (e *SubscriptionRenewedEvent) EventType() string {
	return "subscription.renewed"
}

func (e *SubscriptionRenewedEvent) AggregateID() string {
	return e.SubscriptionID
}

// SubscriptionCancelledEvent is emitted when a member or admin cancels a subscription.
type SubscriptionCancelledEvent struct {
	SubscriptionID string     `json:"subscription_id"`
	MemberID       string     `json:"member_id"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CancelledAt    time.Time  `json:"cancelled_at"`
}

func (e *SubscriptionCancelledEvent) EventType() string {
	return "subscription.cancelled"
}

func (e *SubscriptionCancelledEvent) AggregateID() string {
	return e.SubscriptionID
}

// SubscriptionDeletedEvent is emitted when a subscription that had not started yet is removed.
type SubscriptionDeletedEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	MemberID       string    `json:"member_id"`
	ProductID      string    `json:"product_id"`
	DeletedAt      time.Time `json:"deleted_at"`
}

func (e *SubscriptionDeletedEvent) EventType() string {
	return "subscription.deleted"
}

func (e *SubscriptionDeletedEvent) AggregateID() string {
	return e.SubscriptionID
}
