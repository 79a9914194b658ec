package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/pkg/committer"
)

// SubscriptionRepository defines subscription persistence for the write-side use cases.
// Repositories return mutations, they don't apply them (Golden Mutation Pattern).
type SubscriptionRepository interface {
	// GetByID retrieves a subscription by ID, reconstructing the aggregate
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)

	// InsertMut creates a mutation for inserting a new subscription
	InsertMut(sub *domain.Subscription) *spanner.Mutation

	// UpdateMut creates a mutation for the dirty fields; nil if nothing changed
	UpdateMut(sub *domain.Subscription) *spanner.Mutation

	// DeleteMut creates a mutation removing a subscription
	DeleteMut(id string) *spanner.Mutation
}

// PlanApplier commits a plan atomically.
type PlanApplier interface {
	Apply(ctx context.Context, plan *committer.CommitPlan) error
	// ApplyWithVersionCheck fails with committer.ErrVersionConflict when the row at
	// table/key no longer carries expectedVersion.
	ApplyWithVersionCheck(ctx context.Context, table string, key spanner.Key, expectedVersion int64, plan *committer.CommitPlan) error
}
