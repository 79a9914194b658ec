// Package committer applies collected Spanner mutations atomically.
//
// Use cases never write directly. Repositories return mutations, the use case collects them
// (together with outbox events) in a CommitPlan, and the Committer applies the plan in one
// transaction:
//
//	plan := committer.NewPlan()
//	plan.Add(subscriptionRepo.InsertMut(renewed))
//	plan.Add(outboxRepo.InsertMut(outboxRepo.EnrichEvent(event, payload)))
//	return comm.Apply(ctx, plan)
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

// ErrVersionConflict is returned when the stored row version differs from the expected one.
var ErrVersionConflict = errors.New("concurrent modification detected")

// CommitPlan collects mutations from multiple repositories.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// ApplyWithVersionCheck applies the plan only if the row identified by table/key still
// carries expectedVersion in its "version" column.
func (c *Committer) ApplyWithVersionCheck(ctx context.Context, table string, key spanner.Key, expectedVersion int64, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, table, key, []string{"version"})
		if err != nil {
			return fmt.Errorf("failed to read %s version: %w", table, err)
		}

		var currentVersion int64
		if err := row.Column(0, &currentVersion); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}

		if currentVersion != expectedVersion {
			return fmt.Errorf("%w: expected version %d, got %d", ErrVersionConflict, expectedVersion, currentVersion)
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}
	return nil
}
