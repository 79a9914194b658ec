package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/csa-service/internal/models/m_outbox"
)

// RetentionCutoffs are the processed_at limits below which processed events are purged.
type RetentionCutoffs struct {
	Completed time.Time
	Failed    time.Time
}

// CutoffsFor derives the cutoffs from retention days relative to now.
func CutoffsFor(now time.Time, completedDays, failedDays int) RetentionCutoffs {
	return RetentionCutoffs{
		Completed: now.AddDate(0, 0, -completedDays),
		Failed:    now.AddDate(0, 0, -failedDays),
	}
}

var expiredEventsWhere = fmt.Sprintf(
	"(%[1]s = '%[2]s' AND %[3]s < @completedCutoff) OR (%[1]s = '%[4]s' AND %[3]s < @failedCutoff)",
	m_outbox.Status, m_outbox.StatusCompleted, m_outbox.ProcessedAt, m_outbox.StatusFailed,
)

func (c RetentionCutoffs) params() map[string]interface{} {
	return map[string]interface{}{
		"completedCutoff": c.Completed,
		"failedCutoff":    c.Failed,
	}
}

// OutboxCleaner purges processed outbox events past their retention.
type OutboxCleaner struct {
	client *spanner.Client
}

// NewOutboxCleaner creates a new OutboxCleaner.
func NewOutboxCleaner(client *spanner.Client) *OutboxCleaner {
	return &OutboxCleaner{client: client}
}

// CountExpired returns the number of expired events per status.
func (c *OutboxCleaner) CountExpired(ctx context.Context, cutoffs RetentionCutoffs) (map[string]int64, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT %[1]s, COUNT(*) FROM %[2]s WHERE %[3]s GROUP BY %[1]s",
			m_outbox.Status, m_outbox.TableName, expiredEventsWhere),
		Params: cutoffs.params(),
	}

	iter := c.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	counts := make(map[string]int64)
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query events: %w", err)
		}

		var status string
		var count int64
		if err := row.Columns(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		counts[status] = count
	}
	return counts, nil
}

// DeleteExpired removes expired events in one transaction and returns the number deleted.
func (c *OutboxCleaner) DeleteExpired(ctx context.Context, cutoffs RetentionCutoffs) (int64, error) {
	stmt := spanner.Statement{
		SQL:    fmt.Sprintf("DELETE FROM %s WHERE %s", m_outbox.TableName, expiredEventsWhere),
		Params: cutoffs.params(),
	}

	var deleted int64
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, stmt)
		if err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cleanup transaction failed: %w", err)
	}
	return deleted, nil
}
