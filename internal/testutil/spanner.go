// Package testutil holds helpers for tests that run against the Spanner emulator.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
)

// Tables lists every table the schema migrations create.
var Tables = []string{
	"outbox_events",
	"subscriptions",
	"waiting_list_pickup_location_wishes",
	"waiting_list_product_wishes",
	"waiting_list_entries",
	"member_pickup_locations",
	"product_basket_size_equivalences",
	"pickup_location_basket_capacities",
	"pickup_location_capabilities",
	"pickup_location_opening_times",
	"pickup_locations",
	"notice_periods",
	"product_capacities",
	"growing_periods",
	"product_prices",
	"products",
	"product_types",
	"parameters",
}

// SetupSpannerTest creates a test Spanner client on an emptied database. The client is
// closed and the database emptied again when the test finishes.
func SetupSpannerTest(t *testing.T) *spanner.Client {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	client, err := spanner.NewClient(context.Background(), GetTestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	CleanDatabase(t, client)
	t.Cleanup(func() {
		CleanDatabase(t, client)
		client.Close()
	})
	return client
}

// GetTestSpannerDB returns the test Spanner database string.
func GetTestSpannerDB() string {
	if db := os.Getenv("SPANNER_TEST_DATABASE"); db != "" {
		return db
	}
	return "projects/test-project/instances/test-instance/databases/csa-test"
}

// CleanDatabase truncates all tables for test isolation.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	mutations := make([]*spanner.Mutation, 0, len(Tables))
	for _, table := range Tables {
		mutations = append(mutations, spanner.Delete(table, spanner.AllKeys()))
	}
	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// InsertRows writes model structs into table.
func InsertRows[T any](t *testing.T, client *spanner.Client, table string, rows ...*T) {
	t.Helper()

	mutations := make([]*spanner.Mutation, 0, len(rows))
	for _, row := range rows {
		m, err := spanner.InsertStruct(table, row)
		require.NoError(t, err, "failed to build insert for %s", table)
		mutations = append(mutations, m)
	}
	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to insert into %s", table)
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expectedCount int) {
	t.Helper()

	stmt := spanner.Statement{SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table)}
	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	require.Equal(t, int64(expectedCount), count, "unexpected row count in table %s", table)
}
