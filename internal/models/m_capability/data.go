package m_capability

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the pickup_location_capabilities table.
type Data struct {
	PickupLocationID string              `spanner:"pickup_location_id"`
	ProductTypeID    string              `spanner:"product_type_id"`
	MaxCapacity      spanner.NullNumeric `spanner:"max_capacity"`
}
