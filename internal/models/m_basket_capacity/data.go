package m_basket_capacity

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the pickup_location_basket_capacities table.
type Data struct {
	PickupLocationID string            `spanner:"pickup_location_id"`
	BasketSizeID     string            `spanner:"basket_size_id"`
	Capacity         spanner.NullInt64 `spanner:"capacity"`
}
