package m_product_capacity

import (
	"math/big"
)

// Data represents the database model for the product_capacities table.
type Data struct {
	ProductCapacityID string  `spanner:"product_capacity_id"`
	ProductTypeID     string  `spanner:"product_type_id"`
	PeriodID          string  `spanner:"period_id"`
	Capacity          big.Rat `spanner:"capacity"`
}
