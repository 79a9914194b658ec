package m_product

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID     string            `spanner:"product_id"`
	ProductTypeID string            `spanner:"product_type_id"`
	Name          string            `spanner:"name"`
	Capacity      spanner.NullInt64 `spanner:"capacity"`
	Deleted       bool              `spanner:"deleted"`
}
