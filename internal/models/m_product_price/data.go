package m_product_price

import (
	"math/big"

	"cloud.google.com/go/civil"
)

// Data represents the database model for the product_prices table.
type Data struct {
	ProductPriceID string     `spanner:"product_price_id"`
	ProductID      string     `spanner:"product_id"`
	Price          big.Rat    `spanner:"price"`
	Size           big.Rat    `spanner:"size"`
	ValidFrom      civil.Date `spanner:"valid_from"`
}
