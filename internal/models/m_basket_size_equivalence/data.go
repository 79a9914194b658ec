package m_basket_size_equivalence

// Data represents the database model for the product_basket_size_equivalences table.
type Data struct {
	ProductID    string `spanner:"product_id"`
	BasketSizeID string `spanner:"basket_size_id"`
	Quantity     int64  `spanner:"quantity"`
}
