package m_waiting_list_product_wish

// Data represents the database model for the waiting_list_product_wishes table.
type Data struct {
	EntryID   string `spanner:"entry_id"`
	ProductID string `spanner:"product_id"`
	Quantity  int64  `spanner:"quantity"`
}
