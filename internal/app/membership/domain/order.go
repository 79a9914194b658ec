package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderLine is a requested quantity of one product.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order maps products to requested quantities. It is built from a shopping cart and
// never persisted. Lines with zero quantity are dropped; each product appears once.
type Order struct {
	quantities map[string]int
	productIDs []string
}

// NewOrder builds an order from cart lines.
func NewOrder(lines []OrderLine) (*Order, error) {
	o := &Order{quantities: make(map[string]int, len(lines))}
	for _, l := range lines {
		if l.Quantity < 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, l.ProductID)
		}
		if _, seen := o.quantities[l.ProductID]; seen {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOrderLine, l.ProductID)
		}
		if l.Quantity == 0 {
			continue
		}
		o.quantities[l.ProductID] = l.Quantity
		o.productIDs = append(o.productIDs, l.ProductID)
	}
	return o, nil
}

// MustNewOrder is NewOrder for literals in tests and fixtures.
func MustNewOrder(lines ...OrderLine) *Order {
	o, err := NewOrder(lines)
	if err != nil {
		panic(err)
	}
	return o
}

// Quantity returns the ordered quantity of a product, 0 if absent.
func (o *Order) Quantity(productID string) int { return o.quantities[productID] }

// Contains reports whether the product is ordered.
func (o *Order) Contains(productID string) bool {
	_, ok := o.quantities[productID]
	return ok
}

// ProductIDs lists the ordered products in cart order.
func (o *Order) ProductIDs() []string {
	out := make([]string, len(o.productIDs))
	copy(out, o.productIDs)
	return out
}

// Lines returns the non-zero order lines in cart order.
func (o *Order) Lines() []OrderLine {
	lines := make([]OrderLine, 0, len(o.productIDs))
	for _, id := range o.productIDs {
		lines = append(lines, OrderLine{ProductID: id, Quantity: o.quantities[id]})
	}
	return lines
}

// IsEmpty reports whether nothing is ordered.
func (o *Order) IsEmpty() bool { return len(o.productIDs) == 0 }

// SolidarityRequest is the price adjustment a member asks for. At most one of the
// two fields is set; nil for both means standard price.
type SolidarityRequest struct {
	Percentage *decimal.Decimal
	Absolute   *Money
}

// Validate rejects requests carrying both forms.
func (r SolidarityRequest) Validate() error {
	if r.Percentage != nil && r.Absolute != nil {
		return ErrBothSolidarityPrices
	}
	return nil
}

// IsNegative reports whether the member asks to pay below standard price.
func (r SolidarityRequest) IsNegative() bool {
	if r.Percentage != nil {
		return r.Percentage.IsNegative()
	}
	if r.Absolute != nil {
		return r.Absolute.IsNegative()
	}
	return false
}

// HasAdjustment reports whether any solidarity value is set.
func (r SolidarityRequest) HasAdjustment() bool {
	return r.Percentage != nil || r.Absolute != nil
}
