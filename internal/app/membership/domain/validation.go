package domain

import (
	"strings"
)

// Constraint names a business rule an order can violate.
type Constraint string

const (
	ConstraintPickupLocationRequired Constraint = "pickup_location_required"
	ConstraintPickupLocationCapacity Constraint = "pickup_location_capacity"
	ConstraintSolidarityPrice        Constraint = "solidarity_price"
	ConstraintProductTypeCapacity    Constraint = "product_type_capacity"
	ConstraintProductCapacity        Constraint = "product_capacity"
	ConstraintSingleSubscriptionOnly Constraint = "single_subscription_only"
	ConstraintMandatoryProductType   Constraint = "mandatory_product_type"
	ConstraintSizeReduction          Constraint = "size_reduction"
)

// Violation is one unmet constraint. Field points at the offending part of the order
// (a product type or product ID, "pickup_location", "solidarity").
type Violation struct {
	Constraint Constraint `json:"constraint"`
	Field      string     `json:"field"`
	Message    string     `json:"message"`
}

// ValidationError collects every violation found while validating an order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "order rejected: " + strings.Join(msgs, "; ")
}

// Add records a violation.
func (e *ValidationError) Add(constraint Constraint, field, message string) {
	e.Violations = append(e.Violations, Violation{Constraint: constraint, Field: field, Message: message})
}

// HasViolations reports whether anything was recorded.
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}

// Has reports whether a violation of the given constraint was recorded.
func (e *ValidationError) Has(constraint Constraint) bool {
	for _, v := range e.Violations {
		if v.Constraint == constraint {
			return true
		}
	}
	return false
}

// ByField groups messages by field.
func (e *ValidationError) ByField() map[string][]string {
	out := make(map[string][]string)
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}

// ErrOrNil returns e as an error if it holds violations, otherwise nil.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || !e.HasViolations() {
		return nil
	}
	return e
}
