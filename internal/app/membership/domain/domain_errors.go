package domain

import "errors"

// Domain errors as sentinel values
var (
	// Not found
	ErrProductNotFound        = errors.New("product not found")
	ErrProductTypeNotFound    = errors.New("product type not found")
	ErrPickupLocationNotFound = errors.New("pickup location not found")
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrNoProductPrice         = errors.New("product has no price")

	// Configuration
	ErrUnknownParameter       = errors.New("unknown parameter key")
	ErrInvalidParameterValue  = errors.New("invalid parameter value")
	ErrUnknownDeliveryCycle   = errors.New("unknown delivery cycle")
	ErrUnknownPickingMode     = errors.New("unknown picking mode")
	ErrUnknownSolidarityMode  = errors.New("unknown solidarity mode")
	ErrUnknownSolidarityUnit  = errors.New("unknown solidarity unit")
	ErrUnknownTrialUnit       = errors.New("unknown trial period unit")
	ErrCycleNeverDelivers     = errors.New("delivery cycle never delivers")
	ErrNoContractStartInReach = errors.New("no possible contract start date found")

	// Subscription
	ErrInvalidQuantity        = errors.New("subscription quantity must be positive")
	ErrInvalidSubscriptionEnd = errors.New("subscription end date must not be before its start date")
	ErrBothSolidarityPrices   = errors.New("solidarity price can be given as percentage or absolute, not both")
	ErrAlreadyCancelled       = errors.New("subscription is already cancelled")
	ErrNotInTrial             = errors.New("subscription has no trial period")

	// Order
	ErrDuplicateOrderLine   = errors.New("product ordered more than once")
	ErrEmptyOrder           = errors.New("order contains no products")
	ErrInvalidContractStart = errors.New("contract cannot start on this date")
)

// IsNotFound reports whether err signals a missing resource rather than a rejected request.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrProductTypeNotFound) ||
		errors.Is(err, ErrPickupLocationNotFound) ||
		errors.Is(err, ErrSubscriptionNotFound)
}

// IsConfigurationError reports whether err stems from a deployment or parameter defect.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnknownParameter) ||
		errors.Is(err, ErrInvalidParameterValue) ||
		errors.Is(err, ErrUnknownDeliveryCycle) ||
		errors.Is(err, ErrUnknownPickingMode) ||
		errors.Is(err, ErrUnknownSolidarityMode) ||
		errors.Is(err, ErrUnknownSolidarityUnit) ||
		errors.Is(err, ErrUnknownTrialUnit) ||
		errors.Is(err, ErrCycleNeverDelivers)
}
