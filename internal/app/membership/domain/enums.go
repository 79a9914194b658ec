package domain

import "fmt"

// DeliveryCycle says in which weeks products of a type are delivered.
type DeliveryCycle int

const (
	NoDelivery DeliveryCycle = iota + 1
	Weekly
	EveryFourWeeks
	EvenWeeks
	OddWeeks
)

var deliveryCycleNames = map[DeliveryCycle]string{
	NoDelivery:     "no_delivery",
	Weekly:         "weekly",
	EveryFourWeeks: "every_four_weeks",
	EvenWeeks:      "even_weeks",
	OddWeeks:       "odd_weeks",
}

// AllDeliveryCycles lists the cycles in reporting order.
var AllDeliveryCycles = []DeliveryCycle{Weekly, EvenWeeks, OddWeeks, EveryFourWeeks, NoDelivery}

// ParseDeliveryCycle parses a stored tag.
func ParseDeliveryCycle(s string) (DeliveryCycle, error) {
	for c, name := range deliveryCycleNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDeliveryCycle, s)
}

func (c DeliveryCycle) String() string {
	if name, ok := deliveryCycleNames[c]; ok {
		return name
	}
	return fmt.Sprintf("DeliveryCycle(%d)", int(c))
}

// Valid reports whether c is one of the declared cycles.
func (c DeliveryCycle) Valid() bool {
	_, ok := deliveryCycleNames[c]
	return ok
}

// PickingMode selects how pickup-location capacity is modelled.
type PickingMode int

const (
	PickingModeShare PickingMode = iota + 1
	PickingModeBasket
)

// ParsePickingMode parses "share" or "basket".
func ParsePickingMode(s string) (PickingMode, error) {
	switch s {
	case "share":
		return PickingModeShare, nil
	case "basket":
		return PickingModeBasket, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPickingMode, s)
}

func (m PickingMode) String() string {
	switch m {
	case PickingModeShare:
		return "share"
	case PickingModeBasket:
		return "basket"
	}
	return fmt.Sprintf("PickingMode(%d)", int(m))
}

// SolidarityMode controls whether members may pay below the standard price.
type SolidarityMode int

const (
	SolidarityOnlyPositive SolidarityMode = iota + 1
	SolidarityNegativeAlwaysAllowed
	SolidarityNegativeAllowedIfEnoughPositive
)

// ParseSolidarityMode parses a stored tag.
func ParseSolidarityMode(s string) (SolidarityMode, error) {
	switch s {
	case "only_positive":
		return SolidarityOnlyPositive, nil
	case "negative_always_allowed":
		return SolidarityNegativeAlwaysAllowed, nil
	case "negative_allowed_if_enough_positive":
		return SolidarityNegativeAllowedIfEnoughPositive, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSolidarityMode, s)
}

func (m SolidarityMode) String() string {
	switch m {
	case SolidarityOnlyPositive:
		return "only_positive"
	case SolidarityNegativeAlwaysAllowed:
		return "negative_always_allowed"
	case SolidarityNegativeAllowedIfEnoughPositive:
		return "negative_allowed_if_enough_positive"
	}
	return fmt.Sprintf("SolidarityMode(%d)", int(m))
}

// SolidarityUnit is how solidarity contributions are entered.
type SolidarityUnit int

const (
	SolidarityUnitPercent SolidarityUnit = iota + 1
	SolidarityUnitAbsolute
)

// ParseSolidarityUnit parses "percent" or "absolute".
func ParseSolidarityUnit(s string) (SolidarityUnit, error) {
	switch s {
	case "percent":
		return SolidarityUnitPercent, nil
	case "absolute":
		return SolidarityUnitAbsolute, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSolidarityUnit, s)
}

func (u SolidarityUnit) String() string {
	switch u {
	case SolidarityUnitPercent:
		return "percent"
	case SolidarityUnitAbsolute:
		return "absolute"
	}
	return fmt.Sprintf("SolidarityUnit(%d)", int(u))
}

// TrialUnit is the unit of the trial period duration.
type TrialUnit int

const (
	TrialUnitWeeks TrialUnit = iota + 1
	TrialUnitMonths
)

// ParseTrialUnit parses "weeks" or "months".
func ParseTrialUnit(s string) (TrialUnit, error) {
	switch s {
	case "weeks":
		return TrialUnitWeeks, nil
	case "months":
		return TrialUnitMonths, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrialUnit, s)
}

func (u TrialUnit) String() string {
	switch u {
	case TrialUnitWeeks:
		return "weeks"
	case TrialUnitMonths:
		return "months"
	}
	return fmt.Sprintf("TrialUnit(%d)", int(u))
}

// TrialState is the derived trial classification of a subscription.
type TrialState int

const (
	TrialNotApplicable TrialState = iota + 1
	TrialInProgress
	TrialEnded
)

func (s TrialState) String() string {
	switch s {
	case TrialNotApplicable:
		return "not_applicable"
	case TrialInProgress:
		return "in_trial"
	case TrialEnded:
		return "trial_ended"
	}
	return fmt.Sprintf("TrialState(%d)", int(s))
}
