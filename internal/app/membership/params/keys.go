// Package params holds the organisation parameters that tune the membership rules.
// The set of keys is closed: every key is registered here with its kind and default.
package params

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/pkg/dates"
)

// Key identifies an organisation parameter.
type Key string

const (
	TrialPeriodEnabled                 Key = "trial_period.enabled"
	TrialPeriodDuration                Key = "trial_period.duration"
	TrialPeriodUnit                    Key = "trial_period.unit"
	TrialPeriodCanBeCancelledBeforeEnd Key = "trial_period.can_be_cancelled_before_end"
	ContractStartBufferDays            Key = "subscriptions.contract_start_buffer_days"
	AutomaticSubscriptionRenewal       Key = "subscriptions.automatic_renewal"
	DefaultNoticePeriodMonths          Key = "subscriptions.default_notice_period_months"
	DeliveryDay                        Key = "delivery.day"
	DeliveryChangeWeekdayLimit         Key = "delivery.change_weekday_limit"
	DeliveryFourWeekRhythmStart        Key = "delivery.four_week_rhythm_start"
	PaymentDueDay                      Key = "payment.due_day"
	PickingMode                        Key = "pickup_location.picking_mode"
	SolidarityMode                     Key = "solidarity.mode"
	SolidarityUnit                     Key = "solidarity.unit"
	BaseProductTypeID                  Key = "member.base_product_type_id"
)

// Kind is the value type of a parameter.
type Kind int

const (
	KindBool Kind = iota + 1
	KindInt
	KindString
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type definition struct {
	kind        Kind
	def         string
	description string
	// check, if set, validates a raw value beyond its kind.
	check func(raw string) error
}

var registry = map[Key]definition{
	TrialPeriodEnabled: {
		kind: KindBool, def: "true",
		description: "Neue Verträge beginnen mit einer Probezeit.",
	},
	TrialPeriodDuration: {
		kind: KindInt, def: "4",
		description: "Länge der Probezeit in der konfigurierten Einheit.",
		check:       intRange(0, 52),
	},
	TrialPeriodUnit: {
		kind: KindString, def: "weeks",
		description: "Einheit der Probezeit: weeks oder months.",
		check:       enumCheck(domain.ParseTrialUnit),
	},
	TrialPeriodCanBeCancelledBeforeEnd: {
		kind: KindBool, def: "false",
		description: "Probeverträge können vor Ende der Probezeit gekündigt werden.",
	},
	ContractStartBufferDays: {
		kind: KindInt, def: "0",
		description: "Puffer in Tagen zwischen Änderungsfrist und Vertragsbeginn.",
		check:       intRange(0, 365),
	},
	AutomaticSubscriptionRenewal: {
		kind: KindBool, def: "true",
		description: "Nicht gekündigte Verträge verlängern sich in die nächste Anbauperiode.",
	},
	DefaultNoticePeriodMonths: {
		kind: KindInt, def: "2",
		description: "Kündigungsfrist in Monaten, wenn weder Vertrag noch Anbauperiode eine festlegen.",
		check:       intRange(0, 24),
	},
	DeliveryDay: {
		kind: KindInt, def: "2",
		description: "Liefertag (0 = Montag), falls eine Verteilstation keine Öffnungszeiten hat.",
		check:       intRange(0, 6),
	},
	DeliveryChangeWeekdayLimit: {
		kind: KindInt, def: "6",
		description: "Letzter Wochentag (0 = Montag), an dem Änderungen für die Lieferwoche möglich sind.",
		check:       intRange(0, 6),
	},
	DeliveryFourWeekRhythmStart: {
		kind: KindDate, def: "2025-01-06",
		description: "Eine Woche, in der vierwöchentlich gelieferte Produkte geliefert werden.",
	},
	PaymentDueDay: {
		kind: KindInt, def: "15",
		description: "Tag im Monat, an dem Zahlungen fällig werden.",
		check:       intRange(1, 28),
	},
	PickingMode: {
		kind: KindString, def: "share",
		description: "Kapazität der Verteilstationen nach Anteilen (share) oder Kistengrößen (basket).",
		check:       enumCheck(domain.ParsePickingMode),
	},
	SolidarityMode: {
		kind: KindString, def: "negative_allowed_if_enough_positive",
		description: "Regel für Solidarpreise unterhalb des Richtpreises.",
		check:       enumCheck(domain.ParseSolidarityMode),
	},
	SolidarityUnit: {
		kind: KindString, def: "percent",
		description: "Solidarpreise als Prozent (percent) oder Betrag (absolute).",
		check:       enumCheck(domain.ParseSolidarityUnit),
	},
	BaseProductTypeID: {
		kind: KindString, def: "",
		description: "Produkttyp der Basisanteile, der in jeder Bestellung enthalten sein muss.",
	},
}

// Keys returns all registered keys, sorted.
func Keys() []Key {
	keys := make([]Key, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Lookup returns a key by its stored name; ok is false for unregistered names.
func Lookup(name string) (Key, bool) {
	_, ok := registry[Key(name)]
	return Key(name), ok
}

// Kind returns the value type of k.
func (k Key) Kind() (Kind, error) {
	def, err := k.definition()
	if err != nil {
		return 0, err
	}
	return def.kind, nil
}

// Default returns the raw default of k.
func (k Key) Default() (string, error) {
	def, err := k.definition()
	if err != nil {
		return "", err
	}
	return def.def, nil
}

// Description returns the human readable meaning of k.
func (k Key) Description() string {
	return registry[k].description
}

func (k Key) definition() (definition, error) {
	def, ok := registry[k]
	if !ok {
		return definition{}, fmt.Errorf("%w: %q", domain.ErrUnknownParameter, string(k))
	}
	return def, nil
}

// Validate checks that raw is an acceptable value for k.
func (k Key) Validate(raw string) error {
	def, err := k.definition()
	if err != nil {
		return err
	}
	var perr error
	switch def.kind {
	case KindBool:
		_, perr = strconv.ParseBool(raw)
	case KindInt:
		_, perr = strconv.Atoi(raw)
	case KindDate:
		_, perr = dates.Parse(raw)
	}
	if perr == nil && def.check != nil {
		perr = def.check(raw)
	}
	if perr != nil {
		return fmt.Errorf("%w: %s=%q: %v", domain.ErrInvalidParameterValue, k, raw, perr)
	}
	return nil
}

func intRange(lo, hi int) func(string) error {
	return func(raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func enumCheck[T any](parse func(string) (T, error)) func(string) error {
	return func(raw string) error {
		_, err := parse(raw)
		return err
	}
}
