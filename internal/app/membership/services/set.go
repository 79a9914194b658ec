package services

import (
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
)

// Set is every calculator and validator wired over one parameter provider and clock.
type Set struct {
	Delivery            *DeliveryCalculator
	ContractStart       *ContractStartCalculator
	PaymentDue          *PaymentDueDateCalculator
	Trial               *TrialManager
	Renewal             *RenewalService
	ProductTypeCapacity *ProductTypeCapacityCalculator
	ProductCapacity     *ProductCapacityChecker
	PickupLocation      *PickupLocationCapacityChecker
	GlobalCapacity      *GlobalCapacityChecker
	Solidarity          *SolidarityValidator
	SizeReduction       *SizeReductionValidator
	OrderValidator      *OrderValidator
}

// NewSet wires a Set.
func NewSet(p params.Provider, clk clock.Clock) *Set {
	s := &Set{}
	s.Delivery = NewDeliveryCalculator(p)
	s.ContractStart = NewContractStartCalculator(p, s.Delivery, clk)
	s.PaymentDue = NewPaymentDueDateCalculator(p)
	s.Trial = NewTrialManager(p, s.Delivery, clk)
	s.Renewal = NewRenewalService(p, s.Trial, clk)
	s.ProductTypeCapacity = NewProductTypeCapacityCalculator(s.Renewal)
	s.ProductCapacity = NewProductCapacityChecker(s.Renewal)
	s.PickupLocation = NewPickupLocationCapacityChecker(p, s.Renewal)
	s.GlobalCapacity = NewGlobalCapacityChecker(s.Renewal, s.ProductTypeCapacity)
	s.Solidarity = NewSolidarityValidator(p)
	s.SizeReduction = NewSizeReductionValidator()
	s.OrderValidator = NewOrderValidator(p, s.PickupLocation, s.Solidarity, s.GlobalCapacity,
		s.ProductCapacity, s.SizeReduction, s.Renewal)
	return s
}
