package services

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/app/membership/params"
	"github.com/light-bringer/csa-service/internal/app/membership/reqcache"
)

// OrderRequest is an order with the context it is validated in.
type OrderRequest struct {
	Order *domain.Order
	// MemberID is empty for a signup.
	MemberID string
	// PickupLocationID falls back to the member's location at the contract start.
	PickupLocationID  string
	ContractStartDate time.Time
	Solidarity        domain.SolidarityRequest
	CheckWaitingList  bool
	// RequireMandatoryProductTypes demands every must-be-subscribed type in the order.
	RequireMandatoryProductTypes bool
	IsAdmin                      bool
}

// OrderValidator runs every order constraint and collects all violations.
type OrderValidator struct {
	params         params.Provider
	pickupLocation *PickupLocationCapacityChecker
	solidarity     *SolidarityValidator
	global         *GlobalCapacityChecker
	product        *ProductCapacityChecker
	sizeReduction  *SizeReductionValidator
	renewal        *RenewalService
}

// NewOrderValidator creates a new OrderValidator.
func NewOrderValidator(
	p params.Provider,
	pickupLocation *PickupLocationCapacityChecker,
	solidarity *SolidarityValidator,
	global *GlobalCapacityChecker,
	product *ProductCapacityChecker,
	sizeReduction *SizeReductionValidator,
	renewal *RenewalService,
) *OrderValidator {
	return &OrderValidator{
		params:         p,
		pickupLocation: pickupLocation,
		solidarity:     solidarity,
		global:         global,
		product:        product,
		sizeReduction:  sizeReduction,
		renewal:        renewal,
	}
}

// Validate returns a *domain.ValidationError listing every violated constraint, nil if
// the order can be fulfilled, or another error for unknown references and
// configuration defects.
func (v *OrderValidator) Validate(ctx context.Context, rc *reqcache.Cache, req *OrderRequest) error {
	if err := req.Solidarity.Validate(); err != nil {
		return err
	}
	types, err := v.resolveTypes(ctx, rc, req.Order)
	if err != nil {
		return err
	}
	ve := &domain.ValidationError{}
	start := req.ContractStartDate

	// 1. pickup location
	if needsDelivery(types) {
		if err := v.checkPickupLocation(ctx, rc, req, ve); err != nil {
			return err
		}
	}

	// 2. solidarity price
	if err := v.checkSolidarity(ctx, rc, req, ve); err != nil {
		return err
	}

	// 3. per product type capacity
	checks, err := v.global.CheckOrder(ctx, rc, req.Order, req.MemberID, start, req.CheckWaitingList)
	if err != nil {
		return err
	}
	for _, c := range checks {
		if c.Enough {
			continue
		}
		ve.Add(domain.ConstraintProductTypeCapacity, c.ProductTypeID, fmt.Sprintf(
			"Für %s ist nicht mehr genug Kapazität frei (frei: %s, benötigt: %s).",
			types[c.ProductTypeID].Name, c.Free, c.Needed()))
	}

	// 3b. flat product capacity
	for _, line := range req.Order.Lines() {
		ok, err := v.product.DoesProductHaveEnoughFreeCapacity(ctx, rc, line.ProductID, line.Quantity, start, req.MemberID)
		if err != nil {
			return err
		}
		if !ok {
			p, err := rc.Product(ctx, line.ProductID)
			if err != nil {
				return err
			}
			ve.Add(domain.ConstraintProductCapacity, line.ProductID, fmt.Sprintf(
				"Vom Produkt %s sind nicht mehr %d Einheiten verfügbar.", p.Name, line.Quantity))
		}
	}

	// 4. single subscription only
	totals, typeOrder, err := v.quantitiesByType(ctx, rc, req.Order)
	if err != nil {
		return err
	}
	for _, typeID := range typeOrder {
		if types[typeID].SingleSubscriptionOnly && totals[typeID] > 1 {
			ve.Add(domain.ConstraintSingleSubscriptionOnly, typeID, fmt.Sprintf(
				"Von %s kann höchstens ein Anteil bestellt werden.", types[typeID].Name))
		}
	}

	// 5. mandatory product types
	if req.RequireMandatoryProductTypes {
		if err := v.checkMandatoryTypes(ctx, rc, req, types, ve); err != nil {
			return err
		}
	}

	// 6. no size reduction during a running contract
	for _, typeID := range typeOrder {
		ok, err := v.sizeReduction.ValidateCannotReduceSize(ctx, rc, req.IsAdmin, req.MemberID, typeID, req.Order, start)
		if err != nil {
			return err
		}
		if !ok {
			ve.Add(domain.ConstraintSizeReduction, typeID, fmt.Sprintf(
				"Während der laufenden Anbauperiode kann %s nicht verkleinert werden.", types[typeID].Name))
		}
	}

	return ve.ErrOrNil()
}

func (v *OrderValidator) resolveTypes(ctx context.Context, rc *reqcache.Cache, order *domain.Order) (map[string]*domain.ProductType, error) {
	types := make(map[string]*domain.ProductType)
	for _, id := range order.ProductIDs() {
		p, err := rc.Product(ctx, id)
		if err != nil {
			return nil, err
		}
		if p.Deleted {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		pt, err := rc.ProductType(ctx, p.TypeID)
		if err != nil {
			return nil, err
		}
		types[pt.ID] = pt
	}
	return types, nil
}

func needsDelivery(types map[string]*domain.ProductType) bool {
	for _, pt := range types {
		if pt.NeedsDelivery() {
			return true
		}
	}
	return false
}

func (v *OrderValidator) quantitiesByType(ctx context.Context, rc *reqcache.Cache, order *domain.Order) (map[string]int, []string, error) {
	totals := make(map[string]int)
	var typeIDs []string
	for _, line := range order.Lines() {
		p, err := rc.Product(ctx, line.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := totals[p.TypeID]; !seen {
			typeIDs = append(typeIDs, p.TypeID)
		}
		totals[p.TypeID] += line.Quantity
	}
	return totals, typeIDs, nil
}

func (v *OrderValidator) checkPickupLocation(ctx context.Context, rc *reqcache.Cache, req *OrderRequest, ve *domain.ValidationError) error {
	locationID := req.PickupLocationID
	if locationID == "" && req.MemberID != "" {
		id, ok, err := rc.MemberPickupLocationAt(ctx, req.MemberID, req.ContractStartDate)
		if err != nil {
			return err
		}
		if ok {
			locationID = id
		}
	}
	if locationID == "" {
		ve.Add(domain.ConstraintPickupLocationRequired, "pickup_location",
			"Bitte wähle eine Verteilstation aus.")
		return nil
	}
	location, err := rc.PickupLocation(ctx, locationID)
	if err != nil {
		return err
	}
	ok, err := v.pickupLocation.CheckCapacity(ctx, rc, locationID, req.Order, req.MemberID, req.ContractStartDate)
	if err != nil {
		return err
	}
	if !ok {
		ve.Add(domain.ConstraintPickupLocationCapacity, "pickup_location", fmt.Sprintf(
			"Die Verteilstation %s hat nicht mehr genug Kapazität für diese Bestellung.", location.Name))
	}
	return nil
}

func (v *OrderValidator) checkSolidarity(ctx context.Context, rc *reqcache.Cache, req *OrderRequest, ve *domain.ValidationError) error {
	ok, err := v.solidarity.AcceptsUnit(ctx, req.Solidarity)
	if err != nil {
		return err
	}
	if !ok {
		ve.Add(domain.ConstraintSolidarityPrice, "solidarity",
			"Der Solidarbeitrag ist in einer nicht unterstützten Einheit angegeben.")
		return nil
	}
	ok, err = v.solidarity.IsSolidarityRequestAllowed(ctx, rc, req.Order, req.Solidarity, req.MemberID, req.ContractStartDate)
	if err != nil {
		return err
	}
	if !ok {
		ve.Add(domain.ConstraintSolidarityPrice, "solidarity",
			"Der gewählte Solidarbeitrag ist leider nicht möglich, da nicht genug Solidarbeiträge vorhanden sind.")
	}
	return nil
}

func (v *OrderValidator) checkMandatoryTypes(ctx context.Context, rc *reqcache.Cache, req *OrderRequest, ordered map[string]*domain.ProductType, ve *domain.ValidationError) error {
	all, err := rc.ProductTypes(ctx)
	if err != nil {
		return err
	}
	baseTypeID, err := v.params.String(ctx, params.BaseProductTypeID)
	if err != nil {
		return err
	}
	for _, pt := range all {
		if !pt.MustBeSubscribedTo && pt.ID != baseTypeID {
			continue
		}
		if _, ok := ordered[pt.ID]; ok {
			continue
		}
		if req.MemberID != "" {
			held, err := subscriptionsOfType(ctx, rc, v.renewal, pt.ID, req.ContractStartDate, ForMember(req.MemberID))
			if err != nil {
				return err
			}
			if len(held) > 0 {
				continue
			}
		}
		ve.Add(domain.ConstraintMandatoryProductType, pt.ID, fmt.Sprintf(
			"%s muss in jeder Bestellung enthalten sein.", pt.Name))
	}
	return nil
}
