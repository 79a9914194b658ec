// Package memstore is an in-memory implementation of the membership store and its
// write-side repositories. It backs tests and the server's demo mode.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/csa-service/internal/app/membership/contracts"
	"github.com/light-bringer/csa-service/internal/app/membership/domain"
	"github.com/light-bringer/csa-service/internal/models/m_subscription"
	"github.com/light-bringer/csa-service/internal/pkg/committer"
)

// Store holds every table in memory. Reads are counted per table so tests can assert
// how often the request cache went to the store.
type Store struct {
	mu sync.RWMutex

	productTypes           []*domain.ProductType
	products               []*domain.Product
	prices                 []*domain.ProductPrice
	productCapacities      []*domain.ProductCapacity
	growingPeriods         []*domain.GrowingPeriod
	noticePeriods          []*domain.NoticePeriod
	subscriptions          map[string]domain.SubscriptionData
	pickupLocations        []*domain.PickupLocation
	openingTimes           []*domain.PickupLocationOpeningTime
	capabilities           []*domain.PickupLocationCapability
	basketCapacities       []*domain.PickupLocationBasketCapacity
	basketSizeEquivalences []*domain.ProductBasketSizeEquivalence
	memberPickupLocations  []*domain.MemberPickupLocation
	waitingList            []*domain.WaitingListEntry
	parameters             map[string]string
	outbox                 []*contracts.OutboxEvent

	loads   map[string]int
	pending map[*spanner.Mutation]func()
}

// New creates an empty store.
func New() *Store {
	return &Store{
		subscriptions: make(map[string]domain.SubscriptionData),
		parameters:    make(map[string]string),
		loads:         make(map[string]int),
		pending:       make(map[*spanner.Mutation]func()),
	}
}

// Table names used for load counting.
const (
	TableProductTypes           = "product_types"
	TableProducts               = "products"
	TableProductPrices          = "product_prices"
	TableProductCapacities      = "product_capacities"
	TableGrowingPeriods         = "growing_periods"
	TableNoticePeriods          = "notice_periods"
	TableSubscriptions          = "subscriptions"
	TablePickupLocations        = "pickup_locations"
	TableOpeningTimes           = "pickup_location_opening_times"
	TableCapabilities           = "pickup_location_capabilities"
	TableBasketCapacities       = "pickup_location_basket_capacities"
	TableBasketSizeEquivalences = "product_basket_size_equivalences"
	TableMemberPickupLocations  = "member_pickup_locations"
	TableWaitingList            = "waiting_list_entries"
	TableParameters             = "parameters"
)

// Loads returns how many times a table was listed.
func (s *Store) Loads(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads[table]
}

// ResetLoads zeroes all load counters.
func (s *Store) ResetLoads() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads = make(map[string]int)
}

func list[T any](s *Store, table string, rows *[]*T) []*T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads[table]++
	out := make([]*T, len(*rows))
	for i, r := range *rows {
		c := *r
		out[i] = &c
	}
	return out
}

// Seeding

func (s *Store) AddProductType(pt *domain.ProductType) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productTypes = append(s.productTypes, pt)
	return s
}

func (s *Store) AddProduct(p *domain.Product) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	return s
}

func (s *Store) AddProductPrice(p *domain.ProductPrice) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.prices = append(s.prices, p)
	return s
}

func (s *Store) AddProductCapacity(pc *domain.ProductCapacity) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pc.ID == "" {
		pc.ID = uuid.New().String()
	}
	s.productCapacities = append(s.productCapacities, pc)
	return s
}

// AddGrowingPeriod adds a period; it fails if the period overlaps an existing one.
func (s *Store) AddGrowingPeriod(gp *domain.GrowingPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !domain.ValidateNoOverlap(s.growingPeriods, gp) {
		return fmt.Errorf("growing period %s overlaps an existing period", gp.ID)
	}
	s.growingPeriods = append(s.growingPeriods, gp)
	return nil
}

func (s *Store) AddNoticePeriod(np *domain.NoticePeriod) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noticePeriods = append(s.noticePeriods, np)
	return s
}

// AddSubscription stores a subscription as is.
func (s *Store) AddSubscription(d domain.SubscriptionData) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	s.subscriptions[d.ID] = d
	return s
}

func (s *Store) AddPickupLocation(pl *domain.PickupLocation) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickupLocations = append(s.pickupLocations, pl)
	return s
}

func (s *Store) AddOpeningTime(ot *domain.PickupLocationOpeningTime) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openingTimes = append(s.openingTimes, ot)
	return s
}

func (s *Store) AddCapability(c *domain.PickupLocationCapability) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capabilities = append(s.capabilities, c)
	return s
}

func (s *Store) AddBasketCapacity(c *domain.PickupLocationBasketCapacity) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basketCapacities = append(s.basketCapacities, c)
	return s
}

func (s *Store) AddBasketSizeEquivalence(e *domain.ProductBasketSizeEquivalence) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.basketSizeEquivalences = append(s.basketSizeEquivalences, e)
	return s
}

func (s *Store) AddMemberPickupLocation(m *domain.MemberPickupLocation) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberPickupLocations = append(s.memberPickupLocations, m)
	return s
}

func (s *Store) AddWaitingListEntry(e *domain.WaitingListEntry) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	s.waitingList = append(s.waitingList, e)
	return s
}

// SetParameter stores a raw organisation parameter value.
func (s *Store) SetParameter(key, value string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parameters[key] = value
	return s
}

// contracts.Store

func (s *Store) ListProductTypes(context.Context) ([]*domain.ProductType, error) {
	return list(s, TableProductTypes, &s.productTypes), nil
}

func (s *Store) ListProducts(context.Context) ([]*domain.Product, error) {
	return list(s, TableProducts, &s.products), nil
}

func (s *Store) ListProductPrices(context.Context) ([]*domain.ProductPrice, error) {
	return list(s, TableProductPrices, &s.prices), nil
}

func (s *Store) ListProductCapacities(context.Context) ([]*domain.ProductCapacity, error) {
	return list(s, TableProductCapacities, &s.productCapacities), nil
}

func (s *Store) ListGrowingPeriods(context.Context) ([]*domain.GrowingPeriod, error) {
	return list(s, TableGrowingPeriods, &s.growingPeriods), nil
}

func (s *Store) ListNoticePeriods(context.Context) ([]*domain.NoticePeriod, error) {
	return list(s, TableNoticePeriods, &s.noticePeriods), nil
}

func (s *Store) ListPickupLocations(context.Context) ([]*domain.PickupLocation, error) {
	return list(s, TablePickupLocations, &s.pickupLocations), nil
}

func (s *Store) ListPickupLocationOpeningTimes(context.Context) ([]*domain.PickupLocationOpeningTime, error) {
	return list(s, TableOpeningTimes, &s.openingTimes), nil
}

func (s *Store) ListPickupLocationCapabilities(context.Context) ([]*domain.PickupLocationCapability, error) {
	return list(s, TableCapabilities, &s.capabilities), nil
}

func (s *Store) ListPickupLocationBasketCapacities(context.Context) ([]*domain.PickupLocationBasketCapacity, error) {
	return list(s, TableBasketCapacities, &s.basketCapacities), nil
}

func (s *Store) ListProductBasketSizeEquivalences(context.Context) ([]*domain.ProductBasketSizeEquivalence, error) {
	return list(s, TableBasketSizeEquivalences, &s.basketSizeEquivalences), nil
}

func (s *Store) ListMemberPickupLocations(context.Context) ([]*domain.MemberPickupLocation, error) {
	return list(s, TableMemberPickupLocations, &s.memberPickupLocations), nil
}

func (s *Store) ListWaitingListEntries(context.Context) ([]*domain.WaitingListEntry, error) {
	return list(s, TableWaitingList, &s.waitingList), nil
}

// ListSubscriptions returns fresh aggregates ordered by start date, then ID.
func (s *Store) ListSubscriptions(context.Context) ([]*domain.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads[TableSubscriptions]++
	out := make([]*domain.Subscription, 0, len(s.subscriptions))
	for _, d := range s.subscriptions {
		out = append(out, domain.ReconstructSubscription(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate().Equal(out[j].StartDate()) {
			return out[i].StartDate().Before(out[j].StartDate())
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

// LoadParameters implements params.Source.
func (s *Store) LoadParameters(context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads[TableParameters]++
	out := make(map[string]string, len(s.parameters))
	for k, v := range s.parameters {
		out[k] = v
	}
	return out, nil
}

// Subscription returns the stored data of a subscription.
func (s *Store) Subscription(id string) (domain.SubscriptionData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.subscriptions[id]
	return d, ok
}

// OutboxEvents returns the committed outbox events in commit order.
func (s *Store) OutboxEvents() []*contracts.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*contracts.OutboxEvent, len(s.outbox))
	copy(out, s.outbox)
	return out
}

// Apply commits a plan built from this store's repositories. All mutations must
// originate from them; the plan is applied all-or-nothing.
func (s *Store) Apply(_ context.Context, plan *committer.CommitPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(plan)
}

// ApplyWithVersionCheck applies the plan if the subscription at key still has
// expectedVersion. Only the subscriptions table carries versions.
func (s *Store) ApplyWithVersionCheck(_ context.Context, table string, key spanner.Key, expectedVersion int64, plan *committer.CommitPlan) error {
	if table != m_subscription.TableName || len(key) != 1 {
		return fmt.Errorf("version check on %s is not supported by the in-memory store", table)
	}
	id, ok := key[0].(string)
	if !ok {
		return fmt.Errorf("invalid subscription key %v", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, found := s.subscriptions[id]
	if !found {
		return fmt.Errorf("failed to read %s version: %w", table, domain.ErrSubscriptionNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("%w: expected version %d, got %d", committer.ErrVersionConflict, expectedVersion, stored.Version)
	}
	return s.applyLocked(plan)
}

func (s *Store) applyLocked(plan *committer.CommitPlan) error {
	ops := make([]func(), 0, plan.Count())
	for _, m := range plan.Mutations() {
		op, ok := s.pending[m]
		if !ok {
			return fmt.Errorf("mutation was not created by the in-memory store")
		}
		ops = append(ops, op)
	}
	for i, op := range ops {
		op()
		delete(s.pending, plan.Mutations()[i])
	}
	return nil
}

var _ contracts.Store = (*Store)(nil)
var _ contracts.PlanApplier = (*Store)(nil)
