package domain

import (
	"sort"
	"time"
)

// WaitingListProductWish is a product a waiting-list entry asks for.
type WaitingListProductWish struct {
	ProductID string
	Quantity  int
}

// WaitingListPickupLocationWish is a preferred location; lower priority is preferred.
type WaitingListPickupLocationWish struct {
	PickupLocationID string
	Priority         int
}

// WaitingListEntry reserves future capacity for a person (an existing member or a
// prospective one when MemberID is empty).
type WaitingListEntry struct {
	ID                   string
	MemberID             string
	CreatedAt            time.Time
	ProductWishes        []WaitingListProductWish
	PickupLocationWishes []WaitingListPickupLocationWish
}

// PreferredPickupLocationID returns the top-priority location wish, or "".
func (e *WaitingListEntry) PreferredPickupLocationID() string {
	if len(e.PickupLocationWishes) == 0 {
		return ""
	}
	wishes := make([]WaitingListPickupLocationWish, len(e.PickupLocationWishes))
	copy(wishes, e.PickupLocationWishes)
	sort.SliceStable(wishes, func(i, j int) bool { return wishes[i].Priority < wishes[j].Priority })
	return wishes[0].PickupLocationID
}
