package models

// ItemStatus gates item visibility and swap eligibility. Listings start
// pending and only an admin decision makes them available.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemAvailable ItemStatus = "available"
	ItemSwapped   ItemStatus = "swapped"
	ItemRejected  ItemStatus = "rejected"
)

// itemTransitions is the single authoritative transition table for items.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemPending:   {ItemAvailable, ItemRejected},
	ItemAvailable: {ItemSwapped},
}

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemAvailable, ItemSwapped, ItemRejected:
		return true
	}
	return false
}

// CanTransition reports whether moving from s to next is allowed.
func (s ItemStatus) CanTransition(next ItemStatus) bool {
	for _, allowed := range itemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SwapStatus tracks the lifecycle of an exchange request. Pending is the
// only non-terminal state; cancellation deletes the row instead.
type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapAccepted SwapStatus = "accepted"
	SwapRejected SwapStatus = "rejected"
)

func (s SwapStatus) Valid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected:
		return true
	}
	return false
}

// Terminal reports whether the swap can no longer change state.
func (s SwapStatus) Terminal() bool {
	return s == SwapAccepted || s == SwapRejected
}

// SwapType distinguishes a two-way swap from a point-based redemption.
type SwapType string

const (
	TypeSwap   SwapType = "swap"
	TypeRedeem SwapType = "redeem"
)

func (t SwapType) Valid() bool {
	return t == TypeSwap || t == TypeRedeem
}

// Wishlist priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
