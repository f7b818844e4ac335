package orders

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// nextStatus is the full transition table. An order may only move to a
// status listed for its current one; terminal statuses have no entries.
var nextStatus = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusRejected},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReadyForPickup, StatusOutForDelivery, StatusCancelled},
	StatusReadyForPickup: {StatusPickedUp, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusPickedUp:       {},
	StatusCancelled:      {},
	StatusRejected:       {},
}

// ValidStatus reports whether s is one of the defined statuses.
func ValidStatus(s OrderStatus) bool {
	_, ok := nextStatus[s]
	return ok
}

// AllowedNext returns the statuses reachable from the given one in one step.
func AllowedNext(from OrderStatus) []OrderStatus {
	return nextStatus[from]
}

// IsTerminal reports whether the status has no outgoing transitions.
func IsTerminal(s OrderStatus) bool {
	allowed, ok := nextStatus[s]
	return ok && len(allowed) == 0
}

// IsTerminalSuccess reports whether the order reached the customer.
// Used as the criterion for counting realized sales.
func IsTerminalSuccess(s OrderStatus) bool {
	return s == StatusDelivered || s == StatusPickedUp
}

// CanTransition validates a single-step transition against the table.
// It returns ErrUnknownStatus if either side is not a defined status and
// ErrInvalidTransition if the edge is not in the table.
func CanTransition(from, to OrderStatus) error {
	if !ValidStatus(to) {
		return ErrUnknownStatus
	}
	allowed, ok := nextStatus[from]
	if !ok {
		return ErrUnknownStatus
	}
	for _, s := range allowed {
		if s == to {
			return nil
		}
	}
	return ErrInvalidTransition
}
