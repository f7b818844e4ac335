package orders

import (
	"errors"
	"testing"
)

var allStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusOutForDelivery,
	StatusDelivered,
	StatusPickedUp,
	StatusCancelled,
	StatusRejected,
}

// allowed lists every legal edge; every pair not present here must be
// rejected. Checked exhaustively over all 9x9 combinations below.
var allowed = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:        {StatusConfirmed: true, StatusRejected: true},
	StatusConfirmed:      {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing:      {StatusReadyForPickup: true, StatusOutForDelivery: true, StatusCancelled: true},
	StatusReadyForPickup: {StatusPickedUp: true, StatusCancelled: true},
	StatusOutForDelivery: {StatusDelivered: true, StatusCancelled: true},
}

func TestCanTransition_AllPairs(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := CanTransition(from, to)
			if allowed[from][to] {
				if err != nil {
					t.Errorf("%s -> %s: expected allowed, got %v", from, to, err)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("%s -> %s: expected ErrInvalidTransition, got %v", from, to, err)
			}
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	if err := CanTransition(StatusPending, OrderStatus("SHIPPED")); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus for unknown target, got %v", err)
	}
	if err := CanTransition(OrderStatus("bogus"), StatusPending); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus for unknown source, got %v", err)
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminals := map[OrderStatus]bool{
		StatusDelivered: true,
		StatusPickedUp:  true,
		StatusCancelled: true,
		StatusRejected:  true,
	}
	for _, s := range allStatuses {
		if got := IsTerminal(s); got != terminals[s] {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, terminals[s])
		}
		if terminals[s] && len(AllowedNext(s)) != 0 {
			t.Errorf("terminal status %s has outgoing transitions", s)
		}
	}
}

func TestIsTerminalSuccess(t *testing.T) {
	for _, s := range allStatuses {
		want := s == StatusDelivered || s == StatusPickedUp
		if got := IsTerminalSuccess(s); got != want {
			t.Errorf("IsTerminalSuccess(%s) = %v, want %v", s, got, want)
		}
	}
}
