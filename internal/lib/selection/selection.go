package selection

import (
	"errors"

	"github.com/google/uuid"

	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

// ErrNothingSelected is returned when booking is requested with no legs selected
var ErrNothingSelected = errors.New("no legs selected for booking")

// State is the set of legs chosen for booking, in selection order.
// Operations return a new State and never modify the one passed in.
type State struct {
	Selected []itinerary.RawLeg `json:"selectedLegs"`
	Amount   float64            `json:"amount"`
}

// BookingRequest is handed to the booking screen when the user confirms
type BookingRequest struct {
	Reference    string             `json:"reference"`
	SelectedLegs []itinerary.RawLeg `json:"selectedLegs"`
	Amount       float64            `json:"amount"`
}

// Toggle adds the leg if it is not selected and removes it if it is.
// Walking legs are never selectable and leave the state unchanged.
func Toggle(leg itinerary.RawLeg, state State) State {
	if !leg.ParsedMode().Bookable() {
		return state
	}

	key := leg.Key()
	next := State{
		Selected: make([]itinerary.RawLeg, 0, len(state.Selected)+1),
		Amount:   state.Amount,
	}

	removed := false
	for _, selected := range state.Selected {
		if selected.Key() == key {
			removed = true
			continue
		}
		next.Selected = append(next.Selected, selected)
	}
	if !removed {
		next.Selected = append(next.Selected, leg)
	}
	if len(next.Selected) == 0 {
		next.Selected = nil
	}
	return next
}

// ToggleWithItinerary toggles the leg and refreshes the amount from the itinerary
func ToggleWithItinerary(leg itinerary.RawLeg, state State, raw *itinerary.RawItinerary) State {
	if !leg.ParsedMode().Bookable() {
		return state
	}
	next := Toggle(leg, state)
	next.Amount = ComputeTotal(next, raw)
	return next
}

// IsSelected reports whether a leg with the same identity is selected.
// Always false for walking legs.
func IsSelected(leg itinerary.RawLeg, state State) bool {
	if !leg.ParsedMode().Bookable() {
		return false
	}

	key := leg.Key()
	for _, selected := range state.Selected {
		if selected.Key() == key {
			return true
		}
	}
	return false
}

// ComputeTotal returns the booking amount. This is the itinerary's total
// cost regardless of which legs are selected.
func ComputeTotal(state State, raw *itinerary.RawItinerary) float64 {
	return raw.Cost()
}

// NewBookingRequest builds the booking hand-off payload
func NewBookingRequest(state State) (BookingRequest, error) {
	if len(state.Selected) == 0 {
		return BookingRequest{}, ErrNothingSelected
	}

	legs := make([]itinerary.RawLeg, len(state.Selected))
	copy(legs, state.Selected)

	return BookingRequest{
		Reference:    uuid.NewString(),
		SelectedLegs: legs,
		Amount:       state.Amount,
	}, nil
}
