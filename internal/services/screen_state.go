package services

import (
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
	"github.com/transitmap/mapscreen/internal/lib/selection"
)

// NoRouteDataMessage is shown in place of the map when a payload can't be used
const NoRouteDataMessage = "No route data available. Please go back and try again."

// ScreenState is everything the map screen renders from. Transitions are pure
// functions that return a new state.
type ScreenState struct {
	Loading        bool                    `json:"loading"`
	Kind           itinerary.PayloadKind   `json:"kind"`
	Legs           []itinerary.RenderedLeg `json:"legs"`
	Itinerary      *itinerary.RawItinerary `json:"itinerary,omitempty"`
	Selection      selection.State         `json:"selection"`
	Viewport       *selection.Viewport     `json:"viewport,omitempty"`
	DetailsVisible bool                    `json:"detailsVisible"`
	Err            string                  `json:"error,omitempty"`
}

// Reset returns the state shown before any payload has settled
func Reset() ScreenState {
	return ScreenState{
		Loading: true,
		Legs:    []itinerary.RenderedLeg{},
	}
}

// Loaded applies a build result. A new itinerary always clears the selection
// and the viewport follows the new legs. On error the legs are emptied and
// the no-data message is set.
func Loaded(state ScreenState, built *itinerary.Itinerary, err error, padding float64) ScreenState {
	next := ScreenState{
		DetailsVisible: state.DetailsVisible,
		Legs:           []itinerary.RenderedLeg{},
	}

	if err != nil || built == nil {
		next.Err = NoRouteDataMessage
		next.DetailsVisible = false
		return next
	}

	next.Kind = built.Kind
	if built.Kind == itinerary.PayloadEmpty {
		next.Err = NoRouteDataMessage
		return next
	}

	next.Legs = built.Legs
	next.Itinerary = built.Raw

	if vp, vpErr := selection.ComputeViewport(built.Legs, padding); vpErr == nil {
		next.Viewport = &vp
	}
	return next
}

// ToggleLeg toggles a leg's selection and refreshes the booking amount
func ToggleLeg(state ScreenState, leg itinerary.RawLeg) ScreenState {
	state.Selection = selection.ToggleWithItinerary(leg, state.Selection, state.Itinerary)
	return state
}

// ShowDetails opens the journey details panel
func ShowDetails(state ScreenState) ScreenState {
	state.DetailsVisible = true
	return state
}

func HideDetails(state ScreenState) ScreenState {
	state.DetailsVisible = false
	return state
}

// CanBook reports whether the book action is enabled
func (s ScreenState) CanBook() bool {
	return len(s.Selection.Selected) > 0
}

// BookLabel is the text of the book button
func (s ScreenState) BookLabel() string {
	if !s.CanBook() {
		return "Select Transport Modes to Book"
	}
	return "Book Now for " + itinerary.FormatAmount(s.Selection.Amount)
}
