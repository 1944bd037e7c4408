package selection

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

func threeLegItinerary() *itinerary.RawItinerary {
	cost := 45.0
	return &itinerary.RawItinerary{
		Duration:  2700,
		TotalCost: &cost,
		Legs: []itinerary.RawLeg{
			{Mode: "WALK", StartTime: 1000, EndTime: 2000, LegGeometry: itinerary.LegGeometry{Points: "orksBolw{Lg^g^"}},
			{Mode: "BUS", StartTime: 2100, EndTime: 4000, Route: "A-42", LegGeometry: itinerary.LegGeometry{Points: "wqlsBwkx{Lg{Cg^_|B_|B"}},
			{Mode: "WALK", StartTime: 4000, EndTime: 4500, LegGeometry: itinerary.LegGeometry{Points: "_kusB_h}{LgEgE"}},
		},
	}
}

func TestToggle_WalkIsNeverSelected(t *testing.T) {
	walk := itinerary.RawLeg{Mode: "WALK", StartTime: 1, EndTime: 2}

	state := Toggle(walk, State{})
	assert.Empty(t, state.Selected)
	assert.False(t, IsSelected(walk, state))

	// Even a state that somehow contains the walk leg reports it unselected
	forced := State{Selected: []itinerary.RawLeg{walk}}
	assert.False(t, IsSelected(walk, forced))
	assert.Equal(t, forced, Toggle(walk, forced))
}

func TestToggle_Involution(t *testing.T) {
	bus := itinerary.RawLeg{Mode: "BUS", StartTime: 10, EndTime: 20}
	rail := itinerary.RawLeg{Mode: "RAIL", StartTime: 30, EndTime: 40}
	ferry := itinerary.RawLeg{Mode: "FERRY", StartTime: 50, EndTime: 60}

	for _, start := range []State{{}, {Selected: []itinerary.RawLeg{rail}}} {
		for _, leg := range []itinerary.RawLeg{bus, ferry} {
			once := Toggle(leg, start)
			assert.True(t, IsSelected(leg, once))
			assert.Equal(t, start, Toggle(leg, once))
		}
	}
}

func TestToggle_IdentityByTimes(t *testing.T) {
	bus := itinerary.RawLeg{Mode: "BUS", StartTime: 10, EndTime: 20, Route: "original"}
	rebuilt := itinerary.RawLeg{Mode: "BUS", StartTime: 10, EndTime: 20, Route: "deserialized copy"}
	other := itinerary.RawLeg{Mode: "BUS", StartTime: 10, EndTime: 21}

	state := Toggle(bus, State{})
	assert.True(t, IsSelected(rebuilt, state))
	assert.False(t, IsSelected(other, state))

	state = Toggle(rebuilt, state)
	assert.Empty(t, state.Selected)
}

func TestToggle_DoesNotMutateInput(t *testing.T) {
	bus := itinerary.RawLeg{Mode: "BUS", StartTime: 10, EndTime: 20}
	rail := itinerary.RawLeg{Mode: "RAIL", StartTime: 30, EndTime: 40}

	original := State{Selected: []itinerary.RawLeg{bus, rail}}
	_ = Toggle(bus, original)

	require.Len(t, original.Selected, 2)
	assert.Equal(t, bus, original.Selected[0])
}

func TestToggle_PreservesSelectionOrder(t *testing.T) {
	a := itinerary.RawLeg{Mode: "BUS", StartTime: 1, EndTime: 2}
	b := itinerary.RawLeg{Mode: "RAIL", StartTime: 3, EndTime: 4}
	c := itinerary.RawLeg{Mode: "SUBWAY", StartTime: 5, EndTime: 6}

	state := Toggle(c, Toggle(a, Toggle(b, State{})))
	assert.Equal(t, []itinerary.RawLeg{b, a, c}, state.Selected)

	state = Toggle(a, state)
	assert.Equal(t, []itinerary.RawLeg{b, c}, state.Selected)
}

func TestComputeTotal_UsesItineraryTotal(t *testing.T) {
	raw := threeLegItinerary()
	bus := raw.Legs[1]

	state := ToggleWithItinerary(bus, State{}, raw)
	require.True(t, IsSelected(bus, state))
	assert.InDelta(t, 45.0, state.Amount, 1e-9)
	assert.InDelta(t, 45.0, ComputeTotal(state, raw), 1e-9)

	state = ToggleWithItinerary(bus, state, raw)
	assert.Empty(t, state.Selected)

	assert.Zero(t, ComputeTotal(State{}, &itinerary.RawItinerary{}))
	assert.Zero(t, ComputeTotal(State{}, nil))
}

func TestToggleWithItinerary_WalkLeavesAmount(t *testing.T) {
	raw := threeLegItinerary()

	state := ToggleWithItinerary(raw.Legs[0], State{}, raw)
	assert.Equal(t, State{}, state)
}

func TestNewBookingRequest(t *testing.T) {
	_, err := NewBookingRequest(State{})
	assert.ErrorIs(t, err, ErrNothingSelected)

	raw := threeLegItinerary()
	state := ToggleWithItinerary(raw.Legs[1], State{}, raw)

	req, err := NewBookingRequest(state)
	require.NoError(t, err)
	_, err = uuid.Parse(req.Reference)
	assert.NoError(t, err)
	assert.Equal(t, []itinerary.RawLeg{raw.Legs[1]}, req.SelectedLegs)
	assert.InDelta(t, 45.0, req.Amount, 1e-9)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "selectedLegs")
	assert.Contains(t, decoded, "amount")
}
