package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

func TestComputeViewport_SinglePoint(t *testing.T) {
	legs := []itinerary.RenderedLeg{
		{Coordinates: []geo.Point{{Latitude: 1.0, Longitude: 2.0}}},
	}

	vp, err := ComputeViewport(legs, DefaultPadding)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vp.CenterLatitude, 1e-12)
	assert.InDelta(t, 2.0, vp.CenterLongitude, 1e-12)
	assert.GreaterOrEqual(t, vp.LatitudeSpan, 0.01)
	assert.GreaterOrEqual(t, vp.LongitudeSpan, 0.01)
}

func TestComputeViewport_Empty(t *testing.T) {
	_, err := ComputeViewport(nil, DefaultPadding)
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = ComputeViewport([]itinerary.RenderedLeg{{Color: "#000000"}}, DefaultPadding)
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestComputeViewport_AcrossLegs(t *testing.T) {
	legs := []itinerary.RenderedLeg{
		{Coordinates: []geo.Point{{Latitude: 19.07, Longitude: 72.87}, {Latitude: 19.075, Longitude: 72.875}}},
		{Coordinates: []geo.Point{{Latitude: 19.12, Longitude: 72.9}}},
	}

	vp, err := ComputeViewport(legs, DefaultPadding)
	require.NoError(t, err)
	assert.InDelta(t, 19.095, vp.CenterLatitude, 1e-9)
	assert.InDelta(t, 72.885, vp.CenterLongitude, 1e-9)
	assert.InDelta(t, 0.05+0.01, vp.LatitudeSpan, 1e-9)
	assert.InDelta(t, 0.03+0.01, vp.LongitudeSpan, 1e-9)
}

func TestViewportOrDefault(t *testing.T) {
	assert.Equal(t, DefaultRegion, ViewportOrDefault(nil, DefaultPadding, DefaultRegion))

	legs := []itinerary.RenderedLeg{{Coordinates: []geo.Point{{Latitude: 5, Longitude: 6}}}}
	vp := ViewportOrDefault(legs, 0.5, DefaultRegion)
	assert.InDelta(t, 0.5, vp.LatitudeSpan, 1e-12)
}

func TestInitialRegion(t *testing.T) {
	assert.Equal(t, DefaultRegion, InitialRegion(nil, DefaultRegion))
	assert.Equal(t, DefaultRegion, InitialRegion([]itinerary.RenderedLeg{{}}, DefaultRegion))

	legs := []itinerary.RenderedLeg{
		{Coordinates: []geo.Point{{Latitude: 38.5, Longitude: -120.2}, {Latitude: 40.7, Longitude: -120.95}}},
	}
	assert.Equal(t, Viewport{
		CenterLatitude:  38.5,
		CenterLongitude: -120.2,
		LatitudeSpan:    0.02,
		LongitudeSpan:   0.02,
	}, InitialRegion(legs, DefaultRegion))
}
