package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

func threeLegs() []itinerary.RenderedLeg {
	return []itinerary.RenderedLeg{
		{
			Coordinates: []geo.Point{{Latitude: 19.07, Longitude: 72.87}, {Latitude: 19.075, Longitude: 72.875}},
			Color:       "#77DD77",
			Mode:        "WALK",
		},
		{
			Coordinates: []geo.Point{{Latitude: 19.075, Longitude: 72.875}, {Latitude: 19.1, Longitude: 72.88}, {Latitude: 19.12, Longitude: 72.9}},
			Color:       "#FFB347",
			Mode:        "BUS",
		},
		{
			Coordinates: []geo.Point{{Latitude: 19.12, Longitude: 72.9}, {Latitude: 19.121, Longitude: 72.901}},
			Color:       "#77DD77",
			Mode:        "WALK",
		},
	}
}

func TestMarkers(t *testing.T) {
	markers := Markers(threeLegs())
	require.Len(t, markers, 6)

	assert.Equal(t, RoleStart, markers[0].Role)
	assert.Equal(t, PinStart, markers[0].PinColor)
	assert.Equal(t, "Start", markers[0].Title())
	assert.Equal(t, geo.Point{Latitude: 19.07, Longitude: 72.87}, markers[0].Position)

	for _, m := range markers[1:5] {
		assert.Equal(t, PinTransfer, m.PinColor)
		assert.Empty(t, m.Title())
	}

	assert.Equal(t, RoleEnd, markers[5].Role)
	assert.Equal(t, PinEnd, markers[5].PinColor)
	assert.Equal(t, "End", markers[5].Title())
	assert.Equal(t, 2, markers[5].LegIndex)
}

func TestMarkers_SingleLeg(t *testing.T) {
	markers := Markers(threeLegs()[1:2])
	require.Len(t, markers, 2)
	assert.Equal(t, PinStart, markers[0].PinColor)
	assert.Equal(t, PinEnd, markers[1].PinColor)
}

func TestMarkers_SkipsEmptyLegs(t *testing.T) {
	empty := itinerary.RenderedLeg{Color: "#000000"}
	legs := append([]itinerary.RenderedLeg{empty}, threeLegs()...)
	legs = append(legs, empty)

	markers := Markers(legs)
	require.Len(t, markers, 6)

	assert.Equal(t, RoleStart, markers[0].Role)
	assert.Equal(t, PinStart, markers[0].PinColor)
	assert.Equal(t, 1, markers[0].LegIndex)

	assert.Equal(t, RoleEnd, markers[5].Role)
	assert.Equal(t, PinEnd, markers[5].PinColor)
	assert.Equal(t, 3, markers[5].LegIndex)

	assert.Empty(t, Markers(nil))
	assert.Empty(t, Markers([]itinerary.RenderedLeg{empty}))
}

func TestKML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KML(threeLegs(), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 1, strings.Count(out, `<Style id="line-77dd77">`), "styles are shared per color")
	assert.Contains(t, out, `<Style id="line-ffb347">`)
	assert.Contains(t, out, "<color>ff47b3ff</color>")
	assert.Contains(t, out, "<width>4</width>")
	assert.Contains(t, out, "<name>Leg 2: BUS</name>")
	assert.Contains(t, out, "<styleUrl>#line-ffb347</styleUrl>")
	assert.Contains(t, out, "<coordinates>72.875,19.075 72.88,19.1 72.9,19.12</coordinates>")
	assert.Contains(t, out, "<name>Start</name>")
	assert.Contains(t, out, "<name>End</name>")
	assert.Equal(t, 9, strings.Count(out, "<Placemark>"))
}

func TestKML_InvalidColor(t *testing.T) {
	legs := threeLegs()
	legs[1].Color = "orange"

	var buf bytes.Buffer
	err := KML(legs, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leg 1")
}

func TestGeoJSON(t *testing.T) {
	fc := GeoJSON(threeLegs())
	require.Len(t, fc.Features, 9)

	bus := fc.Features[1]
	assert.Equal(t, "BUS", bus.Properties["mode"])
	assert.Equal(t, "#FFB347", bus.Properties["color"])
	assert.Equal(t, 1, bus.Properties["index"])
	ls, ok := bus.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{72.9, 19.12}, ls[2])

	start := fc.Features[3]
	assert.Equal(t, "marker", start.Properties["kind"])
	assert.Equal(t, "Start", start.Properties["title"])
	assert.Equal(t, orb.Point{72.87, 19.07}, start.Geometry)

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"FeatureCollection"`)
}

func TestGeoJSON_FlatLeg(t *testing.T) {
	fc := GeoJSON([]itinerary.RenderedLeg{{
		Coordinates: []geo.Point{{Latitude: 1, Longitude: 2}},
		Color:       itinerary.DefaultColor,
	}})
	require.Len(t, fc.Features, 3)
	_, hasMode := fc.Features[0].Properties["mode"]
	assert.False(t, hasMode)
}
