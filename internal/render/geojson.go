package render

import (
	"github.com/paulmach/orb/geojson"

	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

// GeoJSON returns the legs as LineString features followed by the endpoint
// pins as Point features
func GeoJSON(legs []itinerary.RenderedLeg) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, leg := range legs {
		f := geojson.NewFeature(geo.LineString(leg.Coordinates))
		f.Properties["kind"] = "leg"
		f.Properties["index"] = i
		f.Properties["color"] = leg.Color
		f.Properties["stroke-width"] = StrokeWidth
		if leg.Mode != "" {
			f.Properties["mode"] = leg.Mode
		}
		fc.Append(f)
	}

	for _, m := range Markers(legs) {
		f := geojson.NewFeature(geo.ToOrb(m.Position))
		f.Properties["kind"] = "marker"
		f.Properties["index"] = m.LegIndex
		f.Properties["role"] = string(m.Role)
		f.Properties["marker-color"] = m.PinColor
		if title := m.Title(); title != "" {
			f.Properties["title"] = title
		}
		fc.Append(f)
	}

	return fc
}
