package itinerary

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/transitmap/mapscreen/internal/lib/geo"
)

// Builder turns navigation payloads into rendered legs
type Builder struct {
	geoUtils      geo.GeoUtils
	fallbackColor string
}

// NewBuilder creates a Builder. An empty fallbackColor means DefaultColor.
func NewBuilder(geoUtils geo.GeoUtils, fallbackColor string) *Builder {
	if geoUtils == nil {
		geoUtils = geo.NewGeoUtils()
	}
	if fallbackColor == "" {
		fallbackColor = DefaultColor
	}
	return &Builder{geoUtils: geoUtils, fallbackColor: fallbackColor}
}

// Build produces the itinerary for a payload. A payload with neither a route
// nor an overview polyline yields an empty itinerary and no error.
func (b *Builder) Build(p Payload) (*Itinerary, error) {
	switch p.Kind() {
	case PayloadFlat:
		legs, err := b.BuildFlatLeg(p.OverviewPolyline)
		if err != nil {
			return nil, err
		}
		return &Itinerary{Kind: PayloadFlat, Legs: legs}, nil

	case PayloadStructured:
		raw, err := ParseItinerary(p.Route)
		if err != nil {
			return nil, err
		}
		legs, err := b.BuildRenderedLegs(raw)
		if err != nil {
			return nil, err
		}
		return &Itinerary{Kind: PayloadStructured, Raw: raw, Legs: legs}, nil

	default:
		return &Itinerary{Kind: PayloadEmpty, Legs: []RenderedLeg{}}, nil
	}
}

// ParseItinerary decodes a serialized structured itinerary
func ParseItinerary(data string) (*RawItinerary, error) {
	if strings.TrimSpace(data) == "" {
		return nil, &MalformedItineraryError{LegIndex: -1, Err: errors.New("empty route payload")}
	}

	var raw RawItinerary
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, &MalformedItineraryError{LegIndex: -1, Err: err}
	}
	return &raw, nil
}

// BuildRenderedLegs decodes every leg of a structured itinerary in order.
// The first leg that fails to decode aborts the build.
func (b *Builder) BuildRenderedLegs(raw *RawItinerary) ([]RenderedLeg, error) {
	if raw == nil {
		return []RenderedLeg{}, nil
	}

	legs := make([]RenderedLeg, 0, len(raw.Legs))
	for i, leg := range raw.Legs {
		coords, err := b.geoUtils.DecodePolyline(leg.LegGeometryPoints())
		if err != nil {
			return nil, &MalformedItineraryError{LegIndex: i, Err: err}
		}

		color := leg.ParsedMode().Color()
		if leg.ParsedMode() == ModeUnknown {
			color = b.fallbackColor
		}

		legs = append(legs, RenderedLeg{
			Coordinates: coords,
			Color:       color,
			Mode:        leg.Mode,
		})
	}
	return legs, nil
}

// BuildFlatLeg decodes an overview polyline into a single leg with no mode
func (b *Builder) BuildFlatLeg(encoded string) ([]RenderedLeg, error) {
	coords, err := b.geoUtils.DecodePolyline(encoded)
	if err != nil {
		return nil, &MalformedItineraryError{LegIndex: 0, Err: err}
	}
	return []RenderedLeg{{Coordinates: coords, Color: b.fallbackColor}}, nil
}

// AllCoordinates flattens the coordinates of every leg in order
func AllCoordinates(legs []RenderedLeg) []geo.Point {
	var n int
	for _, leg := range legs {
		n += len(leg.Coordinates)
	}

	points := make([]geo.Point, 0, n)
	for _, leg := range legs {
		points = append(points, leg.Coordinates...)
	}
	return points
}
