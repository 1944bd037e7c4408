package selection

import (
	"errors"

	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

// DefaultPadding is added to both spans so a single-point route still has an area
const DefaultPadding = 0.01

// initialSpan frames the first coordinate before the fitted viewport is applied
const initialSpan = 0.02

// ErrNoGeometry is returned when there are no coordinates to frame
var ErrNoGeometry = errors.New("no geometry to frame")

// Viewport is a camera region: center plus span in degrees
type Viewport struct {
	CenterLatitude  float64 `json:"latitude" yaml:"latitude"`
	CenterLongitude float64 `json:"longitude" yaml:"longitude"`
	LatitudeSpan    float64 `json:"latitudeDelta" yaml:"latitude_delta"`
	LongitudeSpan   float64 `json:"longitudeDelta" yaml:"longitude_delta"`
}

// DefaultRegion is shown when a route has no geometry
var DefaultRegion = Viewport{
	CenterLatitude:  19.29462,
	CenterLongitude: 72.85618,
	LatitudeSpan:    0.1,
	LongitudeSpan:   0.1,
}

// ComputeViewport frames every coordinate of every leg
func ComputeViewport(legs []itinerary.RenderedLeg, padding float64) (Viewport, error) {
	bound, ok := geo.NewGeoUtils().Bounds(itinerary.AllCoordinates(legs))
	if !ok {
		return Viewport{}, ErrNoGeometry
	}

	center := bound.Center()
	return Viewport{
		CenterLatitude:  center.Lat(),
		CenterLongitude: center.Lon(),
		LatitudeSpan:    bound.Top() - bound.Bottom() + padding,
		LongitudeSpan:   bound.Right() - bound.Left() + padding,
	}, nil
}

// ViewportOrDefault frames the legs, falling back to fallback when there is
// no geometry
func ViewportOrDefault(legs []itinerary.RenderedLeg, padding float64, fallback Viewport) Viewport {
	vp, err := ComputeViewport(legs, padding)
	if err != nil {
		return fallback
	}
	return vp
}

// InitialRegion centers on the first coordinate of the first leg, or returns
// fallback when the first leg has none
func InitialRegion(legs []itinerary.RenderedLeg, fallback Viewport) Viewport {
	if len(legs) == 0 || len(legs[0].Coordinates) == 0 {
		return fallback
	}

	first := legs[0].Coordinates[0]
	return Viewport{
		CenterLatitude:  first.Latitude,
		CenterLongitude: first.Longitude,
		LatitudeSpan:    initialSpan,
		LongitudeSpan:   initialSpan,
	}
}
