package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// precision is the Google polyline scale: degrees are encoded as integers of 1e-5
const precision = 1e5

var codec = polyline.Codec{Dim: 2, Scale: precision}

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// DecodePolyline decodes Google polyline string to point sequence.
// An empty string decodes to an empty sequence.
func (g *geoUtils) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return []Point{}, nil
	}

	// DecodeFlatCoords keeps integer accumulators and only divides on output,
	// so repeated deltas never drift.
	flat, _, err := codec.DecodeFlatCoords(nil, []byte(encoded))
	if err != nil {
		return nil, classifyDecodeError(len(encoded), err)
	}

	points := make([]Point, len(flat)/2)
	for i := range points {
		points[i] = Point{
			Latitude:  flat[2*i],
			Longitude: flat[2*i+1],
		}
	}

	return points, nil
}

func classifyDecodeError(length int, err error) error {
	switch {
	case errors.Is(err, polyline.ErrEmpty), errors.Is(err, polyline.ErrUnterminatedSequence):
		return &DecodeBoundsError{Length: length, Err: err}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidPolyline, err)
	}
}

// EncodePolyline encodes points as a Google polyline string
func (g *geoUtils) EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(codec.EncodeCoords(nil, coords))
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	if p1 == p2 {
		return 0, nil
	}

	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// Earth's radius in meters
	const earthRadius = 6371000
	return earthRadius * c, nil
}

// Bounds returns the bounding box of points. orb uses x=longitude, y=latitude.
func (g *geoUtils) Bounds(points []Point) (orb.Bound, bool) {
	if len(points) == 0 {
		return orb.Bound{}, false
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = ToOrb(p)
	}
	return mp.Bound(), true
}

// ToOrb converts a Point to an orb.Point
func ToOrb(p Point) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// LineString converts points to an orb.LineString
func LineString(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = ToOrb(p)
	}
	return ls
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
