package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Point represents a geographic coordinate in decimal degrees
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Polyline represents an encoded polyline with optional decoded points
type Polyline struct {
	EncodedPolyline string  `json:"encoded_polyline"`
	Points          []Point `json:"points"`
}

var (
	// ErrDecodeBounds is returned when an encoded polyline ends in the middle
	// of a value or in the middle of a coordinate pair.
	ErrDecodeBounds = errors.New("polyline: read past end of input")

	// ErrInvalidPolyline is returned for bytes outside the polyline alphabet
	// and for values that overflow an int.
	ErrInvalidPolyline = errors.New("polyline: invalid encoding")
)

// DecodeBoundsError reports a polyline that was cut short
type DecodeBoundsError struct {
	Length int   // length of the encoded input
	Err    error // underlying codec error
}

func (e *DecodeBoundsError) Error() string {
	return fmt.Sprintf("polyline of %d bytes ends mid-value: %v", e.Length, e.Err)
}

func (e *DecodeBoundsError) Unwrap() []error {
	return []error{ErrDecodeBounds, e.Err}
}

// GeoUtils interface defines the geometry operations used by the itinerary model
type GeoUtils interface {
	// Decode Google polyline string to point sequence
	DecodePolyline(encoded string) ([]Point, error)

	// Encode a point sequence as a Google polyline string
	EncodePolyline(points []Point) string

	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Bounding box of the points; false when there are none
	Bounds(points []Point) (orb.Bound, bool)
}
