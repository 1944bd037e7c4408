package itinerary

import (
	"fmt"

	"github.com/transitmap/mapscreen/internal/lib/geo"
)

// Mode is the transport mode of a leg
type Mode int

const (
	ModeUnknown Mode = iota
	ModeWalk
	ModeRail
	ModeBus
	ModeSubway
)

// DefaultColor is used for the flat overview polyline and for unrecognized modes
const DefaultColor = "#000000"

// modeInfo is the display and booking data attached to a mode
type modeInfo struct {
	Name     string
	Color    string
	Icon     string
	Bookable bool
}

var modeTable = map[Mode]modeInfo{
	ModeWalk:   {Name: "WALK", Color: "#77DD77", Icon: "male", Bookable: false},
	ModeRail:   {Name: "RAIL", Color: "#779ECB", Icon: "train", Bookable: true},
	ModeBus:    {Name: "BUS", Color: "#FFB347", Icon: "bus", Bookable: true},
	ModeSubway: {Name: "SUBWAY", Color: "#D3A4FF", Icon: "subway", Bookable: true},
}

// legendOrder is the order modes are listed in the map legend
var legendOrder = []Mode{ModeWalk, ModeRail, ModeBus, ModeSubway}

// ParseMode maps the trip planner's mode string to a Mode
func ParseMode(s string) Mode {
	for mode, info := range modeTable {
		if info.Name == s {
			return mode
		}
	}
	return ModeUnknown
}

// String returns the trip planner name of the mode
func (m Mode) String() string {
	if info, ok := modeTable[m]; ok {
		return info.Name
	}
	return "UNKNOWN"
}

// Color returns the display color of the mode, DefaultColor when unrecognized
func (m Mode) Color() string {
	if info, ok := modeTable[m]; ok {
		return info.Color
	}
	return DefaultColor
}

// Icon returns the icon name for the mode
func (m Mode) Icon() string {
	if info, ok := modeTable[m]; ok {
		return info.Icon
	}
	return "question"
}

// Bookable reports whether legs of this mode can be selected for booking.
// Unknown modes are bookable; only walking is excluded.
func (m Mode) Bookable() bool {
	if info, ok := modeTable[m]; ok {
		return info.Bookable
	}
	return true
}

// Place is a named leg endpoint
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Point converts the place to a geo.Point
func (p Place) Point() geo.Point {
	return geo.Point{Latitude: p.Lat, Longitude: p.Lon}
}

// LegGeometry holds the encoded geometry of a leg
type LegGeometry struct {
	Points string `json:"points"`
	Length int    `json:"length,omitempty"`
}

// RawLeg is one leg as produced by the trip planner
type RawLeg struct {
	Mode           string      `json:"mode"`
	LegGeometry    LegGeometry `json:"legGeometry"`
	Distance       float64     `json:"distance"`
	StartTime      int64       `json:"startTime"`
	EndTime        int64       `json:"endTime"`
	Route          string      `json:"route"`
	RouteShortName string      `json:"routeShortName,omitempty"`
	From           Place       `json:"from"`
	To             Place       `json:"to"`
	Cost           *float64    `json:"cost,omitempty"`
}

// LegKey identifies a leg independently of object identity, since legs are
// rebuilt from serialized data
type LegKey struct {
	StartTime int64
	EndTime   int64
}

// Key returns the identity of the leg
func (l RawLeg) Key() LegKey {
	return LegKey{StartTime: l.StartTime, EndTime: l.EndTime}
}

// ParsedMode returns the leg's mode as a Mode
func (l RawLeg) ParsedMode() Mode {
	return ParseMode(l.Mode)
}

// LegGeometryPoints returns the encoded polyline of the leg
func (l RawLeg) LegGeometryPoints() string {
	return l.LegGeometry.Points
}

// RawItinerary is the structured itinerary payload
type RawItinerary struct {
	Duration  float64  `json:"duration"`
	TotalCost *float64 `json:"totalCost,omitempty"`
	Legs      []RawLeg `json:"legs"`
}

// RenderedLeg is the drawable form of a leg. It is never modified after Build.
type RenderedLeg struct {
	Coordinates []geo.Point `json:"coordinates"`
	Color       string      `json:"color"`
	Mode        string      `json:"mode,omitempty"`
}

// PayloadKind describes which form of itinerary a payload carries
type PayloadKind string

const (
	PayloadEmpty      PayloadKind = "empty"
	PayloadStructured PayloadKind = "structured"
	PayloadFlat       PayloadKind = "flat"
)

// Payload holds the navigation parameters the map screen is opened with
type Payload struct {
	ID               string `json:"id,omitempty"`
	Route            string `json:"route,omitempty"`
	OverviewPolyline string `json:"overview_polyline,omitempty"`
}

// Kind reports the itinerary form. When an overview polyline is present it is
// used as the geometry even if a route is also supplied.
func (p Payload) Kind() PayloadKind {
	switch {
	case p.OverviewPolyline != "":
		return PayloadFlat
	case p.Route != "":
		return PayloadStructured
	default:
		return PayloadEmpty
	}
}

// Itinerary is the result of building a payload
type Itinerary struct {
	Kind PayloadKind   `json:"kind"`
	Raw  *RawItinerary `json:"raw,omitempty"`
	Legs []RenderedLeg `json:"legs"`
}

// MalformedItineraryError reports a payload that could not be parsed or whose
// leg geometry could not be decoded
type MalformedItineraryError struct {
	LegIndex int // -1 when the payload itself failed to parse
	Err      error
}

func (e *MalformedItineraryError) Error() string {
	if e.LegIndex >= 0 {
		return fmt.Sprintf("malformed itinerary: leg %d: %v", e.LegIndex, e.Err)
	}
	return fmt.Sprintf("malformed itinerary: %v", e.Err)
}

func (e *MalformedItineraryError) Unwrap() error {
	return e.Err
}
