package render

import (
	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

// StrokeWidth is the line width used for every leg
const StrokeWidth = 4

// Pin colors
const (
	PinStart    = "green"
	PinEnd      = "red"
	PinTransfer = "black"
)

// Role is where a marker sits on the route
type Role string

const (
	RoleStart    Role = "start"
	RoleEnd      Role = "end"
	RoleLegStart Role = "leg_start"
	RoleLegEnd   Role = "leg_end"
)

// Marker is a pin at a leg endpoint
type Marker struct {
	Position geo.Point `json:"position"`
	Role     Role      `json:"role"`
	PinColor string    `json:"pinColor"`
	LegIndex int       `json:"legIndex"`
}

// Title is the label shown for the marker, empty for intermediate pins
func (m Marker) Title() string {
	switch m.Role {
	case RoleStart:
		return "Start"
	case RoleEnd:
		return "End"
	default:
		return ""
	}
}

// Markers returns a start and end pin for every leg that has coordinates.
// The start of the first drawn leg is green and the end of the last drawn leg
// is red; the rest are black.
func Markers(legs []itinerary.RenderedLeg) []Marker {
	first, last := -1, -1
	for i, leg := range legs {
		if len(leg.Coordinates) == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}

	markers := make([]Marker, 0, 2*len(legs))
	for i, leg := range legs {
		if len(leg.Coordinates) == 0 {
			continue
		}

		start := Marker{Position: leg.Coordinates[0], Role: RoleLegStart, PinColor: PinTransfer, LegIndex: i}
		if i == first {
			start.Role = RoleStart
			start.PinColor = PinStart
		}

		end := Marker{Position: leg.Coordinates[len(leg.Coordinates)-1], Role: RoleLegEnd, PinColor: PinTransfer, LegIndex: i}
		if i == last {
			end.Role = RoleEnd
			end.PinColor = PinEnd
		}

		markers = append(markers, start, end)
	}
	return markers
}
