package itinerary

import (
	"fmt"
	"math"
	"strconv"

	"github.com/transitmap/mapscreen/internal/lib/geo"
)

// DirectionsBaseURL is the external directions endpoint legs link to
const DirectionsBaseURL = "https://www.google.com/maps/dir/"

// Length returns the leg distance in meters. When the planner reported none it
// falls back to the straight-line distance between the leg's endpoints.
func (l RawLeg) Length() float64 {
	if l.Distance > 0 {
		return l.Distance
	}
	d, err := geo.NewGeoUtils().PointToPoint(l.From.Point(), l.To.Point())
	if err != nil {
		return 0
	}
	return d
}

// TotalDistance sums the leg lengths in meters
func (r *RawItinerary) TotalDistance() float64 {
	if r == nil {
		return 0
	}
	var total float64
	for _, leg := range r.Legs {
		total += leg.Length()
	}
	return total
}

// DurationMinutes returns the itinerary duration rounded to whole minutes
func (r *RawItinerary) DurationMinutes() int {
	if r == nil {
		return 0
	}
	return int(math.Round(r.Duration / 60))
}

// Cost returns the itinerary's total cost, 0 when the planner sent none
func (r *RawItinerary) Cost() float64 {
	if r == nil || r.TotalCost == nil {
		return 0
	}
	return *r.TotalCost
}

// FormatDistance renders meters the way the journey details list does
func FormatDistance(meters float64) string {
	if meters > 1000 {
		return fmt.Sprintf("%d km", int(math.Round(meters/1000)))
	}
	return fmt.Sprintf("%d m", int(math.Round(meters)))
}

// FormatAmount renders a booking amount with two decimals
func FormatAmount(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

// Description is the one-line label of a leg in the journey details
func (l RawLeg) Description() string {
	var label string
	switch l.ParsedMode() {
	case ModeWalk:
		label = "Walk"
	case ModeBus:
		label = fmt.Sprintf("Bus %s · %s", l.RouteShortName, l.Route)
	default:
		label = l.Route
	}
	return label + " · " + FormatDistance(l.Length())
}

// Endpoints returns "from → to"
func (l RawLeg) Endpoints() string {
	return l.From.Name + " → " + l.To.Name
}

// DirectionsURL builds the external directions link for the leg. The four
// coordinates are passed through unchanged.
func (l RawLeg) DirectionsURL() string {
	return DirectionsURL(DirectionsBaseURL, l.From.Lat, l.From.Lon, l.To.Lat, l.To.Lon)
}

// DirectionsURL builds a directions link against baseURL
func DirectionsURL(baseURL string, fromLat, fromLon, toLat, toLon float64) string {
	return fmt.Sprintf("%s?api=1&origin=%s,%s&destination=%s,%s", baseURL,
		formatCoord(fromLat), formatCoord(fromLon), formatCoord(toLat), formatCoord(toLon))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// LegendEntry is one row of the map legend
type LegendEntry struct {
	Mode  string `json:"mode"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Legend lists the known modes and their colors
func Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, len(legendOrder))
	for _, mode := range legendOrder {
		entries = append(entries, LegendEntry{
			Mode:  mode.String(),
			Color: mode.Color(),
			Icon:  mode.Icon(),
		})
	}
	return entries
}
