package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/twpayne/go-kml"

	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

var pinColors = map[string]color.RGBA{
	PinStart:    {R: 0x00, G: 0x80, B: 0x00, A: 0xff},
	PinEnd:      {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	PinTransfer: {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
}

// KML writes the legs as a KML document: one line placemark per leg plus the
// endpoint pins
func KML(legs []itinerary.RenderedLeg, w io.Writer) error {
	var (
		styles     []kml.Element
		placemarks []kml.Element
		lineStyles = make(map[string]*kml.SharedElement)
		pinStyles  = make(map[string]*kml.SharedElement)
	)

	for i, leg := range legs {
		style, ok := lineStyles[leg.Color]
		if !ok {
			rgba, err := parseHexColor(leg.Color)
			if err != nil {
				return fmt.Errorf("leg %d: %w", i, err)
			}
			style = kml.SharedStyle(
				"line-"+strings.TrimPrefix(strings.ToLower(leg.Color), "#"),
				kml.LineStyle(kml.Color(rgba), kml.Width(StrokeWidth)),
			)
			lineStyles[leg.Color] = style
			styles = append(styles, style)
		}

		placemarks = append(placemarks, kml.Placemark(
			kml.Name(legName(i, leg)),
			kml.StyleURL(style.URL()),
			kml.LineString(kml.Coordinates(kmlCoordinates(leg.Coordinates)...)),
		))
	}

	for _, m := range Markers(legs) {
		style, ok := pinStyles[m.PinColor]
		if !ok {
			style = kml.SharedStyle("pin-"+m.PinColor, kml.IconStyle(kml.Color(pinColors[m.PinColor])))
			pinStyles[m.PinColor] = style
			styles = append(styles, style)
		}

		children := []kml.Element{kml.StyleURL(style.URL())}
		if title := m.Title(); title != "" {
			children = append([]kml.Element{kml.Name(title)}, children...)
		}
		children = append(children, kml.Point(kml.Coordinates(kmlCoordinates([]geo.Point{m.Position})...)))
		placemarks = append(placemarks, kml.Placemark(children...))
	}

	doc := kml.Document(append(append([]kml.Element{kml.Name("Itinerary")}, styles...), placemarks...)...)
	return kml.KML(doc).WriteIndent(w, "", "  ")
}

func legName(i int, leg itinerary.RenderedLeg) string {
	if leg.Mode == "" {
		return "Route"
	}
	return fmt.Sprintf("Leg %d: %s", i+1, leg.Mode)
}

func kmlCoordinates(points []geo.Point) []kml.Coordinate {
	coords := make([]kml.Coordinate, len(points))
	for i, p := range points {
		coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}
	return coords
}

// parseHexColor parses "#RRGGBB"
func parseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
