package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dpup/prefab/logging"
	"github.com/facebookgo/clock"

	"github.com/transitmap/mapscreen/internal/cache"
	"github.com/transitmap/mapscreen/internal/config"
	"github.com/transitmap/mapscreen/internal/lib/geo"
	"github.com/transitmap/mapscreen/internal/lib/itinerary"
	"github.com/transitmap/mapscreen/internal/lib/selection"
	"github.com/transitmap/mapscreen/internal/render"
	"github.com/transitmap/mapscreen/internal/services"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "decode-polyline":
		handleDecodePolyline(geo.NewGeoUtils())
	case "build":
		handleBuild()
	case "viewport":
		handleViewport()
	case "export":
		handleExport()
	case "simulate":
		handleSimulate()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// payloadFlags are shared by every command that reads an itinerary
type payloadFlags struct {
	routeFile  *string
	polyline   *string
	configPath *string
}

func addPayloadFlags(fs *flag.FlagSet) payloadFlags {
	return payloadFlags{
		routeFile:  fs.String("route-file", "", "Path to a structured itinerary JSON file"),
		polyline:   fs.String("polyline", "", "Encoded overview polyline"),
		configPath: fs.String("config", "", "Optional YAML config file"),
	}
}

func (pf payloadFlags) load(usage string) (itinerary.Payload, *config.Config) {
	if *pf.routeFile == "" && *pf.polyline == "" {
		fmt.Println("Example usage:")
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load(*pf.configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	p := itinerary.Payload{ID: "preview", OverviewPolyline: *pf.polyline}
	if *pf.routeFile != "" {
		data, err := os.ReadFile(*pf.routeFile)
		if err != nil {
			log.Fatalf("Error reading route file: %v", err)
		}
		p.Route = string(data)
	}
	return p, cfg
}

func buildPayload(p itinerary.Payload, cfg *config.Config) *itinerary.Itinerary {
	built, err := itinerary.NewBuilder(geo.NewGeoUtils(), cfg.Itinerary.FallbackColor).Build(p)
	if err != nil {
		log.Fatalf("Error building itinerary: %v", err)
	}
	return built
}

func handleDecodePolyline(geoUtils geo.GeoUtils) {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	polylineStr := fs.String("polyline", "", "Encoded polyline string to decode")
	verbose := fs.Bool("verbose", false, "Show all decoded points")

	fs.Parse(os.Args[2:])

	if *polylineStr == "" {
		fmt.Println("Example usage:")
		fmt.Println("  mapscreen-preview decode-polyline --polyline \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\"")
		os.Exit(1)
	}

	points, err := geoUtils.DecodePolyline(*polylineStr)
	if err != nil {
		log.Fatalf("Error decoding polyline: %v", err)
	}
	poly := geo.Polyline{EncodedPolyline: *polylineStr, Points: points}

	fmt.Printf("Polyline decoded successfully:\n")
	fmt.Printf("  Input: %s\n", poly.EncodedPolyline)
	fmt.Printf("  Points: %d\n", len(poly.Points))

	if len(points) > 0 {
		fmt.Printf("  Start: (%.6f, %.6f)\n", points[0].Latitude, points[0].Longitude)
		if len(points) > 1 {
			last := points[len(points)-1]
			fmt.Printf("  End: (%.6f, %.6f)\n", last.Latitude, last.Longitude)

			var total float64
			for i := 1; i < len(points); i++ {
				d, err := geoUtils.PointToPoint(points[i-1], points[i])
				if err != nil {
					log.Fatalf("Error measuring polyline: %v", err)
				}
				total += d
			}
			fmt.Printf("  Length: %s\n", itinerary.FormatDistance(total))
		}
	}

	if *verbose {
		for i, point := range points {
			fmt.Printf("    %d: (%.6f, %.6f)\n", i+1, point.Latitude, point.Longitude)
		}
	}
}

func handleBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	pf := addPayloadFlags(fs)
	fs.Parse(os.Args[2:])

	p, cfg := pf.load("  mapscreen-preview build --route-file itinerary.json")
	built := buildPayload(p, cfg)

	fmt.Printf("Itinerary (%s):\n", built.Kind)
	for i, leg := range built.Legs {
		fmt.Printf("  %d: %-7s %s  %d points\n", i+1, displayMode(leg), leg.Color, len(leg.Coordinates))
	}

	if raw := built.Raw; raw != nil {
		fmt.Printf("\nJourney details:\n")
		for i, leg := range raw.Legs {
			fmt.Printf("  %d: %s\n", i+1, leg.Description())
			fmt.Printf("     %s\n", leg.Endpoints())
			fmt.Printf("     %s\n", itinerary.DirectionsURL(cfg.Itinerary.DirectionsBaseURL,
				leg.From.Lat, leg.From.Lon, leg.To.Lat, leg.To.Lon))
		}
		fmt.Printf("  Distance: %s\n", itinerary.FormatDistance(raw.TotalDistance()))
		fmt.Printf("  Duration: %d min\n", raw.DurationMinutes())
		fmt.Printf("  Cost: %s\n", itinerary.FormatAmount(raw.Cost()))
	}

	fmt.Printf("\nLegend:\n")
	for _, entry := range itinerary.Legend() {
		fmt.Printf("  %-7s %s (%s)\n", entry.Mode, entry.Color, entry.Icon)
	}
}

func handleViewport() {
	fs := flag.NewFlagSet("viewport", flag.ExitOnError)
	pf := addPayloadFlags(fs)
	fs.Parse(os.Args[2:])

	p, cfg := pf.load("  mapscreen-preview viewport --polyline \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\"")
	built := buildPayload(p, cfg)

	initial := selection.InitialRegion(built.Legs, cfg.Viewport.DefaultRegion)
	fitted, err := selection.ComputeViewport(built.Legs, cfg.Viewport.Padding)
	if err != nil {
		fmt.Printf("No geometry, using default region\n")
		fitted = cfg.Viewport.DefaultRegion
	}

	printViewport("Initial region", initial)
	printViewport("Fitted viewport", fitted)
}

func printViewport(label string, vp selection.Viewport) {
	fmt.Printf("%s:\n", label)
	fmt.Printf("  Center: (%.6f, %.6f)\n", vp.CenterLatitude, vp.CenterLongitude)
	fmt.Printf("  Span: %.6f x %.6f degrees\n", vp.LatitudeSpan, vp.LongitudeSpan)
}

func handleExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	pf := addPayloadFlags(fs)
	format := fs.String("format", "geojson", "Output format: kml or geojson")
	out := fs.String("out", "", "Output file (default stdout)")
	fs.Parse(os.Args[2:])

	p, cfg := pf.load("  mapscreen-preview export --route-file itinerary.json --format kml --out route.kml")
	built := buildPayload(p, cfg)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Error creating output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "kml":
		if err := render.KML(built.Legs, w); err != nil {
			log.Fatalf("Error writing KML: %v", err)
		}
	case "geojson":
		data, err := json.MarshalIndent(render.GeoJSON(built.Legs), "", "  ")
		if err != nil {
			log.Fatalf("Error encoding GeoJSON: %v", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			log.Fatalf("Error writing GeoJSON: %v", err)
		}
	default:
		log.Fatalf("Unknown format: %s", *format)
	}
}

func handleSimulate() {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	pf := addPayloadFlags(fs)
	fs.Parse(os.Args[2:])

	p, cfg := pf.load("  mapscreen-preview simulate --route-file itinerary.json")

	ctx := logging.With(context.Background(), logging.NewDevLogger())
	memo := cache.NewCache()
	screen := services.NewMapScreen(ctx, cfg, clock.New(), memo)
	defer screen.Close()

	loaded := make(chan services.ScreenState, 1)
	screen.Subscribe(func(state services.ScreenState) {
		if !state.Loading {
			select {
			case loaded <- state:
			default:
			}
		}
	})

	start := time.Now()
	screen.SetPayload(p)

	var state services.ScreenState
	select {
	case state = <-loaded:
	case <-time.After(cfg.Debounce.Delay + 5*time.Second):
		log.Fatal("Timed out waiting for itinerary")
	}

	fmt.Printf("Settled after %v\n", time.Since(start).Round(time.Millisecond))
	if state.Err != "" {
		fmt.Printf("  %s\n", state.Err)
		return
	}
	fmt.Printf("  Legs: %d\n", len(state.Legs))
	fmt.Printf("  Cached itineraries: %d\n", memo.Stats().FreshEntries)
	printViewport("Viewport", screen.Region())

	if state.Itinerary != nil {
		for _, leg := range state.Itinerary.Legs {
			state = screen.ToggleLeg(leg)
		}
	}
	fmt.Printf("  %s\n", state.BookLabel())

	req, err := screen.Book()
	if err != nil {
		log.Fatalf("Error booking: %v", err)
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding booking request: %v", err)
	}
	fmt.Printf("Booking request:\n%s\n", data)
}

func displayMode(leg itinerary.RenderedLeg) string {
	if leg.Mode == "" {
		return "ROUTE"
	}
	return leg.Mode
}

func printUsage() {
	fmt.Printf(`mapscreen-preview - Itinerary map screen preview tool

USAGE:
    mapscreen-preview <command> [options]

COMMANDS:
    decode-polyline     Decode Google polyline string to coordinates
    build               Build rendered legs and journey details from a payload
    viewport            Show the initial and fitted camera regions
    export              Write the rendered legs as KML or GeoJSON
    simulate            Run a payload through the map screen and book every leg
    help                Show this help message

EXAMPLES:
    # Decode polyline to see coordinates
    mapscreen-preview decode-polyline --polyline "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@" --verbose

    # Journey details for a structured itinerary
    mapscreen-preview build --route-file itinerary.json

    # Export for viewing in Google Earth
    mapscreen-preview export --route-file itinerary.json --format kml --out route.kml

Configuration is read from --config and MAPSCREEN__ environment variables.
`)
}
