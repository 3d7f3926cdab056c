package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/openroam/coverage-server/internal/cache"
	"github.com/openroam/coverage-server/internal/lib/analyzer"
	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/geo"
	"github.com/openroam/coverage-server/internal/lib/grid"
	"github.com/openroam/coverage-server/internal/pointsource"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "analyze-route":
		handleAnalyzeRoute()
	case "test-distance":
		handleTestDistance()
	case "test-grid":
		handleTestGrid()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAnalyzeRoute() {
	fs := flag.NewFlagSet("analyze-route", flag.ExitOnError)
	pointsFile := fs.String("points", "", "Path to GeoJSON file of coverage observations")
	routeFile := fs.String("route-json", "", "Path to JSON file containing an array of {lat,lng} points")
	encoded := fs.String("polyline", "", "Google encoded polyline (alternative to --route-json)")
	operators := fs.String("operators", "", "Comma-separated operator allow-list")
	statuses := fs.String("statuses", "", "Comma-separated status allow-list")
	countries := fs.String("countries", "", "Comma-separated country allow-list")
	deviceTypes := fs.String("device-types", "", "Comma-separated device type allow-list")
	verbose := fs.Bool("verbose", false, "Print per-segment breakdowns")

	fs.Parse(os.Args[2:])

	if *pointsFile == "" || (*routeFile == "" && *encoded == "") {
		fmt.Println("Example usage:")
		fmt.Println("  test-engine analyze-route --points points.geojson --route-json route.json")
		fmt.Println("  test-engine analyze-route --points points.geojson --polyline '_p~iF~ps|U_ulLnnqC' --statuses 5G,4G")
		os.Exit(1)
	}

	points, err := pointsource.NewLoader().LoadFile(*pointsFile)
	if err != nil {
		log.Fatalf("Error loading points: %v", err)
	}

	var path []geo.Point
	if *routeFile != "" {
		routeData, err := os.ReadFile(*routeFile)
		if err != nil {
			log.Fatalf("Error reading route file %s: %v", *routeFile, err)
		}
		if err := json.Unmarshal(routeData, &path); err != nil {
			log.Fatalf("Error parsing route JSON: %v", err)
		}
	} else {
		path, err = geo.DecodePolyline(*encoded)
		if err != nil {
			log.Fatalf("Error decoding polyline: %v", err)
		}
	}

	filters := coverage.FilterState{
		Operators:   splitList(*operators),
		Statuses:    splitList(*statuses),
		Countries:   splitList(*countries),
		DeviceTypes: splitList(*deviceTypes),
	}

	engine := analyzer.New(grid.New(points, 0), cache.NewSegmentCache(), coverage.NewScorer(nil), analyzer.Config{})

	segments, stats, err := engine.AnalyzeRoute(context.Background(), path, filters)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("Points loaded:  %d\n", len(points))
	fmt.Printf("Route points:   %d\n", len(path))
	fmt.Printf("Kept segments:  %d\n", stats.TotalSegments)
	if stats.TotalSegments > 0 {
		fmt.Printf("Average score:  %.3f\n", stats.AverageCoverage)
	} else {
		fmt.Println("Average score:  n/a (no segments with coverage)")
	}

	if *verbose {
		for i, seg := range segments {
			fmt.Printf("\nSegment %d (%d route points): score %.3f\n", i, len(seg.Points), seg.Score)
			for _, class := range coverage.Classes {
				fmt.Printf("  %-6s %d\n", class, seg.Breakdown[class])
			}
			fmt.Printf("  color  %s\n", stats.CoverageDistribution[i].Color)
		}
	}
}

func handleTestDistance() {
	fs := flag.NewFlagSet("test-distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "First point latitude")
	lng1 := fs.Float64("lng1", 0, "First point longitude")
	lat2 := fs.Float64("lat2", 0, "Second point latitude")
	lng2 := fs.Float64("lng2", 0, "Second point longitude")

	fs.Parse(os.Args[2:])

	d, err := geo.PointToPoint(
		geo.Point{Latitude: *lat1, Longitude: *lng1},
		geo.Point{Latitude: *lat2, Longitude: *lng2},
	)
	if err != nil {
		log.Fatalf("Distance error: %v", err)
	}
	fmt.Printf("Great-circle distance: %.3f km\n", d)
}

func handleTestGrid() {
	fs := flag.NewFlagSet("test-grid", flag.ExitOnError)
	pointsFile := fs.String("points", "", "Path to GeoJSON file of coverage observations")
	lat := fs.Float64("lat", 0, "Query latitude")
	lng := fs.Float64("lng", 0, "Query longitude")
	cellSize := fs.Float64("cell-size", grid.DefaultCellSizeDegrees, "Grid cell size in degrees")

	fs.Parse(os.Args[2:])

	if *pointsFile == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-engine test-grid --points points.geojson --lat 43.6532 --lng -79.3832")
		os.Exit(1)
	}

	points, err := pointsource.NewLoader().LoadFile(*pointsFile)
	if err != nil {
		log.Fatalf("Error loading points: %v", err)
	}

	g := grid.New(points, *cellSize)
	nearby := g.Query(*lat, *lng)

	fmt.Printf("Indexed %d points across %d cells (%.3f degree cells)\n", g.Len(), g.CellCount(), g.CellSize())
	fmt.Printf("3x3 neighborhood of (%.4f, %.4f): %d candidates\n", *lat, *lng, len(nearby))
	for _, p := range nearby {
		fmt.Printf("  %-6s %-14s (%.4f, %.4f) %s\n", p.Status, p.Operator, p.Location.Latitude, p.Location.Longitude, p.City)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printUsage() {
	fmt.Println("test-engine - Manual testing tool for the route coverage engine")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  test-engine <command> [flags]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  analyze-route   Run a full route analysis against a points file")
	fmt.Println("  test-distance   Compute the great-circle distance between two coordinates")
	fmt.Println("  test-grid       Inspect the spatial grid neighborhood around a coordinate")
	fmt.Println("  help            Show this message")
}
