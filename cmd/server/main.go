package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"

	"github.com/openroam/coverage-server/internal/cache"
	"github.com/openroam/coverage-server/internal/config"
	"github.com/openroam/coverage-server/internal/lib/analyzer"
	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/grid"
	"github.com/openroam/coverage-server/internal/metrics"
	"github.com/openroam/coverage-server/internal/pointsource"
	"github.com/openroam/coverage-server/internal/services"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file (defaults apply when omitted)")
	flag.Parse()

	appConfig, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	points, err := loadPoints(appConfig)
	if err != nil {
		log.Fatalf("Failed to load observation points: %v", err)
	}

	// Build the engine stack: index once, then serve read-only.
	pointGrid := grid.New(points, appConfig.Coverage.CellSizeDegrees)
	segmentCache := cache.NewSegmentCache()
	scorer := coverage.NewScorer(appConfig.Coverage.Weights.ToWeights())
	engine := analyzer.New(pointGrid, segmentCache, scorer, appConfig.EngineConfig())

	coverageService := services.NewCoverageService(engine, segmentCache, points, appConfig)

	log.Printf("Coverage API Server starting")
	log.Printf("Observation points indexed: %d across %d grid cells", pointGrid.Len(), pointGrid.CellCount())
	log.Printf("Segment size: %d, radius: %g degrees", appConfig.Coverage.SegmentSize, appConfig.Coverage.RadiusDegrees)

	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc("/api/v1/coverage/analyze", coverageService.AnalyzeRoute),
		prefab.WithHTTPHandlerFunc("/api/v1/coverage/dataset", coverageService.Dataset),
		prefab.WithHTTPHandlerFunc("/api/v1/coverage/cache", coverageService.CacheStats),
		prefab.WithHTTPHandlerFunc("/metrics", metrics.Handler().ServeHTTP),
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadPoints materializes the static observation document named in config.
func loadPoints(cfg *config.Config) ([]*coverage.Point, error) {
	loader := pointsource.NewLoader()

	switch {
	case cfg.Points.File != "" && cfg.Points.URL != "":
		return nil, fmt.Errorf("points.file and points.url are mutually exclusive")
	case cfg.Points.File != "":
		return loader.LoadFile(cfg.Points.File)
	case cfg.Points.URL != "":
		return loader.LoadURL(context.Background(), cfg.Points.URL)
	default:
		return nil, fmt.Errorf("no point source configured: set points.file or points.url")
	}
}

// homepageHandler serves a simple HTML homepage at the server root.
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>coverage-server</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">coverage-server</span>

Route coverage scoring API: per-segment network-coverage scores and
technology-class breakdowns along a travel route.

<span class="header">API Endpoints:</span>

  POST /api/v1/coverage/analyze        - Score a route (path or encoded polyline + filters)
  <a href="/api/v1/coverage/dataset">GET  /api/v1/coverage/dataset</a>        - Loaded observation set summary
  <a href="/api/v1/coverage/cache">GET  /api/v1/coverage/cache</a>          - Segment cache statistics
  <a href="/metrics">GET  /metrics</a>                        - Prometheus metrics

<span class="header">Example Usage:</span>
  curl -X POST /api/v1/coverage/analyze \
    -d '{"path":[{"lat":43.6532,"lng":-79.3832}],"filters":{"statuses":["5G"]}}'
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
