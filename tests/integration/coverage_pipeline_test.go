package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroam/coverage-server/internal/cache"
	"github.com/openroam/coverage-server/internal/config"
	"github.com/openroam/coverage-server/internal/lib/analyzer"
	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/geo"
	"github.com/openroam/coverage-server/internal/lib/grid"
	"github.com/openroam/coverage-server/internal/pointsource"
	"github.com/openroam/coverage-server/internal/services"
)

// buildDocument produces a GeoJSON document with a line of observations along
// a short stretch of downtown Toronto.
func buildDocument() []byte {
	type entry struct {
		status, operator, deviceType string
		lat, lng                     float64
	}
	entries := []entry{
		{"5G", "Rogers", "phone", 43.6532, -79.3832},
		{"5G", "Rogers", "modem", 43.6536, -79.3836},
		{"4G", "Bell", "phone", 43.6540, -79.3840},
		{"4G", "Telus", "phone", 43.6544, -79.3844},
		{"3G", "Bell", "modem", 43.6548, -79.3848},
		{"no signal", "Rogers", "phone", 43.6552, -79.3852},
	}

	var features bytes.Buffer
	for i, e := range entries {
		if i > 0 {
			features.WriteString(",")
		}
		fmt.Fprintf(&features, `{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [%g, %g]},
			"properties": {"status": %q, "operator": %q, "city": "Toronto", "country": "Canada", "device_type": %q}
		}`, e.lng, e.lat, e.status, e.operator, e.deviceType)
	}

	return []byte(fmt.Sprintf(`{"type": "FeatureCollection", "features": [%s]}`, features.String()))
}

func buildStack(t *testing.T) (*analyzer.Engine, *cache.SegmentCache, []*coverage.Point, *config.Config) {
	t.Helper()

	points, err := pointsource.Parse(buildDocument())
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	store := cache.NewSegmentCache()
	engine := analyzer.New(
		grid.New(points, cfg.Coverage.CellSizeDegrees),
		store,
		coverage.NewScorer(cfg.Coverage.Weights.ToWeights()),
		cfg.EngineConfig(),
	)
	return engine, store, points, cfg
}

func route() []geo.Point {
	// Seven points tracking the observation line: two segments, [5, 2].
	return []geo.Point{
		{Latitude: 43.6532, Longitude: -79.3832},
		{Latitude: 43.6536, Longitude: -79.3836},
		{Latitude: 43.6540, Longitude: -79.3840},
		{Latitude: 43.6544, Longitude: -79.3844},
		{Latitude: 43.6548, Longitude: -79.3848},
		{Latitude: 43.6552, Longitude: -79.3852},
		{Latitude: 43.6556, Longitude: -79.3856},
	}
}

func TestPipeline_LoadIndexAnalyze(t *testing.T) {
	engine, store, points, _ := buildStack(t)
	require.Len(t, points, 6)

	segments, stats, err := engine.AnalyzeRoute(context.Background(), route(), coverage.FilterState{})
	require.NoError(t, err)

	require.Len(t, segments, 2)
	assert.Equal(t, 2, stats.TotalSegments)
	assert.Greater(t, stats.AverageCoverage, 0.0)
	assert.LessOrEqual(t, stats.AverageCoverage, 1.0)

	// All six observations sit within radius of the route, so the two
	// breakdowns together account for every point.
	total := 0
	for _, s := range segments {
		total += s.Breakdown.Total()
	}
	assert.GreaterOrEqual(t, total, 6)

	// Each kept segment has a distribution record with a plausible color.
	require.Len(t, stats.CoverageDistribution, 2)
	for _, record := range stats.CoverageDistribution {
		assert.Regexp(t, `^hsl\(\d+(\.\d+)?, 100%, 50%\)$`, record.Color)
	}

	// One cache entry per chunk.
	assert.Equal(t, 2, store.Len())
}

func TestPipeline_FilteredReanalysisUsesCache(t *testing.T) {
	engine, store, _, _ := buildStack(t)
	ctx := context.Background()

	_, statsAll, err := engine.AnalyzeRoute(ctx, route(), coverage.FilterState{})
	require.NoError(t, err)

	// Re-render with the same filters: pure cache hits, identical stats.
	before := store.Stats()
	_, statsAgain, err := engine.AnalyzeRoute(ctx, route(), coverage.FilterState{})
	require.NoError(t, err)
	after := store.Stats()

	assert.Equal(t, statsAll, statsAgain)
	assert.Equal(t, before.Entries, after.Entries, "No new entries on re-render")
	assert.Greater(t, after.Hits, before.Hits)

	// A different filter set computes fresh entries under new keys.
	_, statsRogers, err := engine.AnalyzeRoute(ctx, route(), coverage.FilterState{
		Operators: []string{"Rogers"},
	})
	require.NoError(t, err)
	assert.Greater(t, store.Stats().Entries, after.Entries)

	// Filtering can only shrink per-segment counts.
	assert.LessOrEqual(t, statsRogers.TotalSegments, statsAll.TotalSegments)
}

func TestPipeline_HTTPRoundTrip(t *testing.T) {
	engine, store, points, cfg := buildStack(t)
	svc := services.NewCoverageService(engine, store, points, cfg)

	body := `{
		"path": [
			{"lat": 43.6532, "lng": -79.3832},
			{"lat": 43.6540, "lng": -79.3840},
			{"lat": 43.6548, "lng": -79.3848}
		],
		"filters": {"statuses": ["5G", "4G"]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/coverage/analyze", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	svc.AnalyzeRoute(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AnalysisID string `json:"analysis_id"`
		Segments   []coverage.RouteSegment `json:"segments"`
		Stats      struct {
			TotalSegments   int      `json:"total_segments"`
			AverageCoverage *float64 `json:"average_coverage"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.AnalysisID)
	require.Equal(t, 1, resp.Stats.TotalSegments)
	require.NotNil(t, resp.Stats.AverageCoverage)

	// Only 5G and 4G observations qualify: mean of {1.0, 1.0, 0.7, 0.7}.
	assert.InDelta(t, 0.85, *resp.Stats.AverageCoverage, 1e-9)

	// The excluded classes stay at zero in the returned breakdown.
	require.Len(t, resp.Segments, 1)
	assert.Zero(t, resp.Segments[0].Breakdown[coverage.Class3G])
	assert.Zero(t, resp.Segments[0].Breakdown[coverage.ClassOther])
}
