// Package analyzer implements the route-coverage engine: it splits a route
// into fixed-size segments, finds nearby observations for each segment via
// the spatial grid, applies the caller's filters, scores what remains, and
// memoizes per-segment results.
package analyzer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/openroam/coverage-server/internal/cache"
	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/geo"
	"github.com/openroam/coverage-server/internal/lib/grid"
	"github.com/openroam/coverage-server/internal/metrics"
)

const (
	// DefaultSegmentSize is the number of route points per segment; the last
	// segment keeps the (possibly shorter) remainder.
	DefaultSegmentSize = 5

	// DefaultRadiusDegrees is the narrow-phase distance threshold: 0.01
	// degree, roughly 1.1 km at the equator. It must not exceed the grid cell
	// size or the broad phase will truncate candidates.
	DefaultRadiusDegrees = 0.01
)

// Config holds engine tunables. Zero values fall back to the defaults above.
type Config struct {
	SegmentSize   int
	RadiusDegrees float64
}

// Engine computes per-segment coverage for routes against one immutable
// observation set. An Engine and its segment store are bound to that set for
// their whole lifetime; when the set changes, build a new grid and a new
// engine, do not mutate this one.
type Engine struct {
	grid        *grid.Grid
	store       cache.SegmentStore
	scorer      *coverage.Scorer
	segmentSize int
	radiusKm    float64
}

// New creates an Engine over a built grid. A nil store disables memoization
// by using a fresh unbounded cache; a nil scorer uses the default weights.
func New(g *grid.Grid, store cache.SegmentStore, scorer *coverage.Scorer, cfg Config) *Engine {
	if store == nil {
		store = cache.NewSegmentCache()
	}
	if scorer == nil {
		scorer = coverage.NewScorer(nil)
	}
	segmentSize := cfg.SegmentSize
	if segmentSize <= 0 {
		segmentSize = DefaultSegmentSize
	}
	radiusDegrees := cfg.RadiusDegrees
	if radiusDegrees <= 0 {
		radiusDegrees = DefaultRadiusDegrees
	}
	return &Engine{
		grid:        g,
		store:       store,
		scorer:      scorer,
		segmentSize: segmentSize,
		radiusKm:    radiusDegrees * geo.KmPerDegree,
	}
}

// AnalyzeRoute partitions the route into segments, scores each, drops
// segments with no qualifying observations, and aggregates route statistics.
//
// Stats.AverageCoverage is NaN when no segments are kept; callers must check
// Stats.TotalSegments before trusting it.
func (e *Engine) AnalyzeRoute(ctx context.Context, path []geo.Point, filters coverage.FilterState) ([]coverage.RouteSegment, coverage.Stats, error) {
	start := time.Now()
	metrics.AnalysesTotal.Inc()

	var kept []coverage.RouteSegment
	for _, chunk := range chunkPath(path, e.segmentSize) {
		segment, err := e.SegmentCoverage(ctx, chunk, filters)
		if err != nil {
			return nil, coverage.Stats{}, err
		}
		if !segment.HasCoverage() {
			metrics.SegmentsDroppedTotal.Inc()
			continue
		}
		kept = append(kept, segment)
	}

	stats := e.buildStats(ctx, kept)
	metrics.AnalysisDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	return kept, stats, nil
}

// SegmentCoverage scores one segment: cache lookup first, then the two-phase
// candidate search (coarse grid neighborhood, precise great-circle radius),
// then filtering and scoring.
func (e *Engine) SegmentCoverage(ctx context.Context, chunk []geo.Point, filters coverage.FilterState) (coverage.RouteSegment, error) {
	if len(chunk) == 0 {
		return coverage.RouteSegment{}, fmt.Errorf("segment must contain at least one route point")
	}
	for i, p := range chunk {
		if !p.IsValid() {
			return coverage.RouteSegment{}, fmt.Errorf("route point %d: %w", i, geo.ErrInvalidCoordinate)
		}
	}

	key := segmentFingerprint(chunk, filters)
	if cached, ok := e.store.Get(key); ok {
		metrics.SegmentCacheHitsTotal.Inc()
		return *cached, nil
	}
	metrics.SegmentCacheMissesTotal.Inc()

	// Broad phase: union the grid neighborhoods of every chunk point. A
	// candidate found near any one point is considered once for the whole
	// chunk (dedup by identity).
	seen := make(map[*coverage.Point]struct{})
	var candidates []*coverage.Point
	for _, p := range chunk {
		for _, c := range e.grid.Query(p.Latitude, p.Longitude) {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			candidates = append(candidates, c)
		}
	}

	// Narrow phase: filters plus the precise radius test. Grid membership
	// alone does not make a candidate "nearby".
	breakdown := coverage.NewBreakdown()
	var statuses []string
	for _, c := range candidates {
		if !filters.Matches(c) {
			continue
		}
		if !e.withinRadius(c, chunk) {
			continue
		}
		breakdown[coverage.ClassOf(c.Status)]++
		statuses = append(statuses, c.Status)
	}

	segment := coverage.RouteSegment{
		Points:    append([]geo.Point(nil), chunk...),
		Score:     e.scorer.Score(statuses),
		Breakdown: breakdown,
	}
	metrics.SegmentsScoredTotal.Inc()

	e.store.Put(key, &segment)
	return segment, nil
}

// withinRadius reports whether the candidate lies within the radius of at
// least one chunk point.
func (e *Engine) withinRadius(c *coverage.Point, chunk []geo.Point) bool {
	for _, p := range chunk {
		d := geo.Distance(p.Latitude, p.Longitude, c.Location.Latitude, c.Location.Longitude)
		if d <= e.radiusKm {
			return true
		}
	}
	return false
}

func (e *Engine) buildStats(ctx context.Context, kept []coverage.RouteSegment) coverage.Stats {
	stats := coverage.Stats{
		TotalSegments:        len(kept),
		CoverageDistribution: make([]coverage.SegmentRecord, 0, len(kept)),
	}

	sum := 0.0
	for _, segment := range kept {
		sum += segment.Score
		stats.CoverageDistribution = append(stats.CoverageDistribution, coverage.SegmentRecord{
			Score:      segment.Score,
			Color:      e.scorer.Color(ctx, segment.Score),
			PointCount: segment.Breakdown.Total(),
		})
	}

	if len(kept) == 0 {
		stats.AverageCoverage = math.NaN()
	} else {
		stats.AverageCoverage = sum / float64(len(kept))
	}
	return stats
}

// chunkPath splits the route into contiguous runs of up to size points, in
// original order, keeping the shorter remainder.
func chunkPath(path []geo.Point, size int) [][]geo.Point {
	if len(path) == 0 {
		return nil
	}
	chunks := make([][]geo.Point, 0, (len(path)+size-1)/size)
	for start := 0; start < len(path); start += size {
		end := start + size
		if end > len(path) {
			end = len(path)
		}
		chunks = append(chunks, path[start:end])
	}
	return chunks
}
