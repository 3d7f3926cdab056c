package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_analyses_total",
		Help: "Total number of route analyses performed",
	})
	AnalysisDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coverage_analysis_duration_ms",
		Help:    "Route analysis duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	SegmentsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_segments_scored_total",
		Help: "Total route segments scored (cache misses that ran the full pipeline)",
	})
	SegmentsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_segments_dropped_total",
		Help: "Total route segments dropped for having no qualifying observations",
	})
	SegmentCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_segment_cache_hits_total",
		Help: "Total segment cache hits",
	})
	SegmentCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_segment_cache_misses_total",
		Help: "Total segment cache misses",
	})
	ScoreClampsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coverage_score_clamps_total",
		Help: "Total out-of-range coverage scores clamped by the color mapping",
	})
)

func init() {
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(AnalysisDurationMs)
	prometheus.MustRegister(SegmentsScoredTotal)
	prometheus.MustRegister(SegmentsDroppedTotal)
	prometheus.MustRegister(SegmentCacheHitsTotal)
	prometheus.MustRegister(SegmentCacheMissesTotal)
	prometheus.MustRegister(ScoreClampsTotal)
}

// Handler exposes the default Prometheus registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}
