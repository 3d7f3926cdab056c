package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openroam/coverage-server/internal/cache"
	"github.com/openroam/coverage-server/internal/config"
	"github.com/openroam/coverage-server/internal/lib/analyzer"
	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/geo"
)

// CoverageService exposes the route-coverage engine over HTTP JSON handlers.
// It is bound to one loaded observation set; restarting with new data builds
// a new service.
type CoverageService struct {
	engine  *analyzer.Engine
	store   *cache.SegmentCache
	config  *config.Config
	dataset datasetSummary
}

// NewCoverageService creates a CoverageService over a built engine.
func NewCoverageService(engine *analyzer.Engine, store *cache.SegmentCache, points []*coverage.Point, cfg *config.Config) *CoverageService {
	return &CoverageService{
		engine:  engine,
		store:   store,
		config:  cfg,
		dataset: summarizeDataset(points),
	}
}

// analyzeRequest is the POST body for route analysis. The route may be given
// as raw coordinates or as a Google encoded polyline, not both.
type analyzeRequest struct {
	Path            []geo.Point          `json:"path,omitempty"`
	EncodedPolyline string               `json:"encoded_polyline,omitempty"`
	Filters         coverage.FilterState `json:"filters"`
}

type analyzeResponse struct {
	AnalysisID string                   `json:"analysis_id"`
	Segments   []coverage.RouteSegment  `json:"segments"`
	Stats      statsResponse            `json:"stats"`
	ElapsedMs  int64                    `json:"elapsed_ms"`
}

// statsResponse mirrors coverage.Stats but serializes the no-data average as
// null instead of NaN, which JSON cannot encode. A null average means "no
// data", not a score of zero.
type statsResponse struct {
	TotalSegments        int                      `json:"total_segments"`
	AverageCoverage      *float64                 `json:"average_coverage"`
	CoverageDistribution []coverage.SegmentRecord `json:"coverage_distribution"`
}

func toStatsResponse(stats coverage.Stats) statsResponse {
	resp := statsResponse{
		TotalSegments:        stats.TotalSegments,
		CoverageDistribution: stats.CoverageDistribution,
	}
	if stats.TotalSegments > 0 {
		avg := stats.AverageCoverage
		resp.AverageCoverage = &avg
	}
	return resp
}

// AnalyzeRoute handles POST /api/v1/coverage/analyze.
func (s *CoverageService) AnalyzeRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	path, err := resolvePath(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	segments, stats, err := s.engine.AnalyzeRoute(r.Context(), path, req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	analysisID := uuid.NewString()
	log.Printf("AnalyzeRoute %s: %d route points, %d kept segments in %v",
		analysisID, len(path), stats.TotalSegments, time.Since(start))

	if segments == nil {
		segments = []coverage.RouteSegment{}
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		AnalysisID: analysisID,
		Segments:   segments,
		Stats:      toStatsResponse(stats),
		ElapsedMs:  time.Since(start).Milliseconds(),
	})
}

// resolvePath produces the route coordinates from whichever input form the
// request used.
func resolvePath(req analyzeRequest) ([]geo.Point, error) {
	switch {
	case len(req.Path) > 0 && req.EncodedPolyline != "":
		return nil, fmt.Errorf("provide either path or encoded_polyline, not both")
	case len(req.Path) > 0:
		return req.Path, nil
	case req.EncodedPolyline != "":
		path, err := geo.DecodePolyline(req.EncodedPolyline)
		if err != nil {
			return nil, fmt.Errorf("invalid encoded_polyline: %v", err)
		}
		return path, nil
	default:
		return nil, fmt.Errorf("route path is required")
	}
}

// datasetSummary describes the loaded observation set so UIs can populate
// filter controls from real values.
type datasetSummary struct {
	PointCount  int      `json:"point_count"`
	Countries   []string `json:"countries"`
	DeviceTypes []string `json:"device_types"`
	Operators   []string `json:"operators"`
	Statuses    []string `json:"statuses"`
}

func summarizeDataset(points []*coverage.Point) datasetSummary {
	countries := make(map[string]struct{})
	deviceTypes := make(map[string]struct{})
	operators := make(map[string]struct{})
	statuses := make(map[string]struct{})

	for _, p := range points {
		if p.Country != "" {
			countries[p.Country] = struct{}{}
		}
		if p.DeviceType != "" {
			deviceTypes[p.DeviceType] = struct{}{}
		}
		if p.Operator != "" {
			operators[p.Operator] = struct{}{}
		}
		if p.Status != "" {
			statuses[p.Status] = struct{}{}
		}
	}

	return datasetSummary{
		PointCount:  len(points),
		Countries:   sortedKeys(countries),
		DeviceTypes: sortedKeys(deviceTypes),
		Operators:   sortedKeys(operators),
		Statuses:    sortedKeys(statuses),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// datasetResponse pairs the dataset summary with the engine settings in
// effect, so clients can display analysis parameters alongside the data.
type datasetResponse struct {
	datasetSummary
	CellSizeDegrees float64 `json:"cell_size_degrees"`
	SegmentSize     int     `json:"segment_size"`
	RadiusDegrees   float64 `json:"radius_degrees"`
}

// Dataset handles GET /api/v1/coverage/dataset.
func (s *CoverageService) Dataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, datasetResponse{
		datasetSummary:  s.dataset,
		CellSizeDegrees: s.config.Coverage.CellSizeDegrees,
		SegmentSize:     s.config.Coverage.SegmentSize,
		RadiusDegrees:   s.config.Coverage.RadiusDegrees,
	})
}

// CacheStats handles GET /api/v1/coverage/cache.
func (s *CoverageService) CacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
