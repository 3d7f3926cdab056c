package coverage

import (
	"github.com/openroam/coverage-server/internal/lib/geo"
)

// TechClass is the network-technology class an observation counts toward.
// Statuses outside the known generations fall into ClassOther.
type TechClass string

const (
	Class5G    TechClass = "5G"
	Class4G    TechClass = "4G"
	Class3G    TechClass = "3G"
	ClassOther TechClass = "other"
)

// Classes lists every technology class in display order.
var Classes = []TechClass{Class5G, Class4G, Class3G, ClassOther}

// ClassOf maps a raw observation status to its technology class.
func ClassOf(status string) TechClass {
	switch status {
	case "5G":
		return Class5G
	case "4G":
		return Class4G
	case "3G":
		return Class3G
	default:
		return ClassOther
	}
}

// Point is a single geo-tagged network-coverage observation. Points are
// immutable once loaded; the spatial index and the analyzer reference them by
// pointer and never copy or mutate them.
type Point struct {
	Status     string    `json:"status"`
	Operator   string    `json:"operator"`
	City       string    `json:"city"`
	Country    string    `json:"country,omitempty"`
	DeviceType string    `json:"device_type,omitempty"`
	Location   geo.Point `json:"location"`
}

// Breakdown maps each technology class to an observation count.
type Breakdown map[TechClass]int

// NewBreakdown returns a breakdown with every class present at zero, so
// consumers always see all four keys.
func NewBreakdown() Breakdown {
	b := make(Breakdown, len(Classes))
	for _, c := range Classes {
		b[c] = 0
	}
	return b
}

// Total sums observation counts across all classes.
func (b Breakdown) Total() int {
	total := 0
	for _, n := range b {
		total += n
	}
	return total
}

// RouteSegment is a contiguous run of route points paired with its computed
// coverage score in [0,1] and per-class observation breakdown. Immutable after
// creation; superseded wholesale by the next analysis run.
type RouteSegment struct {
	Points    []geo.Point `json:"points"`
	Score     float64     `json:"score"`
	Breakdown Breakdown   `json:"breakdown"`
}

// HasCoverage reports whether at least one class counted an observation.
// Segments without coverage carry no information and are dropped from results.
func (s RouteSegment) HasCoverage() bool {
	for _, n := range s.Breakdown {
		if n > 0 {
			return true
		}
	}
	return false
}

// SegmentRecord is one per-segment entry in Stats.CoverageDistribution, used
// by downstream reporting and rendering.
type SegmentRecord struct {
	Score      float64 `json:"score"`
	Color      string  `json:"color"`
	PointCount int     `json:"point_count"`
}

// Stats is the route-level aggregate over kept segments.
//
// AverageCoverage is NaN when TotalSegments is zero: that means "no data",
// not a score of zero, and callers must check TotalSegments before using it.
type Stats struct {
	TotalSegments        int             `json:"total_segments"`
	AverageCoverage      float64         `json:"average_coverage"`
	CoverageDistribution []SegmentRecord `json:"coverage_distribution"`
}
