package coverage

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/dpup/prefab/logging"

	"github.com/openroam/coverage-server/internal/metrics"
)

// Weights assigns a score weight to each technology class. All weights must
// lie in [0,1] for segment scores to stay in range.
type Weights map[TechClass]float64

// DefaultWeights returns the standard weight table: newer generations count
// for more, anything unrecognized counts a little.
func DefaultWeights() Weights {
	return Weights{
		Class5G:    1.0,
		Class4G:    0.7,
		Class3G:    0.4,
		ClassOther: 0.1,
	}
}

// For returns the weight for a raw observation status.
func (w Weights) For(status string) float64 {
	if v, ok := w[ClassOf(status)]; ok {
		return v
	}
	return w[ClassOther]
}

// Scorer aggregates observation statuses into a normalized coverage score and
// derives the display color for a score. Weights are fixed at construction so
// tests can run with alternate tables.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer with the given weight table; nil selects
// DefaultWeights.
func NewScorer(weights Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// Score returns the mean class weight over the given statuses, 0 when there
// are none. With the default table the result always lies in [0,1].
func (s *Scorer) Score(statuses []string) float64 {
	if len(statuses) == 0 {
		return 0
	}
	sum := 0.0
	for _, status := range statuses {
		sum += s.weights.For(status)
	}
	return sum / float64(len(statuses))
}

// Color maps a score to its display color: linear hue from 0 (red) at score 0
// to 120 (green) at score 1, at fixed 100% saturation and 50% lightness.
//
// Scores are expected to already be in [0,1]; out-of-range or NaN input is
// clamped, counted, and logged rather than treated as an error.
func (s *Scorer) Color(ctx context.Context, score float64) string {
	if math.IsNaN(score) || score < 0 || score > 1 {
		logging.Warnw(ctx, "coverage score outside [0,1], clamping for color mapping",
			"score", score)
		metrics.ScoreClampsTotal.Inc()
		score = clamp01(score)
	}

	hue := score * 120
	// Round away float noise so equal scores always map to the same string.
	hue = math.Round(hue*1000) / 1000

	return fmt.Sprintf("hsl(%s, 100%%, 50%%)", strconv.FormatFloat(hue, 'f', -1, 64))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
