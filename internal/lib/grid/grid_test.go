package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/geo"
)

func makePoint(lat, lng float64) *coverage.Point {
	return &coverage.Point{
		Status:   "4G",
		Operator: "testnet",
		Location: geo.Point{Latitude: lat, Longitude: lng},
	}
}

func TestGrid_MembershipSoundness(t *testing.T) {
	// A query centered on a point's own coordinates must always return it,
	// including at negative coordinates and near cell boundaries.
	coords := []geo.Point{
		{Latitude: 43.6532, Longitude: -79.3832},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 0, Longitude: 0},
		{Latitude: 0.09999, Longitude: -0.00001},
		{Latitude: -0.05, Longitude: 0.05},
	}

	var points []*coverage.Point
	for _, c := range coords {
		points = append(points, makePoint(c.Latitude, c.Longitude))
	}
	g := New(points, 0.1)

	for i, p := range points {
		results := g.Query(p.Location.Latitude, p.Location.Longitude)
		assert.Contains(t, results, p, fmt.Sprintf("point %d must be found by a query on itself", i))
	}
}

func TestGrid_NeighborCellsIncluded(t *testing.T) {
	// A point one cell over is still returned by the 3x3 neighborhood query.
	neighbor := makePoint(43.75, -79.35)
	g := New([]*coverage.Point{neighbor}, 0.1)

	results := g.Query(43.69, -79.38)
	assert.Contains(t, results, neighbor)
}

func TestGrid_BeyondOneCellTruncated(t *testing.T) {
	// Documented approximation: the query never looks past the 3x3
	// neighborhood, so a point ~0.25 degrees away is not returned even though
	// a caller with a wider radius might expect it.
	far := makePoint(43.90, -79.38)
	g := New([]*coverage.Point{far}, 0.1)

	results := g.Query(43.65, -79.38)
	assert.NotContains(t, results, far)
	assert.Empty(t, results)
}

func TestGrid_BucketsSharePoints(t *testing.T) {
	// Multiple points in the same cell all come back from one query.
	a := makePoint(43.651, -79.381)
	b := makePoint(43.652, -79.382)
	c := makePoint(43.659, -79.389)
	g := New([]*coverage.Point{a, b, c}, 0.1)

	results := g.Query(43.655, -79.385)
	require.Len(t, results, 3)
	assert.Contains(t, results, a)
	assert.Contains(t, results, b)
	assert.Contains(t, results, c)
}

func TestGrid_Accessors(t *testing.T) {
	g := New([]*coverage.Point{
		makePoint(10.01, 10.01),
		makePoint(10.02, 10.02), // same cell
		makePoint(50.55, 50.55),
	}, 0.1)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.CellCount())
	assert.Equal(t, 0.1, g.CellSize())
}

func TestGrid_DefaultCellSize(t *testing.T) {
	g := New(nil, 0)
	assert.Equal(t, DefaultCellSizeDegrees, g.CellSize())
	assert.Empty(t, g.Query(0, 0))
}
