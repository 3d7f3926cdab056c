// Package grid implements a uniform-cell spatial index over an immutable set
// of coverage observations, for fast "which points are near here" queries.
package grid

import (
	"math"

	"github.com/openroam/coverage-server/internal/lib/coverage"
)

// DefaultCellSizeDegrees is the standard grid cell width: 0.1 degree, roughly
// 11 km at the equator.
const DefaultCellSizeDegrees = 0.1

type cellKey struct {
	row int // floor(lat / cellSize)
	col int // floor(lng / cellSize)
}

// Grid buckets observation points into fixed-size latitude/longitude cells.
// A proximity query only scans the cell containing the query point plus its 8
// neighbors, instead of every point in the set.
//
// The index is built once from an immutable point set and is read-only
// afterward, so concurrent readers need no locking. Rebuilding for a new
// point set means constructing a new Grid.
type Grid struct {
	cellSize float64
	cells    map[cellKey][]*coverage.Point
	size     int
}

// New partitions the given points into grid cells. cellSize <= 0 selects
// DefaultCellSizeDegrees. Bucket membership is fixed at build time; points
// are referenced, never copied.
func New(points []*coverage.Point, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSizeDegrees
	}
	g := &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]*coverage.Point),
		size:     len(points),
	}
	for _, p := range points {
		key := g.keyFor(p.Location.Latitude, p.Location.Longitude)
		g.cells[key] = append(g.cells[key], p)
	}
	return g
}

func (g *Grid) keyFor(lat, lng float64) cellKey {
	return cellKey{
		row: int(math.Floor(lat / g.cellSize)),
		col: int(math.Floor(lng / g.cellSize)),
	}
}

// Query returns every point in the 3x3 cell neighborhood centered on the cell
// containing (lat, lng).
//
// This is a deliberate approximation: it assumes the caller's effective search
// radius never exceeds one cell width. Points more than one cell away are
// never returned, even if a literal distance threshold would admit them.
// Callers needing exact radius semantics must re-check candidates with a
// precise distance test.
func (g *Grid) Query(lat, lng float64) []*coverage.Point {
	center := g.keyFor(lat, lng)

	var results []*coverage.Point
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			key := cellKey{row: center.row + dr, col: center.col + dc}
			results = append(results, g.cells[key]...)
		}
	}
	return results
}

// CellSize returns the configured cell width in degrees.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of indexed points.
func (g *Grid) Len() int {
	return g.size
}

// CellCount returns the number of non-empty cells.
func (g *Grid) CellCount() int {
	return len(g.cells)
}
