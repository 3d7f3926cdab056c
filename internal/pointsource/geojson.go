// Package pointsource materializes the static coverage-observation document
// into the in-memory point set the engine indexes. It is the loading layer in
// front of the core: the core itself never performs I/O.
package pointsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/openroam/coverage-server/internal/lib/coverage"
	"github.com/openroam/coverage-server/internal/lib/geo"
)

// Loader fetches and parses GeoJSON observation documents.
type Loader struct {
	httpClient *http.Client
}

// NewLoader creates a Loader with a sane fetch timeout.
func NewLoader() *Loader {
	return &Loader{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// geoJSON document structure. Only Point features are meaningful here.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string          `json:"type"`
	Geometry   geometry        `json:"geometry"`
	Properties pointProperties `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type pointProperties struct {
	Status     string `json:"status"`
	Operator   string `json:"operator"`
	City       string `json:"city"`
	Country    string `json:"country"`
	DeviceType string `json:"device_type"`
}

// LoadFile reads observation points from a local GeoJSON document.
func (l *Loader) LoadFile(path string) ([]*coverage.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read points file %s: %w", path, err)
	}
	points, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse points file %s: %w", path, err)
	}
	return points, nil
}

// LoadURL downloads and parses a GeoJSON observation document.
func (l *Loader) LoadURL(ctx context.Context, url string) ([]*coverage.Point, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download points document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d downloading points from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read points response: %w", err)
	}

	points, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse points from %s: %w", url, err)
	}
	return points, nil
}

// Parse converts a GeoJSON FeatureCollection into observation points.
//
// The engine assumes validated input, so parsing fails fast on malformed
// records: a feature with non-Point geometry, missing coordinates, or
// non-finite values is an error, never a silently skipped or zero-scored
// observation.
func Parse(data []byte) ([]*coverage.Point, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	points := make([]*coverage.Point, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry.Type != "Point" {
			return nil, fmt.Errorf("feature %d: unsupported geometry type %q", i, f.Geometry.Type)
		}
		if len(f.Geometry.Coordinates) < 2 {
			return nil, fmt.Errorf("feature %d: missing coordinates", i)
		}

		// GeoJSON coordinate order is longitude, latitude.
		location := geo.Point{
			Latitude:  f.Geometry.Coordinates[1],
			Longitude: f.Geometry.Coordinates[0],
		}
		if !location.IsValid() {
			return nil, fmt.Errorf("feature %d: %w", i, geo.ErrInvalidCoordinate)
		}

		points = append(points, &coverage.Point{
			Status:     f.Properties.Status,
			Operator:   f.Properties.Operator,
			City:       f.Properties.City,
			Country:    f.Properties.Country,
			DeviceType: f.Properties.DeviceType,
			Location:   location,
		})
	}

	return points, nil
}
