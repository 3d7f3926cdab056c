package pointsource

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [-79.3832, 43.6532]},
      "properties": {
        "status": "5G",
        "operator": "Rogers",
        "city": "Toronto",
        "country": "Canada",
        "device_type": "phone"
      }
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [151.2093, -33.8688]},
      "properties": {
        "status": "4G",
        "operator": "Telstra",
        "city": "Sydney"
      }
    }
  ]
}`

func TestParse(t *testing.T) {
	points, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, points, 2)

	// GeoJSON stores longitude first; loaded points must not swap them.
	assert.Equal(t, 43.6532, points[0].Location.Latitude)
	assert.Equal(t, -79.3832, points[0].Location.Longitude)
	assert.Equal(t, "5G", points[0].Status)
	assert.Equal(t, "Rogers", points[0].Operator)
	assert.Equal(t, "Canada", points[0].Country)
	assert.Equal(t, "phone", points[0].DeviceType)

	// Optional attributes may be absent.
	assert.Equal(t, "4G", points[1].Status)
	assert.Empty(t, points[1].Country)
	assert.Empty(t, points[1].DeviceType)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"type": "Feature", "features": []}`))
	assert.Error(t, err, "Non-FeatureCollection documents are rejected")

	_, err = Parse([]byte(`{
	  "type": "FeatureCollection",
	  "features": [{"type": "Feature", "geometry": {"type": "LineString", "coordinates": []}, "properties": {}}]
	}`))
	assert.Error(t, err, "Non-Point geometry fails fast")

	_, err = Parse([]byte(`{
	  "type": "FeatureCollection",
	  "features": [{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-79.3832]}, "properties": {}}]
	}`))
	assert.Error(t, err, "Missing coordinate component fails fast")

	_, err = Parse([]byte(`{
	  "type": "FeatureCollection",
	  "features": [{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-400.0, 43.6]}, "properties": {}}]
	}`))
	assert.Error(t, err, "Out-of-range coordinates fail fast")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))

	points, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, points, 2)

	_, err = NewLoader().LoadFile(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.Error(t, err)
}

func TestLoadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDocument))
	}))
	defer server.Close()

	points, err := NewLoader().LoadURL(t.Context(), server.URL)
	require.NoError(t, err)
	assert.Len(t, points, 2)
}

func TestLoadURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewLoader().LoadURL(t.Context(), server.URL)
	assert.Error(t, err)
}
