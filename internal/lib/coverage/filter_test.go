package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openroam/coverage-server/internal/lib/geo"
)

func testPoint() *Point {
	return &Point{
		Status:     "5G",
		Operator:   "Rogers",
		City:       "Toronto",
		Country:    "Canada",
		DeviceType: "phone",
		Location:   geo.Point{Latitude: 43.6532, Longitude: -79.3832},
	}
}

func TestFilterState_EmptyPassesEverything(t *testing.T) {
	f := FilterState{}
	assert.True(t, f.IsEmpty())
	assert.True(t, f.Matches(testPoint()))
	assert.True(t, f.Matches(&Point{}))
}

func TestFilterState_SingleDimension(t *testing.T) {
	p := testPoint()

	assert.True(t, FilterState{Operators: []string{"Rogers"}}.Matches(p))
	assert.False(t, FilterState{Operators: []string{"Bell"}}.Matches(p))

	assert.True(t, FilterState{Statuses: []string{"4G", "5G"}}.Matches(p))
	assert.False(t, FilterState{Statuses: []string{"3G"}}.Matches(p))

	assert.True(t, FilterState{Countries: []string{"Canada"}}.Matches(p))
	assert.False(t, FilterState{Countries: []string{"France"}}.Matches(p))

	assert.True(t, FilterState{DeviceTypes: []string{"phone", "modem"}}.Matches(p))
	assert.False(t, FilterState{DeviceTypes: []string{"modem"}}.Matches(p))
}

func TestFilterState_AllDimensionsMustPass(t *testing.T) {
	p := testPoint()

	// OR within a dimension, AND across dimensions.
	f := FilterState{
		Operators: []string{"Bell", "Rogers"},
		Statuses:  []string{"5G"},
		Countries: []string{"Canada"},
	}
	assert.True(t, f.Matches(p))

	// One failing dimension fails the whole filter.
	f.Countries = []string{"France"}
	assert.False(t, f.Matches(p))
}

func TestFilterState_WideningIsMonotone(t *testing.T) {
	points := []*Point{
		{Status: "5G", Operator: "Rogers"},
		{Status: "4G", Operator: "Bell"},
		{Status: "3G", Operator: "Telus"},
	}

	count := func(f FilterState) int {
		n := 0
		for _, p := range points {
			if f.Matches(p) {
				n++
			}
		}
		return n
	}

	narrow := FilterState{Operators: []string{"Rogers"}}
	wider := FilterState{Operators: []string{"Rogers", "Bell"}}
	widest := FilterState{Operators: []string{"Rogers", "Bell", "Telus"}}

	assert.LessOrEqual(t, count(narrow), count(wider))
	assert.LessOrEqual(t, count(wider), count(widest))
	assert.Equal(t, 3, count(widest))
}
