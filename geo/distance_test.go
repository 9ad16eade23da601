package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}

	// 0.018 degrees of longitude at the equator is roughly 2 km.
	twoKmAway := Point{Lat: 0, Lon: 0.018}
	assert.InDelta(t, 2000, Distance(origin, twoKmAway), 10)

	assert.Zero(t, Distance(origin, origin))
	assert.InDelta(t, Distance(origin, twoKmAway), Distance(twoKmAway, origin), 0.001)
}

func TestWithinThreshold(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}
	candidate := Point{Lat: 0, Lon: 0.018} // ~2000 m

	assert.False(t, WithinThreshold(origin, candidate, 1500))
	assert.True(t, WithinThreshold(origin, candidate, 2500))
}

func TestZeroThresholdExcludesEverything(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}

	assert.False(t, WithinThreshold(origin, origin, 0))
	assert.False(t, WithinThreshold(origin, Point{Lat: 0, Lon: 0.001}, -1))
}

func TestMaxThresholdDisablesFilter(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}
	farAway := Point{Lat: 45, Lon: 90}

	assert.True(t, WithinThreshold(origin, farAway, FilterMax))
	assert.True(t, WithinThreshold(origin, farAway, FilterMax+1))
}

func TestThresholdMonotonicity(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}
	candidate := Point{Lat: 0, Lon: 0.018}

	// Raising the threshold never excludes a previously included candidate.
	included := false
	for threshold := 0.0; threshold <= FilterMax; threshold += 250 {
		now := WithinThreshold(origin, candidate, threshold)
		if included {
			assert.True(t, now, "threshold %f", threshold)
		}
		included = included || now
	}
	assert.True(t, included)
}

func TestIsZero(t *testing.T) {
	assert.True(t, Point{}.IsZero())
	assert.False(t, Point{Lat: 0.1}.IsZero())
}
