package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"osuanalyser/dotosu"
)

func redLine(time int, beatLength float64) dotosu.TimingPoint {
	return dotosu.TimingPoint{Time: time, BeatLength: beatLength, Meter: 4, Uninherited: true}
}

func greenLine(time int, beatLength float64) dotosu.TimingPoint {
	return dotosu.TimingPoint{Time: time, BeatLength: beatLength, Meter: 4}
}

func TestBeatLengthAt(t *testing.T) {
	points := []dotosu.TimingPoint{
		redLine(0, 500),
		greenLine(1000, -50),
		redLine(2000, 300),
	}

	assert.Equal(t, 500.0, BeatLengthAt(points, 0))
	assert.Equal(t, 500.0, BeatLengthAt(points, 1500))
	assert.Equal(t, 300.0, BeatLengthAt(points, 2000))
	assert.Equal(t, 300.0, BeatLengthAt(points, 9000))

	t.Run("defaults before first point", func(t *testing.T) {
		assert.Equal(t, 500.0, BeatLengthAt([]dotosu.TimingPoint{redLine(100, 250)}, 50))
		assert.Equal(t, 500.0, BeatLengthAt(nil, 50))
	})

	t.Run("authored order is respected", func(t *testing.T) {
		// the later point appears first, so the scan stops before reaching 0ms
		unsorted := []dotosu.TimingPoint{redLine(3000, 200), redLine(0, 400)}
		assert.Equal(t, 500.0, BeatLengthAt(unsorted, 1000))
	})
}

func TestSliderVelocityAt(t *testing.T) {
	points := []dotosu.TimingPoint{
		redLine(0, 500),
		greenLine(1000, -50),
	}

	assert.Equal(t, 100*1.4*2.0*(1.0/500), SliderVelocityAt(points, 1.4, 1500))
	assert.Equal(t, 100*1.4*1.0*(1.0/500), SliderVelocityAt(points, 1.4, 500))

	t.Run("uninherited point resets multiplier", func(t *testing.T) {
		pts := append(points, redLine(2000, 250))
		assert.Equal(t, 100*1.0*1.0*(1.0/250), SliderVelocityAt(pts, 1, 2500))
	})

	t.Run("base beat length seeded from first red line", func(t *testing.T) {
		// query precedes every point, yet the base comes from the first red line
		pts := []dotosu.TimingPoint{greenLine(0, -200), redLine(100, 400)}
		assert.Equal(t, 100*1.0*0.5*(1.0/400), SliderVelocityAt(pts, 1, 50))
	})

	t.Run("no timing points", func(t *testing.T) {
		assert.Equal(t, 100*1.0*(1.0/500), SliderVelocityAt(nil, 1, 0))
	})
}
