package analysis

import (
	"fmt"
	"math"

	"osuanalyser/dotosu"
	"osuanalyser/geom"
)

// BallPositionAt returns where the ball of slider obj is at absolute time t.
// Repeats run back and forth along the path; times outside the slider fold
// onto the same zigzag.
func BallPositionAt(obj *dotosu.HitObject, t float64) (geom.Vector2, error) {
	if obj.Kind != dotosu.KindSlider || obj.Slider == nil {
		return geom.Vector2{}, fmt.Errorf("%w: %s at %dms", ErrNotSlider, obj.Kind, obj.Time)
	}
	s := obj.Slider
	if !s.Path.Resolved() {
		return geom.Vector2{}, fmt.Errorf("%w: slider at %dms", ErrPathNotResolved, obj.Time)
	}
	return samplePath(s.Path, float64(obj.Time), s.SlideDuration, t), nil
}

// samplePath expects a resolved path.
func samplePath(path dotosu.Path, start, slideDuration, t float64) geom.Vector2 {
	if slideDuration <= 0 {
		return path[0].Pos
	}
	rel := bounce(t-start, slideDuration)

	i := 0
	for i < len(path)-1 && path[i].Time < rel {
		i++
	}
	if i == 0 {
		return path[0].Pos
	}
	cur, prev := path[i], path[i-1]
	if cur.Time == prev.Time {
		return cur.Pos
	}
	return geom.SegmentFraction((cur.Time-rel)/(cur.Time-prev.Time), cur.Pos, prev.Pos)
}

// bounce folds elapsed time onto a triangle wave of period 2d with
// values in [0, d].
func bounce(elapsed, d float64) float64 {
	m := math.Mod(elapsed+d, 2*d)
	if m < 0 {
		m += 2 * d
	}
	return math.Abs(m - d)
}
