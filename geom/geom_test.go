package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vec(3, 4)
	b := Vec(1, -2)

	assert.Equal(t, Vec(4, 2), a.Add(b))
	assert.Equal(t, Vec(2, 6), a.Sub(b))
	assert.Equal(t, Vec(-3, -4), a.Neg())
	assert.Equal(t, Vec(6, 8), a.Mul(2))
	assert.Equal(t, Vec(1.5, 2), a.Div(2))
	assert.Equal(t, 5.0, a.Length())
	assert.Equal(t, 5.0, Distance(Vec(0, 0), a))
}

func TestSegmentFraction(t *testing.T) {
	p := SegmentFraction(0.25, Vec(0, 0), Vec(100, -40))
	assert.InDelta(t, 25, p.X, 1e-12)
	assert.InDelta(t, -10, p.Y, 1e-12)
}

func TestBezier(t *testing.T) {
	pts := []Vector2{Vec(0, 0), Vec(50, 100), Vec(100, 0)}

	assert.Equal(t, pts[0], Bezier(0, pts))
	assert.Equal(t, pts[2], Bezier(1, pts))

	mid := Bezier(0.5, pts)
	assert.InDelta(t, 50, mid.X, 1e-12)
	assert.InDelta(t, 50, mid.Y, 1e-12)

	// two points degrade to a straight line
	assert.Equal(t, Vec(30, 0), Bezier(0.3, []Vector2{Vec(0, 0), Vec(100, 0)}))
}

func TestCircleThrough(t *testing.T) {
	center, radius, ok := CircleThrough(Vec(0, 10), Vec(10, 0), Vec(0, -10))
	require.True(t, ok)
	assert.InDelta(t, 0, center.X, 1e-9)
	assert.InDelta(t, 0, center.Y, 1e-9)
	assert.InDelta(t, 10, radius, 1e-9)

	t.Run("collinear", func(t *testing.T) {
		_, _, ok := CircleThrough(Vec(0, 0), Vec(50, 50), Vec(100, 100))
		assert.False(t, ok)
	})

	t.Run("repeated point", func(t *testing.T) {
		_, _, ok := CircleThrough(Vec(0, 0), Vec(0, 0), Vec(100, 100))
		assert.False(t, ok)
	})
}

func TestLineThroughIntersection(t *testing.T) {
	p, ok := LineThrough(Vec(0, 0), Vec(10, 10)).Intersection(LineThrough(Vec(0, 10), Vec(10, 0)))
	require.True(t, ok)
	assert.InDelta(t, 5, p.X, 1e-12)
	assert.InDelta(t, 5, p.Y, 1e-12)

	_, ok = LineThrough(Vec(0, 0), Vec(10, 0)).Intersection(LineThrough(Vec(0, 5), Vec(10, 5)))
	assert.False(t, ok)
}
