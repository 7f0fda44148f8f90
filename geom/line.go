package geom

import "math"

// CartesianLine is the line a*x + b*y + c = 0.
type CartesianLine struct {
	A, B, C float64
}

func LineThrough(p1, p2 Vector2) CartesianLine {
	a := p2.Y - p1.Y
	b := p1.X - p2.X
	return CartesianLine{A: a, B: b, C: -a*p1.X - b*p1.Y}
}

// PerpendicularBisector returns the line of points equidistant from p1 and p2.
func PerpendicularBisector(p1, p2 Vector2) CartesianLine {
	mid := p1.Add(p2).Div(2)
	d := p2.Sub(p1)
	return CartesianLine{A: d.X, B: d.Y, C: -d.X*mid.X - d.Y*mid.Y}
}

func (l CartesianLine) ParallelTo(o CartesianLine) bool {
	return isClose(l.A*o.B, o.A*l.B)
}

// Intersection returns false when the lines are parallel.
func (l CartesianLine) Intersection(o CartesianLine) (Vector2, bool) {
	if l.ParallelTo(o) {
		return Vector2{}, false
	}
	det := l.A*o.B - o.A*l.B
	return Vector2{
		X: (l.B*o.C - o.B*l.C) / det,
		Y: (l.C*o.A - o.C*l.A) / det,
	}, true
}

// CircleThrough fits the circle passing through three points. It fails when
// the points are collinear.
func CircleThrough(p1, p2, p3 Vector2) (center Vector2, radius float64, ok bool) {
	center, ok = PerpendicularBisector(p1, p2).Intersection(PerpendicularBisector(p2, p3))
	if !ok {
		return Vector2{}, 0, false
	}
	return center, Distance(center, p1), true
}

const relTol = 1e-9

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}
