package geom

import "math"

// Vector2 is a point or displacement on the osu! playfield.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Vec(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

func (a Vector2) Add(b Vector2) Vector2 { return Vector2{a.X + b.X, a.Y + b.Y} }
func (a Vector2) Sub(b Vector2) Vector2 { return Vector2{a.X - b.X, a.Y - b.Y} }
func (a Vector2) Neg() Vector2          { return Vector2{-a.X, -a.Y} }
func (a Vector2) Mul(k float64) Vector2 { return Vector2{a.X * k, a.Y * k} }
func (a Vector2) Div(k float64) Vector2 { return Vector2{a.X / k, a.Y / k} }
func (a Vector2) Length() float64       { return math.Hypot(a.X, a.Y) }
func (a Vector2) Equal(b Vector2) bool  { return a.X == b.X && a.Y == b.Y }

func Distance(a, b Vector2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// SegmentFraction returns the point at fraction t of the way from p1 to p2.
func SegmentFraction(t float64, p1, p2 Vector2) Vector2 {
	return p2.Sub(p1).Mul(t).Add(p1)
}

// Bezier evaluates the curve defined by points at parameter t using
// repeated linear interpolation (de Casteljau).
func Bezier(t float64, points []Vector2) Vector2 {
	switch len(points) {
	case 0:
		return Vector2{}
	case 1:
		return points[0]
	}
	buf := make([]Vector2, len(points))
	copy(buf, points)
	for n := len(buf) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			buf[i] = SegmentFraction(t, buf[i], buf[i+1])
		}
	}
	return buf[0]
}
