package analysis

import (
	"fmt"
	"log/slog"
	"math"

	"osuanalyser/dotosu"
	"osuanalyser/geom"
)

// resolver turns slider control points into time-keyed paths. It only reads
// its inputs, so one resolver can serve several goroutines.
type resolver struct {
	loopMs          int
	bezierPrecision int
	log             *slog.Logger
}

func newResolver(opts Options) resolver {
	opts = opts.withDefaults()
	return resolver{
		loopMs:          opts.LoopMs,
		bezierPrecision: opts.BezierPrecision,
		log:             opts.Logger,
	}
}

// ResolvePath computes the path of a single pass over s, lasting
// slideDuration ms. The slider itself is not modified.
func ResolvePath(s *dotosu.Slider, slideDuration float64, opts Options) (dotosu.Path, error) {
	return newResolver(opts).resolve(s, slideDuration)
}

func (r resolver) resolve(s *dotosu.Slider, slideDuration float64) (dotosu.Path, error) {
	switch s.CurveType {
	case dotosu.CurveLinear, dotosu.CurvePerfectCircle, dotosu.CurveBezier:
	case dotosu.CurveCatmull:
		return nil, fmt.Errorf("%w: catmull sliders are not supported", ErrUnsupportedCurveType)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCurveType, string(s.CurveType))
	}

	points := s.ControlPoints
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: slider has no control points", ErrInvalidCurveType)
	}
	// a slider that takes no time never leaves its head
	if !(slideDuration > 0) {
		return dotosu.Path{{Time: 0, Pos: points[0]}}, nil
	}

	switch s.CurveType {
	case dotosu.CurveLinear:
		return resolveLinear(points, s.Length, slideDuration), nil
	case dotosu.CurvePerfectCircle:
		if len(points) != 3 {
			return r.resolveBezier(points, s.Length, slideDuration), nil
		}
		path, err := r.resolvePerfect(points, s.Length, slideDuration)
		if err != nil {
			r.log.Debug("perfect circle fallback to linear", "points", points, "err", err)
			return resolveLinear(points, s.Length, slideDuration), nil
		}
		return path, nil
	default:
		return r.resolveBezier(points, s.Length, slideDuration), nil
	}
}

// resolveLinear maps every control point to the millisecond at which the
// ball reaches it.
func resolveLinear(points []geom.Vector2, length, slideDuration float64) dotosu.Path {
	velocity := length / slideDuration

	path := make(dotosu.Path, 0, len(points))
	dist := 0.0
	for i, p := range points {
		if i > 0 {
			dist += geom.Distance(points[i-1], p)
		}
		path = appendKeepLast(path, dotosu.PathPoint{Time: math.RoundToEven(dist / velocity), Pos: p})
	}
	return fitToDuration(path, slideDuration)
}

func (r resolver) resolvePerfect(points []geom.Vector2, length, slideDuration float64) (dotosu.Path, error) {
	center, radius, ok := geom.CircleThrough(points[0], points[1], points[2])
	if !ok {
		return nil, fmt.Errorf("%w: control points are collinear", ErrDegenerateGeometry)
	}

	// angles are measured from the y axis, matching the (sin, cos) placement below
	angle := func(p geom.Vector2) float64 {
		d := p.Sub(center)
		return math.Atan2(d.X, d.Y)
	}
	a1, a2, a3 := angle(points[0]), angle(points[1]), angle(points[2])

	rotation := length / radius
	if clockwise(a1, a2, a3) {
		rotation = -rotation
	}

	at := func(t float64) dotosu.PathPoint {
		a := a1 + rotation*(t/slideDuration)
		return dotosu.PathPoint{
			Time: t,
			Pos:  center.Add(geom.Vec(math.Sin(a), math.Cos(a)).Mul(radius)),
		}
	}

	end := int(math.Floor(slideDuration))
	path := make(dotosu.Path, 0, end/r.loopMs+2)
	path = append(path, at(0))
	for t := r.loopMs; t < end; t += r.loopMs {
		path = append(path, at(float64(t)))
	}
	path = appendKeepLast(path, at(slideDuration))
	return path, nil
}

// clockwise reports whether at least two of the three cyclic comparisons
// between the angles decrease.
func clockwise(a1, a2, a3 float64) bool {
	n := 0
	for _, dec := range []bool{a1 > a2, a2 > a3, a3 > a1} {
		if dec {
			n++
		}
	}
	return n >= 2
}

func (r resolver) resolveBezier(points []geom.Vector2, length, slideDuration float64) dotosu.Path {
	velocity := length / slideDuration

	var samples []geom.Vector2
	for _, curve := range splitBezier(points) {
		if len(curve) == 2 {
			samples = append(samples, curve...)
			continue
		}
		for i := 0; i <= r.bezierPrecision; i++ {
			samples = append(samples, geom.Bezier(float64(i)/float64(r.bezierPrecision), curve))
		}
	}

	path := make(dotosu.Path, 0, len(samples))
	dist := 0.0
	for i, p := range samples {
		if i > 0 {
			dist += geom.Distance(samples[i-1], p)
		}
		path = appendKeepLast(path, dotosu.PathPoint{Time: dist / velocity, Pos: p})
	}
	return fitToDuration(path, slideDuration)
}

// splitBezier cuts the control points into sub-curves at every repeated
// point (red anchor). A lone trailing point joins the previous curve.
func splitBezier(points []geom.Vector2) [][]geom.Vector2 {
	if len(points) >= 2 && points[0].Equal(points[1]) {
		points = points[1:]
	}

	var curves [][]geom.Vector2
	var cur []geom.Vector2
	for _, p := range points {
		if len(cur) >= 2 && p.Equal(cur[len(cur)-1]) {
			curves = append(curves, cur)
			cur = nil
		}
		cur = append(cur, p)
	}
	if len(cur) == 1 && len(curves) > 0 {
		curves[len(curves)-1] = append(curves[len(curves)-1], cur[0])
	} else {
		curves = append(curves, cur)
	}
	return curves
}

// appendKeepLast appends p, replacing the last entry when both share a
// timestamp.
func appendKeepLast(path dotosu.Path, p dotosu.PathPoint) dotosu.Path {
	if n := len(path); n > 0 && path[n-1].Time == p.Time {
		path[n-1] = p
		return path
	}
	return append(path, p)
}

// fitToDuration drops entries at or past slideDuration and ends the path
// with an entry at exactly slideDuration, interpolated between the
// bracketing entries or extrapolated along the last segment.
func fitToDuration(path dotosu.Path, slideDuration float64) dotosu.Path {
	n := len(path)
	if n == 0 {
		return path
	}

	i := 0
	for i < n && path[i].Time < slideDuration {
		i++
	}

	var end geom.Vector2
	switch {
	case i < n && i > 0:
		end = lerpAt(path[i-1], path[i], slideDuration)
	case i < n:
		end = path[i].Pos
	case n >= 2:
		end = lerpAt(path[n-2], path[n-1], slideDuration)
	default:
		end = path[n-1].Pos
	}

	fitted := make(dotosu.Path, i, i+1)
	copy(fitted, path[:i])
	return append(fitted, dotosu.PathPoint{Time: slideDuration, Pos: end})
}

// lerpAt returns the position at time t on the line through a and b. t may
// lie outside [a.Time, b.Time].
func lerpAt(a, b dotosu.PathPoint, t float64) geom.Vector2 {
	if b.Time == a.Time {
		return b.Pos
	}
	return geom.SegmentFraction((t-a.Time)/(b.Time-a.Time), a.Pos, b.Pos)
}
