package analysis

import "errors"

var (
	ErrInvalidCurveType     = errors.New("invalid curve type")
	ErrUnsupportedCurveType = errors.New("unsupported curve type")
	// ErrDegenerateGeometry never leaves the package: a perfect circle that
	// cannot be fitted is resolved as a linear slider instead.
	ErrDegenerateGeometry     = errors.New("degenerate geometry")
	ErrPathNotResolved        = errors.New("slider path not resolved")
	ErrNotSlider              = errors.New("hit object is not a slider")
	ErrInconsistentStackState = errors.New("inconsistent stack state")
)
