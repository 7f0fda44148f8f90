package analysis

import (
	"io"
	"log/slog"
	"runtime"
)

const (
	DefaultLoopMs          = 10
	DefaultBezierPrecision = 50
)

type Options struct {
	// LoopMs is the sampling step of perfect-circle paths.
	LoopMs int
	// BezierPrecision is the number of subdivisions of each Bézier curve.
	BezierPrecision int
	// Workers bounds how many sliders are resolved concurrently.
	Workers int
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		LoopMs:          DefaultLoopMs,
		BezierPrecision: DefaultBezierPrecision,
		Workers:         runtime.GOMAXPROCS(0),
	}
}

// withDefaults replaces unset or invalid values by their defaults.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.LoopMs <= 0 {
		o.LoopMs = def.LoopMs
	}
	if o.BezierPrecision <= 0 {
		o.BezierPrecision = def.BezierPrecision
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
