package analysis

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"osuanalyser/dotosu"
	"osuanalyser/geom"
)

// AnalyseBeatmap fills in combo numbering, slider paths, ticks, tail and
// end positions, and stacking offsets of every hit object of b.
//
// Either every derived field is written or, when an error is returned,
// b is left as it was. The beatmap must not have been analysed before.
func AnalyseBeatmap(b *dotosu.Beatmap, opts Options) error {
	opts = opts.withDefaults()
	log := opts.Logger

	objects := b.HitObjects
	sliders := 0
	for i := range objects {
		obj := &objects[i]
		switch obj.Kind {
		case dotosu.KindCircle, dotosu.KindSpinner, dotosu.KindHold:
		case dotosu.KindSlider:
			if obj.Slider == nil {
				return fmt.Errorf("%w: slider %d at %dms has no slider data", ErrInconsistentStackState, i, obj.Time)
			}
			sliders++
		default:
			return fmt.Errorf("%w: object %d at %dms has kind %d", ErrInconsistentStackState, i, obj.Time, obj.Kind)
		}
	}

	results, err := resolveSliders(b, newResolver(opts), opts.Workers)
	if err != nil {
		return err
	}

	leniency := ApproachRateToPreempt(b.Difficulty.ApproachRate) * b.General.StackLeniency
	depths, err := computeStackDepths(stackItems(objects, results), leniency)
	if err != nil {
		return err
	}

	assignCombos(objects, results)
	r := CircleSizeToRadius(b.Difficulty.CircleSize) / 10
	stacked := applyStacking(objects, depths, geom.Vec(-r, -r))

	log.Debug("beatmap analysed",
		"title", b.Metadata.Title,
		"version", b.Metadata.Version,
		"objects", len(objects),
		"sliders", sliders,
		"stacked", stacked,
	)
	return nil
}

// resolveSliders resolves every slider concurrently. The result slice is
// indexed like b.HitObjects; entries of other kinds stay zero. When several
// sliders fail, the error of the earliest one is returned.
func resolveSliders(b *dotosu.Beatmap, r resolver, workers int) ([]sliderResult, error) {
	results := make([]sliderResult, len(b.HitObjects))
	errs := make([]error, len(b.HitObjects))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range b.HitObjects {
		i := i
		obj := &b.HitObjects[i]
		if obj.Kind != dotosu.KindSlider {
			continue
		}
		g.Go(func() error {
			res, err := r.analyseSlider(b, obj)
			if err != nil {
				errs[i] = fmt.Errorf("slider %d at %dms: %w", i, obj.Time, err)
				return errs[i]
			}
			results[i] = res
			return nil
		})
	}
	if g.Wait() != nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}
