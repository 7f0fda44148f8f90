package analysis

import (
	"math"

	"osuanalyser/dotosu"
	"osuanalyser/geom"
)

// sliderResult is everything derived for one slider before it is written
// back onto the beatmap.
type sliderResult struct {
	slideDuration float64
	path          dotosu.Path
	ticks         []dotosu.Tick
	tail          geom.Vector2
	end           geom.Vector2
}

func (r sliderResult) endTime(start int, slides int) float64 {
	return float64(start) + r.slideDuration*float64(slides)
}

// slideDuration is the time of one pass over s starting at time.
// Non-finite or negative results, from unusual timing points, count as 0.
func slideDuration(b *dotosu.Beatmap, s *dotosu.Slider, time float64) float64 {
	d := s.Length / SliderVelocityAt(b.TimingPoints, b.Difficulty.SliderMultiplier, time)
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0
	}
	return d
}

func (r resolver) analyseSlider(b *dotosu.Beatmap, obj *dotosu.HitObject) (sliderResult, error) {
	s := obj.Slider
	start := float64(obj.Time)
	d := slideDuration(b, s, start)

	path, err := r.resolve(s, d)
	if err != nil {
		return sliderResult{}, err
	}

	res := sliderResult{slideDuration: d, path: path}
	res.tail = samplePath(path, start, d, start+d)
	if s.Slides%2 == 0 {
		res.end = obj.Pos()
	} else {
		res.end = res.tail
	}

	spacing := BeatLengthAt(b.TimingPoints, start) / b.Difficulty.SliderTickRate
	res.ticks = sliderTicks(path, start, d, spacing)
	return res, nil
}

// sliderTicks places floor(slideDuration/spacing)-1 ticks along the first
// slide, spacing ms apart.
func sliderTicks(path dotosu.Path, start, slideDuration, spacing float64) []dotosu.Tick {
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil
	}
	var ticks []dotosu.Tick
	n := int(math.Floor(slideDuration / spacing))
	for i := 1; i < n; i++ {
		at := float64(i) * spacing
		ticks = append(ticks, dotosu.Tick{
			Time: at,
			Pos:  samplePath(path, start, slideDuration, start+at),
		})
	}
	return ticks
}

// assignCombos numbers objects within their combo and commits the derived
// slider data. results is indexed like objects.
func assignCombos(objects []dotosu.HitObject, results []sliderResult) {
	comboIndex, comboNumber := 0, 0
	for i := range objects {
		obj := &objects[i]
		comboNumber++
		if obj.NewCombo {
			comboIndex++
			comboNumber = 1
		}
		obj.ComboIndex = comboIndex
		obj.ComboNumber = comboNumber
		obj.Position = obj.Pos()

		if obj.Kind != dotosu.KindSlider {
			continue
		}
		s, res := obj.Slider, results[i]
		s.SlideDuration = res.slideDuration
		s.TotalDuration = res.slideDuration * float64(s.Slides)
		s.EndTime = res.endTime(obj.Time, s.Slides)
		s.Path = res.path
		s.Ticks = res.ticks
		s.TailPosition = res.tail
		s.EndPosition = res.end
	}
}
