package analysis

import (
	"fmt"

	"osuanalyser/dotosu"
	"osuanalyser/geom"
)

// stackDistance is the largest gap, in osu!pixels, between two positions
// that still counts as overlapping.
const stackDistance = 2.9

// stackItem is the read-only view of a hit object the stacking pass needs.
// Positions are the authored ones, before any stack offset.
type stackItem struct {
	kind    dotosu.ObjectKind
	time    float64
	head    geom.Vector2
	endTime float64
	end     geom.Vector2
}

func (it stackItem) stackable() bool {
	return it.kind == dotosu.KindCircle || it.kind == dotosu.KindSlider
}

func stackItems(objects []dotosu.HitObject, results []sliderResult) []stackItem {
	items := make([]stackItem, len(objects))
	for i := range objects {
		obj := &objects[i]
		it := stackItem{kind: obj.Kind, time: float64(obj.Time), head: obj.Pos()}
		if obj.Kind == dotosu.KindSlider {
			it.endTime = results[i].endTime(obj.Time, obj.Slider.Slides)
			it.end = results[i].end
		}
		items[i] = it
	}
	return items
}

// stackDepths holds one optional depth per object.
type stackDepths struct {
	depth []int
	set   []bool
}

func (d stackDepths) assign(i, v int) {
	d.depth[i] = v
	d.set[i] = true
}

// computeStackDepths walks the objects backwards looking for earlier objects
// drawn on top of each other within leniency ms. A slider whose end
// coincides with a later stack becomes the base of that stack, and the
// objects already counted above it are rebased.
func computeStackDepths(items []stackItem, leniency float64) (stackDepths, error) {
	n := len(items)
	for i, it := range items {
		switch it.kind {
		case dotosu.KindCircle, dotosu.KindSlider, dotosu.KindSpinner, dotosu.KindHold:
		default:
			return stackDepths{}, fmt.Errorf("%w: object %d has kind %d", ErrInconsistentStackState, i, it.kind)
		}
	}

	d := stackDepths{depth: make([]int, n), set: make([]bool, n)}
	for i := n - 1; i >= 0; i-- {
		if !items[i].stackable() || d.set[i] {
			continue
		}
		d.assign(i, 0)
		cur := i
		sliderStack := items[i].kind == dotosu.KindSlider
		total := 0

	candidates:
		for j := i - 1; j >= 0; j-- {
			obj := items[j]
			if !obj.stackable() {
				continue
			}

			if obj.kind == dotosu.KindCircle {
				if obj.time+leniency < items[cur].time {
					break
				}
				if geom.Distance(items[cur].head, obj.head) < stackDistance {
					total++
					cur = j
					d.assign(j, total)
				}
				continue
			}

			if obj.endTime+leniency < items[cur].time {
				break
			}
			switch {
			case geom.Distance(items[cur].head, obj.end) < stackDistance:
				total++
				cur = j
				d.assign(j, total)
				if sliderStack {
					continue
				}
				d.assign(j, 0)
				rebaseAfterSlider(items, d, j, total, leniency)
				total = 0
				sliderStack = true
			case geom.Distance(items[cur].head, obj.head) < stackDistance:
				if sliderStack {
					break candidates
				}
				total++
				cur = j
				d.assign(j, total)
			}
		}
	}
	return d, nil
}

// rebaseAfterSlider lowers by shift every object chained onto the end of
// slider j, so that the slider sits at the bottom of the stack.
func rebaseAfterSlider(items []stackItem, d stackDepths, j, shift int, leniency float64) {
	slider := items[j]
	last := slider.endTime
	for k := j + 1; k < len(items); k++ {
		obj := items[k]
		if !obj.stackable() {
			continue
		}
		if last+leniency < obj.time {
			break
		}
		if geom.Distance(slider.end, obj.head) < stackDistance {
			last = obj.time
			if !d.set[k] {
				d.assign(k, 0)
			}
			d.depth[k] -= shift
		}
	}
}

// applyStacking records each depth and shifts every position of the object
// by depth times unit.
func applyStacking(objects []dotosu.HitObject, d stackDepths, unit geom.Vector2) int {
	stacked := 0
	for i := range objects {
		if !d.set[i] {
			continue
		}
		obj := &objects[i]
		depth := d.depth[i]
		obj.StackDepth = &depth
		if depth != 0 {
			stacked++
		}

		offset := unit.Mul(float64(depth))
		obj.Position = obj.Position.Add(offset)
		if obj.Kind != dotosu.KindSlider {
			continue
		}
		s := obj.Slider
		s.TailPosition = s.TailPosition.Add(offset)
		s.EndPosition = s.EndPosition.Add(offset)
		for k := range s.Path {
			s.Path[k].Pos = s.Path[k].Pos.Add(offset)
		}
		for k := range s.Ticks {
			s.Ticks[k].Pos = s.Ticks[k].Pos.Add(offset)
		}
	}
	return stacked
}
