package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osuanalyser/dotosu"
	"osuanalyser/geom"
)

const testLeniency = 420

func circleItem(time float64, x, y float64) stackItem {
	return stackItem{kind: dotosu.KindCircle, time: time, head: geom.Vec(x, y)}
}

func sliderItem(time float64, head geom.Vector2, endTime float64, end geom.Vector2) stackItem {
	return stackItem{kind: dotosu.KindSlider, time: time, head: head, endTime: endTime, end: end}
}

// depthsOf renders unset depths as nil.
func depthsOf(d stackDepths) []*int {
	out := make([]*int, len(d.depth))
	for i := range d.depth {
		if d.set[i] {
			v := d.depth[i]
			out[i] = &v
		}
	}
	return out
}

func ptr(v int) *int { return &v }

func TestComputeStackDepths(t *testing.T) {
	tests := []struct {
		name  string
		items []stackItem
		want  []*int
	}{
		{
			name:  "two coincident circles",
			items: []stackItem{circleItem(0, 100, 100), circleItem(100, 100, 100)},
			want:  []*int{ptr(1), ptr(0)},
		},
		{
			name: "chain of three",
			items: []stackItem{
				circleItem(0, 100, 100),
				circleItem(100, 101, 101),
				circleItem(200, 102, 102),
			},
			want: []*int{ptr(2), ptr(1), ptr(0)},
		},
		{
			name:  "too far apart in time",
			items: []stackItem{circleItem(0, 100, 100), circleItem(1000, 100, 100)},
			want:  []*int{ptr(0), ptr(0)},
		},
		{
			name:  "too far apart in space",
			items: []stackItem{circleItem(0, 100, 100), circleItem(100, 103, 100)},
			want:  []*int{ptr(0), ptr(0)},
		},
		{
			name: "spinners are skipped",
			items: []stackItem{
				circleItem(0, 100, 100),
				{kind: dotosu.KindSpinner, time: 100, head: geom.Vec(100, 100)},
				circleItem(200, 100, 100),
			},
			want: []*int{ptr(1), nil, ptr(0)},
		},
		{
			name: "circles after a slider end are rebased",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 500, geom.Vec(100, 0)),
				circleItem(600, 100, 0),
				circleItem(700, 100, 0),
			},
			want: []*int{ptr(0), ptr(-1), ptr(-2)},
		},
		{
			name: "tail match wins over head match",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 600, geom.Vec(0, 0)),
				circleItem(700, 0, 0),
			},
			want: []*int{ptr(0), ptr(-1)},
		},
		{
			name: "slider stack deepens on an earlier slider end",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 300, geom.Vec(100, 0)),
				sliderItem(400, geom.Vec(100, 0), 700, geom.Vec(300, 0)),
			},
			want: []*int{ptr(1), ptr(0)},
		},
		{
			name: "rebase stops past the last chained object",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 500, geom.Vec(100, 0)),
				circleItem(600, 100, 0),
				circleItem(700, 100, 0),
				circleItem(1200, 100, 0),
			},
			want: []*int{ptr(0), ptr(-1), ptr(-2), ptr(0)},
		},
		{
			name: "rebase skips objects away from the slider end",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 500, geom.Vec(100, 0)),
				circleItem(600, 100, 0),
				circleItem(650, 300, 300),
				circleItem(700, 100, 0),
			},
			want: []*int{ptr(0), ptr(-1), ptr(0), ptr(-2)},
		},
		{
			name: "circle on a slider head",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 300, geom.Vec(200, 0)),
				circleItem(400, 0, 0),
			},
			want: []*int{ptr(1), ptr(0)},
		},
		{
			name: "slider head breaks a slider stack",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 300, geom.Vec(200, 0)),
				sliderItem(400, geom.Vec(0, 0), 700, geom.Vec(300, 0)),
			},
			want: []*int{ptr(0), ptr(0)},
		},
		{
			name: "slider ending too early",
			items: []stackItem{
				sliderItem(0, geom.Vec(0, 0), 100, geom.Vec(100, 0)),
				circleItem(600, 100, 0),
			},
			want: []*int{ptr(0), ptr(0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := computeStackDepths(tt.items, testLeniency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, depthsOf(d))
		})
	}
}

func TestComputeStackDepthsUnknownKind(t *testing.T) {
	items := []stackItem{circleItem(0, 0, 0), {kind: dotosu.ObjectKind(42)}}
	_, err := computeStackDepths(items, testLeniency)
	assert.ErrorIs(t, err, ErrInconsistentStackState)
}

func TestApplyStacking(t *testing.T) {
	objects := []dotosu.HitObject{
		{Kind: dotosu.KindCircle, Position: geom.Vec(100, 100)},
		{
			Kind:     dotosu.KindSlider,
			Position: geom.Vec(0, 0),
			Slider: &dotosu.Slider{
				Path:         dotosu.Path{{Time: 0, Pos: geom.Vec(0, 0)}, {Time: 10, Pos: geom.Vec(10, 0)}},
				Ticks:        []dotosu.Tick{{Time: 5, Pos: geom.Vec(5, 0)}},
				TailPosition: geom.Vec(10, 0),
				EndPosition:  geom.Vec(10, 0),
			},
		},
		{Kind: dotosu.KindSpinner, Position: geom.Vec(256, 192)},
	}
	d := stackDepths{depth: []int{2, -1, 0}, set: []bool{true, true, false}}

	stacked := applyStacking(objects, d, geom.Vec(-3, -3))
	assert.Equal(t, 2, stacked)

	require.NotNil(t, objects[0].StackDepth)
	assert.Equal(t, 2, *objects[0].StackDepth)
	assert.Equal(t, geom.Vec(94, 94), objects[0].Position)

	s := objects[1].Slider
	assert.Equal(t, geom.Vec(3, 3), objects[1].Position)
	assert.Equal(t, geom.Vec(13, 3), s.TailPosition)
	assert.Equal(t, geom.Vec(13, 3), s.EndPosition)
	assert.Equal(t, geom.Vec(3, 3), s.Path[0].Pos)
	assert.Equal(t, geom.Vec(13, 3), s.Path[1].Pos)
	assert.Equal(t, geom.Vec(8, 3), s.Ticks[0].Pos)

	assert.Nil(t, objects[2].StackDepth)
	assert.Equal(t, geom.Vec(256, 192), objects[2].Position)
}
