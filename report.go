package main

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"osuanalyser/analysis"
	"osuanalyser/dotosu"
	"osuanalyser/geom"
)

type Report struct {
	File       string                `json:"file"`
	Title      string                `json:"title"`
	Artist     string                `json:"artist"`
	Creator    string                `json:"creator"`
	Version    string                `json:"version"`
	BeatmapID  int                   `json:"beatmap_id"`
	Constants  analysis.MapConstants `json:"constants"`
	Summary    Summary               `json:"summary"`
	HitObjects []ObjectReport        `json:"hit_objects"`
}

type Summary struct {
	Circles  int `json:"circles"`
	Sliders  int `json:"sliders"`
	Spinners int `json:"spinners"`
	Holds    int `json:"holds"`
	Combos   int `json:"combos"`
	MaxCombo int `json:"max_combo"`
	Stacked  int `json:"stacked"`
	Ticks    int `json:"ticks"`
	LastTime int `json:"last_time"`
}

type ObjectReport struct {
	Kind        string        `json:"kind"`
	Time        int           `json:"time"`
	ComboIndex  int           `json:"combo_index"`
	ComboNumber int           `json:"combo_number"`
	Position    geom.Vector2  `json:"position"`
	StackDepth  *int          `json:"stack_depth,omitempty"`
	EndTime     int           `json:"end_time,omitempty"`
	Slider      *SliderReport `json:"slider,omitempty"`
}

type SliderReport struct {
	CurveType     string        `json:"curve_type"`
	Slides        int           `json:"slides"`
	Length        float64       `json:"length"`
	SlideDuration float64       `json:"slide_duration"`
	EndTime       float64       `json:"end_time"`
	PathPoints    int           `json:"path_points"`
	Tail          geom.Vector2  `json:"tail"`
	End           geom.Vector2  `json:"end"`
	Ticks         []dotosu.Tick `json:"ticks"`
}

// BuildReport summarises an analysed beatmap.
func BuildReport(file string, b *dotosu.Beatmap) Report {
	d := b.Difficulty
	r := Report{
		File:       file,
		Title:      b.Metadata.Title,
		Artist:     b.Metadata.Artist,
		Creator:    b.Metadata.Creator,
		Version:    b.Metadata.Version,
		BeatmapID:  b.Metadata.BeatmapID,
		Constants:  analysis.GetMapConstants(d.CircleSize, d.ApproachRate, d.OverallDifficulty),
		HitObjects: make([]ObjectReport, 0, len(b.HitObjects)),
	}

	sum := &r.Summary
	for i := range b.HitObjects {
		obj := &b.HitObjects[i]
		o := ObjectReport{
			Kind:        obj.Kind.String(),
			Time:        obj.Time,
			ComboIndex:  obj.ComboIndex,
			ComboNumber: obj.ComboNumber,
			Position:    obj.Position,
			StackDepth:  obj.StackDepth,
		}
		if obj.NewCombo || i == 0 {
			sum.Combos++
		}
		if obj.StackDepth != nil && *obj.StackDepth != 0 {
			sum.Stacked++
		}
		sum.LastTime = max(sum.LastTime, obj.Time)

		switch obj.Kind {
		case dotosu.KindCircle:
			sum.Circles++
			sum.MaxCombo++
		case dotosu.KindSpinner:
			sum.Spinners++
			sum.MaxCombo++
			o.EndTime = obj.EndTime
			sum.LastTime = max(sum.LastTime, obj.EndTime)
		case dotosu.KindHold:
			sum.Holds++
			sum.MaxCombo++
			o.EndTime = obj.EndTime
			sum.LastTime = max(sum.LastTime, obj.EndTime)
		case dotosu.KindSlider:
			s := obj.Slider
			sum.Sliders++
			// head, one judgement per slide end, and every tick on every slide
			sum.MaxCombo += 1 + s.Slides + len(s.Ticks)*s.Slides
			sum.Ticks += len(s.Ticks) * s.Slides
			sum.LastTime = max(sum.LastTime, int(s.EndTime))
			ticks := s.Ticks
			if ticks == nil {
				ticks = []dotosu.Tick{}
			}
			o.EndTime = int(s.EndTime)
			o.Slider = &SliderReport{
				CurveType:     string(s.CurveType),
				Slides:        s.Slides,
				Length:        s.Length,
				SlideDuration: s.SlideDuration,
				EndTime:       s.EndTime,
				PathPoints:    len(s.Path),
				Tail:          s.TailPosition,
				End:           s.EndPosition,
				Ticks:         ticks,
			}
		}
		r.HitObjects = append(r.HitObjects, o)
	}
	return r
}

// Encode renders the report as JSON with the run configuration stored
// under "options".
func (r Report) Encode(cfg Config) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	data, err = sjson.SetBytes(data, "options", map[string]any{
		"loop_ms":          cfg.LoopMs,
		"bezier_precision": cfg.BezierPrecision,
	})
	if err != nil {
		return nil, fmt.Errorf("encode report options: %w", err)
	}
	return data, nil
}
