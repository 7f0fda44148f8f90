package dotosu

import (
	"cmp"
	"strconv"
	"strings"
)

// parseInt also accepts integral fields written as floats.
func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

// parseFloat accepts NaN and Inf spellings, so def only covers empty or
// malformed input.
func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// cleanPath unquotes a file name and turns Windows separators into slashes.
func cleanPath(p string) string {
	return strings.ReplaceAll(strings.Trim(strings.TrimSpace(p), `"`), `\`, "/")
}

// splitFields splits a comma separated line into at most n trimmed fields
// (all of them when n <= 0). Double quotes group commas and are dropped.
// The last field keeps any commas left over.
func splitFields(line string, n int) []string {
	var out []string
	var cur strings.Builder
	quoted := false
	for _, c := range line {
		switch {
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted && (n <= 0 || len(out) < n-1):
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	return append(out, strings.TrimSpace(cur.String()))
}

func applyDifficultyRestrictions(d *Difficulty, mode int) {
	d.HPDrainRate = clamp(d.HPDrainRate, 0, 10)
	d.OverallDifficulty = clamp(d.OverallDifficulty, 0, 10)
	d.ApproachRate = clamp(d.ApproachRate, 0, 10)
	if mode == 3 {
		d.CircleSize = clamp(d.CircleSize, 1, MAX_MANIA_KEY_COUNT)
	} else {
		d.CircleSize = clamp(d.CircleSize, 0, 10)
	}
	d.SliderMultiplier = clamp(d.SliderMultiplier, 0.4, 3.6)
	d.SliderTickRate = clamp(d.SliderTickRate, 0.5, 8.0)
}

// parseHitSample reads "normalSet:additionSet:index:volume:filename".
func parseHitSample(s string) HitSampleSpec {
	var f [5]string
	copy(f[:], strings.SplitN(s, ":", len(f)))
	return HitSampleSpec{
		NormalSet:   toSampleSet(parseInt(f[0], 0)),
		AdditionSet: toSampleSet(parseInt(f[1], 0)),
		Index:       parseInt(f[2], 0),
		Volume:      parseInt(f[3], 0),
		Filename:    strings.Trim(strings.TrimSpace(f[4]), `"`),
	}
}

func toSampleSet(id int) SampleSet {
	switch id {
	case 1:
		return SampleNormal
	case 2:
		return SampleSoft
	case 3:
		return SampleDrum
	default:
		return SampleNone
	}
}

// parseEdgeAddPair reads one "normalSet:additionSet" slider edge entry.
func parseEdgeAddPair(s string) (SampleSet, SampleSet) {
	normal, addition, _ := strings.Cut(s, ":")
	return toSampleSet(parseInt(normal, 0)), toSampleSet(parseInt(addition, 0))
}

// parseEndTimeAndSample reads the "endTime:hitSample" field of mania holds.
func parseEndTimeAndSample(s string) (int, HitSampleSpec) {
	end, sample, ok := strings.Cut(s, ":")
	if !ok {
		return parseInt(s, 0), HitSampleSpec{}
	}
	return parseInt(end, 0), parseHitSample(sample)
}
