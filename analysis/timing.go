package analysis

import "osuanalyser/dotosu"

const defaultBeatLength = 500.0

// BeatLengthAt returns the beat length of the last uninherited timing point
// at or before time. Points are scanned in authored order and the scan stops
// at the first point later than time.
func BeatLengthAt(points []dotosu.TimingPoint, time float64) float64 {
	beatLength := defaultBeatLength
	for _, point := range points {
		if float64(point.Time) > time {
			break
		}
		if point.Uninherited {
			beatLength = point.BeatLength
		}
	}
	return beatLength
}

// SliderVelocityAt returns the slider velocity in osu!pixels per ms.
//
// The base beat length is seeded from the first uninherited point of the
// whole list, independent of time, before the in-order scan refines it.
func SliderVelocityAt(points []dotosu.TimingPoint, sliderMultiplier, time float64) float64 {
	beatLength := defaultBeatLength
	for _, point := range points {
		if point.Uninherited {
			beatLength = point.BeatLength
			break
		}
	}

	multiplier := -100.0
	for _, point := range points {
		if float64(point.Time) > time {
			break
		}
		if point.Uninherited {
			beatLength = point.BeatLength
			multiplier = -100
		} else {
			multiplier = point.BeatLength
		}
	}

	return 100 * sliderMultiplier * (-100 / multiplier) * (1 / beatLength)
}
