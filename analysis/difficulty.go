package analysis

import "math"

// ApproachRateToPreempt is the time in ms between a hit object appearing
// and its hit time, rounded to the nearest ms.
func ApproachRateToPreempt(ar float64) float64 {
	if ar < 5 {
		return math.RoundToEven(1200 + 120*(5-ar))
	} else if ar == 5 {
		return 1200
	} else {
		return math.RoundToEven(1200 - 150*(ar-5))
	}
}

func PreemptToApproachRate(preempt float64) float64 {
	if preempt > 1200 {
		return 5 - (preempt-1200)/120
	} else if preempt == 1200 {
		return 5
	} else {
		return 5 + (1200-preempt)/150
	}
}

func CircleSizeToRadius(cs float64) float64 {
	return 54.4225 - 4.4819*cs
}

func RadiusToCircleSize(radius float64) float64 {
	return (radius - 54.4225) / -4.4819
}

// Hit windows in ms (full width).

func OverallDifficultyToWindow300(od float64) float64 { return math.Ceil(160 - 12*od) }
func OverallDifficultyToWindow100(od float64) float64 { return math.Ceil(280 - 16*od) }
func OverallDifficultyToWindow50(od float64) float64  { return math.Ceil(400 - 20*od) }

func Window300ToOverallDifficulty(ms float64) float64 { return (math.Ceil(ms) - 160) / -12 }
func Window100ToOverallDifficulty(ms float64) float64 { return (math.Ceil(ms) - 280) / -16 }
func Window50ToOverallDifficulty(ms float64) float64  { return (math.Ceil(ms) - 400) / -20 }

// MapConstants are the difficulty-derived values used by the analysis and
// reported alongside it.
type MapConstants struct {
	CircleRadius float64
	Preempt      float64
	Window300    float64
	Window100    float64
	Window50     float64
}

func GetMapConstants(cs, ar, od float64) MapConstants {
	return MapConstants{
		CircleRadius: CircleSizeToRadius(cs),
		Preempt:      ApproachRateToPreempt(ar),
		Window300:    OverallDifficultyToWindow300(od),
		Window100:    OverallDifficultyToWindow100(od),
		Window50:     OverallDifficultyToWindow50(od),
	}
}
