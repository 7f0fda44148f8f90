package dotosu

import (
	"errors"

	"osuanalyser/geom"
)

// ---------- Beatmap model ----------

type Beatmap struct {
	FormatVersion int
	General       General
	Editor        Editor
	Metadata      Metadata
	Difficulty    Difficulty
	Colours       Colours

	Breaks          []BreakPeriod
	TimingPoints    []TimingPoint // authored order, not necessarily sorted
	HitObjects      []HitObject
	UnhandledEvents []string
}

type General struct {
	AudioFilename            string
	AudioLeadIn              int
	PreviewTime              int
	SampleSet                string
	StackLeniency            float64
	Mode                     int
	LetterboxInBreaks        bool
	SpecialStyle             bool
	WidescreenStoryboard     bool
	EpilepsyWarning          bool
	SamplesMatchPlaybackRate bool
	Countdown                int
	CountdownOffset          int
}

type Editor struct {
	Bookmarks       []int
	DistanceSpacing float64
	BeatDivisor     int
	GridSize        int
	TimelineZoom    float64
}

type Metadata struct {
	Title, TitleUnicode       string
	Artist, ArtistUnicode     string
	Creator, Version, Source  string
	Tags                      []string
	BeatmapID, BeatmapSetID   int
	BackgroundFile, VideoFile string
}

type Difficulty struct {
	HPDrainRate, CircleSize, OverallDifficulty, ApproachRate float64
	SliderMultiplier, SliderTickRate                         float64
}

type Colour struct{ R, G, B int }

type Colours struct {
	Combo               []Colour
	SliderTrackOverride *Colour
	SliderBorder        *Colour
}

type BreakPeriod struct{ Start, End float64 }

type TimingPoint struct {
	Time        int
	BeatLength  float64
	Meter       int
	SampleSet   int
	SampleIndex int
	Volume      int
	Uninherited bool // derived: BeatLength > 0
	Effects     int
}

func (tp TimingPoint) Kiai() bool { return tp.Effects&1 != 0 }

// ---------- HitObject enums ----------

type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

func (k ObjectKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	case KindHold:
		return "hold"
	}
	return "unknown"
}

type HitSoundFlags uint8

const (
	HitSoundNormal  HitSoundFlags = 1 << iota // 1
	HitSoundWhistle                           // 2
	HitSoundFinish                            // 4
	HitSoundClap                              // 8
)

type SampleSet uint8

const (
	SampleNone SampleSet = iota
	SampleNormal
	SampleSoft
	SampleDrum
)

type HitObjectTypeFlags int

const (
	TypeCircle     HitObjectTypeFlags = 1 << iota // 1
	TypeSlider                                    // 2
	TypeNewCombo                                  // 4
	TypeSpinner                                   // 8
	TypeComboSkip1                                // 16
	TypeComboSkip2                                // 32
	TypeComboSkip3                                // 64
	TypeHold       HitObjectTypeFlags = 1 << 7    // 128
)

type HitSampleSpec struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       int
	Volume      int
	Filename    string
}

type EdgeAdd struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
}

// CurveType is the slider curve tag exactly as authored. Tags other than
// the four constants below are kept so the analyser can reject them.
type CurveType string

const (
	CurveLinear        CurveType = "L"
	CurvePerfectCircle CurveType = "P"
	CurveBezier        CurveType = "B"
	CurveCatmull       CurveType = "C"
)

// ---------- HitObject ----------

// HitObject is a tagged union: Kind selects which payload is meaningful.
// Slider is non-nil exactly when Kind == KindSlider; EndTime is set for
// spinners and holds.
type HitObject struct {
	Kind      ObjectKind
	X, Y      int
	Time      int
	Type      HitObjectTypeFlags
	HitSound  HitSoundFlags
	Sample    HitSampleSpec
	NewCombo  bool
	ComboSkip int

	Slider  *Slider
	EndTime int

	// Assigned by analysis.
	ComboIndex  int
	ComboNumber int
	Position    geom.Vector2
	StackDepth  *int
}

func (o *HitObject) Pos() geom.Vector2 {
	return geom.Vector2{X: float64(o.X), Y: float64(o.Y)}
}

type Slider struct {
	CurveType     CurveType
	ControlPoints []geom.Vector2 // first element is the slider head
	Slides        int
	Length        float64
	EdgeSounds    []HitSoundFlags
	EdgeAdditions []EdgeAdd

	// Assigned by analysis.
	SlideDuration float64
	TotalDuration float64
	EndTime       float64
	Path          Path
	Ticks         []Tick
	TailPosition  geom.Vector2
	EndPosition   geom.Vector2
}

// PathPoint is the ball position after Time ms of a single slide.
type PathPoint struct {
	Time float64      `json:"time"`
	Pos  geom.Vector2 `json:"pos"`
}

// Path is ordered by ascending Time; lookups scan it in order.
type Path []PathPoint

func (p Path) Resolved() bool { return len(p) > 0 }

// Duration is the timestamp of the last entry.
func (p Path) Duration() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].Time
}

// Tick is a slider tick; Time is elapsed since the slider start.
type Tick struct {
	Time float64      `json:"time"`
	Pos  geom.Vector2 `json:"pos"`
}

// ---------- optional validation ----------

func (b *Beatmap) Validate() error {
	if b.Metadata.Title == "" && b.Metadata.TitleUnicode == "" {
		return errors.New("missing title")
	}
	if b.Metadata.Artist == "" && b.Metadata.ArtistUnicode == "" {
		return errors.New("missing artist")
	}
	if b.General.AudioFilename == "" {
		return errors.New("missing AudioFilename in [General]")
	}
	return nil
}
