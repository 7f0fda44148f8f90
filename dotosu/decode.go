package dotosu

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"osuanalyser/geom"
)

const (
	EARLY_VERSION_TIMING_OFFSET = 24
	MAX_MANIA_KEY_COUNT         = 18
	LATEST_VERSION              = 14
)

const headerPrefix = "osu file format v"

var loadOptions = ini.LoadOptions{
	InsensitiveKeys:         true,
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
	SkipUnrecognizableLines: true,
	KeyValueDelimiters:      ":",
	UnparseableSections:     []string{"Metadata", "Events", "TimingPoints", "HitObjects"},
}

// ---------- Public API ----------

func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a .osu file. Derived fields of hit objects are left unset;
// they are filled in by the analysis package.
func Decode(r io.Reader) (*Beatmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	formatVersion, body, err := splitHeader(data)
	if err != nil {
		return nil, err
	}

	file, err := ini.LoadSources(loadOptions, body)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}

	b := &Beatmap{FormatVersion: formatVersion}

	offset := 0
	if formatVersion < 5 {
		offset = EARLY_VERSION_TIMING_OFFSET
	}

	decodeGeneral(&b.General, file.Section("General"), offset)
	decodeEditor(&b.Editor, file.Section("Editor"))
	metadata, err := verbatimSection(file.Section("Metadata"))
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	decodeMetadata(&b.Metadata, metadata)
	decodeDifficulty(&b.Difficulty, file.Section("Difficulty"))
	decodeColours(&b.Colours, file.Section("Colours"))

	for _, line := range bodyLines(file.Section("Events")) {
		decodeEvent(b, line, offset)
	}
	for _, line := range bodyLines(file.Section("TimingPoints")) {
		if tp, ok := decodeTimingPoint(line, offset); ok {
			b.TimingPoints = append(b.TimingPoints, tp)
		}
	}
	for _, line := range bodyLines(file.Section("HitObjects")) {
		obj, ok, err := decodeHitObject(line, offset)
		if err != nil {
			return nil, err
		}
		if ok {
			b.HitObjects = append(b.HitObjects, obj)
		}
	}

	applyDifficultyRestrictions(&b.Difficulty, b.General.Mode)
	return b, nil
}

func splitHeader(data []byte) (int, []byte, error) {
	rest := data
	for len(rest) > 0 {
		var line []byte
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			line, rest = rest, nil
		}
		header := strings.TrimSpace(string(line))
		if header == "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(header), headerPrefix) {
			return 0, nil, fmt.Errorf("invalid .osu header: %q", header)
		}
		versionStr := strings.TrimSpace(header[len(headerPrefix):])
		version, err := strconv.Atoi(versionStr)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid .osu version in header: %q: %w", header, err)
		}
		return version, rest, nil
	}
	return 0, nil, fmt.Errorf("invalid .osu header: empty file")
}

func bodyLines(sec *ini.Section) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(sec.Body()))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// verbatimSection rebuilds a raw key:value section. Values are kept as
// written, quotes and backticks included.
func verbatimSection(raw *ini.Section) (*ini.Section, error) {
	sec, err := ini.Empty(ini.LoadOptions{InsensitiveKeys: true}).NewSection(raw.Name())
	if err != nil {
		return nil, err
	}
	for _, line := range bodyLines(raw) {
		key, value, ok := strings.Cut(line, ":")
		if key = strings.TrimSpace(key); !ok || key == "" {
			continue
		}
		if _, err := sec.NewKey(key, strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return sec, nil
}

// ---------- key:value sections ----------

func decodeGeneral(g *General, sec *ini.Section, offset int) {
	g.AudioFilename = cleanPath(sec.Key("AudioFilename").String())
	g.AudioLeadIn = sec.Key("AudioLeadIn").MustInt(0)
	g.PreviewTime = sec.Key("PreviewTime").MustInt(-1)
	if g.PreviewTime != -1 {
		g.PreviewTime += offset
	}
	g.SampleSet = sec.Key("SampleSet").MustString("Normal")
	g.StackLeniency = sec.Key("StackLeniency").MustFloat64(0.7)
	g.Mode = sec.Key("Mode").MustInt(0)
	g.Countdown = sec.Key("Countdown").MustInt(1)
	g.CountdownOffset = sec.Key("CountdownOffset").MustInt(0)
	on := func(key string) bool { return sec.Key(key).MustInt(0) == 1 }
	g.LetterboxInBreaks = on("LetterboxInBreaks")
	g.SpecialStyle = on("SpecialStyle")
	g.WidescreenStoryboard = on("WidescreenStoryboard")
	g.EpilepsyWarning = on("EpilepsyWarning")
	g.SamplesMatchPlaybackRate = on("SamplesMatchPlaybackRate")
}

func decodeEditor(e *Editor, sec *ini.Section) {
	for _, p := range strings.Split(sec.Key("Bookmarks").String(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			e.Bookmarks = append(e.Bookmarks, parseInt(p, 0))
		}
	}
	e.DistanceSpacing = sec.Key("DistanceSpacing").MustFloat64(1)
	e.BeatDivisor = clamp(sec.Key("BeatDivisor").MustInt(4), 1, 16)
	e.GridSize = sec.Key("GridSize").MustInt(4)
	e.TimelineZoom = math.Max(0, sec.Key("TimelineZoom").MustFloat64(1))
}

func decodeMetadata(m *Metadata, sec *ini.Section) {
	m.Title = sec.Key("Title").String()
	m.TitleUnicode = sec.Key("TitleUnicode").String()
	m.Artist = sec.Key("Artist").String()
	m.ArtistUnicode = sec.Key("ArtistUnicode").String()
	m.Creator = sec.Key("Creator").String()
	m.Version = sec.Key("Version").String()
	m.Source = sec.Key("Source").String()
	m.Tags = strings.Fields(sec.Key("Tags").String())
	m.BeatmapID = sec.Key("BeatmapID").MustInt(0)
	m.BeatmapSetID = sec.Key("BeatmapSetID").MustInt(0)
}

func decodeDifficulty(d *Difficulty, sec *ini.Section) {
	d.OverallDifficulty = sec.Key("OverallDifficulty").MustFloat64(5)
	// HP, CS and AR were introduced after OD; old maps inherit OD.
	orOD := func(key string) float64 {
		if !sec.HasKey(key) {
			return d.OverallDifficulty
		}
		return sec.Key(key).MustFloat64(d.OverallDifficulty)
	}
	d.HPDrainRate = orOD("HPDrainRate")
	d.CircleSize = orOD("CircleSize")
	d.ApproachRate = orOD("ApproachRate")
	d.SliderMultiplier = sec.Key("SliderMultiplier").MustFloat64(1.4)
	d.SliderTickRate = sec.Key("SliderTickRate").MustFloat64(1)
}

func decodeColours(c *Colours, sec *ini.Section) {
	for i := 1; i <= 8; i++ {
		key := fmt.Sprintf("Combo%d", i)
		if !sec.HasKey(key) {
			continue
		}
		if col, ok := parseColour(sec.Key(key).String()); ok {
			c.Combo = append(c.Combo, col)
		}
	}
	if sec.HasKey("SliderTrackOverride") {
		if col, ok := parseColour(sec.Key("SliderTrackOverride").String()); ok {
			c.SliderTrackOverride = &col
		}
	}
	if sec.HasKey("SliderBorder") {
		if col, ok := parseColour(sec.Key("SliderBorder").String()); ok {
			c.SliderBorder = &col
		}
	}
}

func parseColour(s string) (Colour, bool) {
	parts := strings.Split(s, ",")
	if len(parts) < 3 {
		return Colour{}, false
	}
	return Colour{
		R: clamp(parseInt(parts[0], 0), 0, 255),
		G: clamp(parseInt(parts[1], 0), 0, 255),
		B: clamp(parseInt(parts[2], 0), 0, 255),
	}, true
}

// ---------- raw sections ----------

func decodeEvent(b *Beatmap, line string, offset int) {
	parts := splitFields(line, 0)
	if len(parts) == 0 {
		return
	}
	switch strings.ToLower(parts[0]) {
	case "0", "background":
		if len(parts) >= 3 {
			b.Metadata.BackgroundFile = cleanPath(parts[2])
			return
		}
	case "1", "video":
		if len(parts) >= 3 {
			fn := cleanPath(parts[2])
			switch strings.ToLower(filepath.Ext(fn)) {
			case ".avi", ".flv", ".mp4", ".mkv", ".mov", ".wmv", ".mpg", ".mpeg", ".ogv", ".webm":
				b.Metadata.VideoFile = fn
			default:
				b.Metadata.BackgroundFile = fn
			}
			return
		}
	case "2", "break":
		if len(parts) >= 3 {
			start := parseFloat(parts[1], 0) + float64(offset)
			end := parseFloat(parts[2], start) + float64(offset)
			if end < start {
				end = start
			}
			b.Breaks = append(b.Breaks, BreakPeriod{Start: start, End: end})
			return
		}
	}
	b.UnhandledEvents = append(b.UnhandledEvents, line)
}

func decodeTimingPoint(line string, offset int) (TimingPoint, bool) {
	parts := splitFields(line, 0)
	if len(parts) < 2 {
		return TimingPoint{}, false
	}
	get := func(i int, def int) int {
		if i < len(parts) {
			return parseInt(parts[i], def)
		}
		return def
	}
	beatLen := parseFloat(parts[1], math.NaN())
	meter := get(2, 4)
	if meter == 0 {
		meter = 4
	}
	return TimingPoint{
		Time:        parseInt(parts[0], 0) + offset,
		BeatLength:  beatLen,
		Meter:       meter,
		SampleSet:   get(3, 0),
		SampleIndex: get(4, 0),
		Volume:      get(5, 100),
		Uninherited: beatLen > 0,
		Effects:     get(7, 0),
	}, true
}

func decodeHitObject(line string, offset int) (HitObject, bool, error) {
	parts := splitFields(line, 11) // keep trailing parameters grouped
	if len(parts) < 5 {
		return HitObject{}, false, nil
	}
	flags := HitObjectTypeFlags(parseInt(parts[3], 0))
	obj := HitObject{
		X:         parseInt(parts[0], 0),
		Y:         parseInt(parts[1], 0),
		Time:      parseInt(parts[2], 0) + offset,
		Type:      flags,
		HitSound:  HitSoundFlags(parseInt(parts[4], 0)),
		NewCombo:  flags&TypeNewCombo != 0,
		ComboSkip: int(flags&(TypeComboSkip1|TypeComboSkip2|TypeComboSkip3)) >> 4,
	}

	switch {
	case flags&TypeCircle != 0:
		obj.Kind = KindCircle
		if len(parts) >= 6 {
			obj.Sample = parseHitSample(parts[5])
		}

	case flags&TypeSlider != 0:
		obj.Kind = KindSlider
		// params: path, slides, length, edgeSounds, edgeAdditions, hitSample
		s := &Slider{Slides: 1}
		var pathSpec string
		if len(parts) >= 6 {
			pathSpec = parts[5]
		}
		if len(parts) >= 7 && strings.TrimSpace(parts[6]) != "" {
			s.Slides = max(1, parseInt(parts[6], 1))
		}
		if len(parts) >= 8 {
			s.Length = parseFloat(parts[7], 0)
		}
		if len(parts) >= 9 && strings.TrimSpace(parts[8]) != "" {
			for _, n := range strings.Split(parts[8], "|") {
				s.EdgeSounds = append(s.EdgeSounds, HitSoundFlags(parseInt(n, 0)))
			}
		}
		if len(parts) >= 10 && strings.TrimSpace(parts[9]) != "" {
			for _, p := range strings.Split(parts[9], "|") {
				ns, as := parseEdgeAddPair(p)
				s.EdgeAdditions = append(s.EdgeAdditions, EdgeAdd{NormalSet: ns, AdditionSet: as})
			}
		}
		if len(parts) >= 11 {
			obj.Sample = parseHitSample(parts[10])
		}
		s.CurveType, s.ControlPoints = parseSliderCurve(obj.Pos(), pathSpec)
		obj.Slider = s

	case flags&TypeSpinner != 0:
		obj.Kind = KindSpinner
		if len(parts) >= 6 {
			obj.EndTime = parseInt(parts[5], obj.Time-offset) + offset
		}
		if len(parts) >= 7 {
			obj.Sample = parseHitSample(parts[6])
		}

	case flags&TypeHold != 0:
		// mania hold: "endTime:sample"
		obj.Kind = KindHold
		if len(parts) >= 6 {
			end, samp := parseEndTimeAndSample(parts[5])
			obj.EndTime = end + offset
			obj.Sample = samp
		}

	default:
		return HitObject{}, false, fmt.Errorf("unknown hit object type %b at %dms", flags, obj.Time)
	}
	return obj, true, nil
}

// parseSliderCurve converts "B|x:y|x:y|..." into the curve tag and the
// control points, head first.
func parseSliderCurve(head geom.Vector2, spec string) (CurveType, []geom.Vector2) {
	tokens := strings.Split(strings.TrimSpace(spec), "|")
	curve := CurveType(strings.TrimSpace(tokens[0]))
	if curve == "" {
		curve = CurveBezier
	}
	points := []geom.Vector2{head}
	for _, t := range tokens[1:] {
		xy := strings.Split(strings.TrimSpace(t), ":")
		if len(xy) != 2 {
			continue
		}
		points = append(points, geom.Vector2{
			X: float64(parseInt(xy[0], int(head.X))),
			Y: float64(parseInt(xy[1], int(head.Y))),
		})
	}
	return curve, points
}
