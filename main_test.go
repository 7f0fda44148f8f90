package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const (
	simpleMap  = "dotosu/testdata/simple.osu"
	stackedMap = "analysis/testdata/stacked.osu"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunSingleFile(t *testing.T) {
	code, out, logs := runCLI(t, simpleMap)
	require.Equal(t, 0, code, logs)
	require.True(t, gjson.Valid(out), out)

	doc := gjson.Parse(out)
	assert.Equal(t, "Re:Test", doc.Get("title").String())
	assert.Equal(t, "Insane", doc.Get("version").String())
	assert.Equal(t, int64(2), doc.Get("summary.circles").Int())
	assert.Equal(t, int64(2), doc.Get("summary.sliders").Int())
	assert.Equal(t, int64(1), doc.Get("summary.spinners").Int())
	assert.Equal(t, int64(9), doc.Get("summary.max_combo").Int())
	assert.Equal(t, int64(1), doc.Get("summary.stacked").Int())
	assert.Equal(t, int64(10), doc.Get("options.loop_ms").Int())
	assert.Equal(t, int64(50), doc.Get("options.bezier_precision").Int())

	assert.Equal(t, int64(1), doc.Get("hit_objects.0.stack_depth").Int())
	assert.Equal(t, "slider", doc.Get("hit_objects.2.kind").String())
	assert.Equal(t, "L", doc.Get("hit_objects.2.slider.curve_type").String())
	assert.Equal(t, int64(1), doc.Get("hit_objects.2.slider.ticks.#").Int())
	assert.False(t, doc.Get("hit_objects.3.stack_depth").Exists())

	assert.Contains(t, logs, "analysed")
}

func TestRunSeveralFiles(t *testing.T) {
	code, out, logs := runCLI(t, "-select", "summary.sliders", simpleMap, stackedMap)
	require.Equal(t, 0, code, logs)
	assert.Equal(t, "[2,2]\n", out)
}

func TestAppendDocument(t *testing.T) {
	out, err := appendDocument([]byte("[]"), "-1", []byte(`{"a":1}`))
	require.NoError(t, err)
	out, err = appendDocument(out, "-1", []byte("2"))
	require.NoError(t, err)
	assert.Equal(t, `[{"a":1},2]`, string(out))

	kept, err := appendDocument(out, "name", []byte("3"))
	assert.Error(t, err)
	assert.Equal(t, `[{"a":1},2]`, string(kept))
}

func TestRunIndent(t *testing.T) {
	code, out, _ := runCLI(t, "-indent", "-select", "summary", simpleMap)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "\n  \"circles\": 2,")
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "loop_ms: 25\nbezier_precision: 8\nselect: options.loop_ms\nlog_level: warn\n")

	code, out, logs := runCLI(t, "-config", cfg, simpleMap)
	require.Equal(t, 0, code)
	assert.Equal(t, "25\n", out)
	assert.NotContains(t, logs, "analysed")

	t.Run("flags override the file", func(t *testing.T) {
		code, out, _ := runCLI(t, "-config", cfg, "-loop-ms", "30", simpleMap)
		require.Equal(t, 0, code)
		assert.Equal(t, "30\n", out)
	})

	t.Run("missing file", func(t *testing.T) {
		code, _, logs := runCLI(t, "-config", filepath.Join(dir, "nope.yaml"), simpleMap)
		assert.Equal(t, 2, code)
		assert.Contains(t, logs, "read config")
	})
}

func TestRunUsageErrors(t *testing.T) {
	code, _, logs := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "no input files")

	code, _, _ = runCLI(t, "-log-level", "loud", simpleMap)
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "-no-such-flag", simpleMap)
	assert.Equal(t, 2, code)
}

func TestRunFailingBeatmap(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "catmull.osu", strings.Join([]string{
		"osu file format v14",
		"",
		"[Metadata]",
		"Title:Bad",
		"",
		"[TimingPoints]",
		"0,500,4,2,0,60,1,0",
		"",
		"[HitObjects]",
		"0,0,0,2,0,C|100:0|200:50,1,200",
		"",
	}, "\n"))

	code, out, logs := runCLI(t, "-select", "title", simpleMap, bad)
	assert.Equal(t, 1, code)
	assert.Equal(t, "[\"Re:Test\"]\n", out)
	assert.Contains(t, logs, "unsupported curve type")
	assert.Contains(t, logs, "catmull.osu")

	code, _, _ = runCLI(t, filepath.Join(dir, "missing.osu"))
	assert.Equal(t, 1, code)
}

func TestCollectBeatmaps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.osu", "")
	writeFile(t, dir, "a.OSU", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, "sub/c.osu", "")

	paths, err := CollectBeatmaps([]string{dir, simpleMap})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.OSU"),
		filepath.Join(dir, "b.osu"),
		filepath.Join(dir, "sub", "c.osu"),
		simpleMap,
	}, paths)

	_, err = CollectBeatmaps([]string{filepath.Join(dir, "sub", "empty")})
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	_, err = CollectBeatmaps([]string{empty})
	assert.ErrorContains(t, err, "no .osu files")
}

func TestRunRecoversPanics(t *testing.T) {
	err := Run(func() error { panic("boom") })

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Value)
	assert.Equal(t, "panic: boom", err.Error())
	assert.NotEmpty(t, pe.Stack)

	assert.NoError(t, Run(func() error { return nil }))
}
