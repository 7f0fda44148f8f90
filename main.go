package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"

	"osuanalyser/analysis"
	"osuanalyser/dotosu"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole command. It returns 0 on success, 1 when any input
// failed and 2 on a usage error.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, inputs, err := parseArgs(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "osuanalyser: %v\n", err)
		}
		return 2
	}
	level, err := cfg.level()
	if err != nil {
		fmt.Fprintf(stderr, "osuanalyser: %v\n", err)
		return 2
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	paths, err := CollectBeatmaps(inputs)
	if err != nil {
		log.Error("collect inputs", "err", err)
		return 1
	}

	docs := make([][]byte, len(paths))
	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(max(1, cfg.Workers))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			errs[i] = Run(func() error {
				var err error
				docs[i], err = analyseFile(path, cfg, log)
				return err
			})
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	var out []byte
	if len(paths) > 1 {
		out = []byte("[]")
	}
	for i, path := range paths {
		i, path := i, path
		if err := errs[i]; err != nil {
			failed++
			var pe *PanicError
			if errors.As(err, &pe) {
				log.Error("analysis panicked", "file", path, "err", err, "stack", string(pe.Stack))
			} else {
				log.Error("analysis failed", "file", path, "err", err)
			}
			continue
		}
		doc := docs[i]
		if cfg.Select != "" {
			doc = []byte(gjson.GetBytes(doc, cfg.Select).Raw)
			if len(doc) == 0 {
				doc = []byte("null")
			}
		}
		if len(paths) == 1 {
			out = doc
			break
		}
		if out, err = appendDocument(out, "-1", doc); err != nil {
			log.Error("assemble output", "file", path, "err", err)
			failed++
		}
	}

	if out != nil {
		if cfg.Indent {
			out = pretty.Pretty(out)
		} else if out[len(out)-1] != '\n' {
			out = append(out, '\n')
		}
		if _, err := stdout.Write(out); err != nil {
			log.Error("write output", "err", err)
			return 1
		}
	}
	if failed > 0 {
		log.Warn("some beatmaps failed", "failed", failed, "total", len(paths))
		return 1
	}
	return 0
}

// appendDocument stores doc at path in out. On error out is returned
// unchanged.
func appendDocument(out []byte, path string, doc []byte) ([]byte, error) {
	next, err := sjson.SetRawBytes(out, path, doc)
	if err != nil {
		return out, err
	}
	return next, nil
}

func analyseFile(path string, cfg Config, log *slog.Logger) ([]byte, error) {
	b, err := dotosu.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		log.Warn("incomplete beatmap", "file", path, "err", err)
	}

	fileLog := log.With("file", filepath.Base(path))
	if err := analysis.AnalyseBeatmap(b, cfg.Options(fileLog)); err != nil {
		return nil, fmt.Errorf("analyse %s: %w", path, err)
	}

	report := BuildReport(path, b)
	log.Info("analysed",
		"file", path,
		"title", b.Metadata.Title,
		"version", b.Metadata.Version,
		"objects", len(b.HitObjects),
		"max_combo", report.Summary.MaxCombo,
		"stacked", report.Summary.Stacked,
	)
	return report.Encode(cfg)
}

// CollectBeatmaps expands the inputs into .osu file paths. Directories are
// walked recursively and their .osu files added in lexical order.
func CollectBeatmaps(inputs []string) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, input)
			continue
		}

		var found []string
		if err := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.EqualFold(filepath.Ext(d.Name()), ".osu") {
				found = append(found, path)
			}
			return nil
		}); err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .osu files in %s", input)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
