package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"osuanalyser/analysis"
)

// Config is the run configuration. It is read from an optional YAML file;
// flags given on the command line take precedence.
type Config struct {
	LoopMs          int    `yaml:"loop_ms"`          // sampling step of perfect-circle sliders in ms
	BezierPrecision int    `yaml:"bezier_precision"` // subdivisions per Bézier curve
	Workers         int    `yaml:"workers"`          // concurrent files and sliders
	LogLevel        string `yaml:"log_level"`        // debug, info, warn or error
	Indent          bool   `yaml:"indent"`           // pretty-print the report
	Select          string `yaml:"select"`           // gjson path applied to each report
}

func defaultConfig() Config {
	opts := analysis.DefaultOptions()
	return Config{
		LoopMs:          opts.LoopMs,
		BezierPrecision: opts.BezierPrecision,
		Workers:         opts.Workers,
		LogLevel:        "info",
	}
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// parseArgs builds the configuration from the command line and returns
// the remaining arguments, the .osu inputs.
func parseArgs(args []string, output io.Writer) (Config, []string, error) {
	fs := flag.NewFlagSet("osuanalyser", flag.ContinueOnError)
	fs.SetOutput(output)
	configPath := fs.String("config", "", "YAML configuration file")
	loopMs := fs.Int("loop-ms", 0, "sampling step of perfect-circle sliders in ms")
	bezierPrecision := fs.Int("bezier-precision", 0, "subdivisions per Bézier curve")
	workers := fs.Int("workers", 0, "files and sliders analysed concurrently")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	indent := fs.Bool("indent", false, "pretty-print the report")
	sel := fs.String("select", "", "gjson path to print instead of the whole report")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: osuanalyser [flags] file.osu|dir...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	cfg := defaultConfig()
	if *configPath != "" {
		if err := loadConfigFile(*configPath, &cfg); err != nil {
			return Config{}, nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "loop-ms":
			cfg.LoopMs = *loopMs
		case "bezier-precision":
			cfg.BezierPrecision = *bezierPrecision
		case "workers":
			cfg.Workers = *workers
		case "log-level":
			cfg.LogLevel = *logLevel
		case "indent":
			cfg.Indent = *indent
		case "select":
			cfg.Select = *sel
		}
	})

	if fs.NArg() == 0 {
		fs.Usage()
		return Config{}, nil, errors.New("no input files")
	}
	return cfg, fs.Args(), nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Options converts the configuration into engine options logging to log.
func (c Config) Options(log *slog.Logger) analysis.Options {
	return analysis.Options{
		LoopMs:          c.LoopMs,
		BezierPrecision: c.BezierPrecision,
		Workers:         c.Workers,
		Logger:          log,
	}
}
