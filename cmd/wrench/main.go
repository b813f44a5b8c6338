// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command wrench renders an image file or replays a directory of recorded
// frames, measuring the latency from each submission to its ready frame.
//
// Usage:
//
//	wrench [flags] INPUT
//
// INPUT is an image file (PNG, JPEG, GIF, BMP, TIFF or WebP) or a
// directory written by -save. With -png the first frame, or the last
// recorded one, is rendered without a window and written to a PNG file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/config"
	"github.com/gogpu/wrench/harness"
	"github.com/gogpu/wrench/internal/cli"
	"github.com/gogpu/wrench/recording"
)

type options struct {
	configPath string
	shaders    string
	dpRatio    float64
	save       string
	saveDir    string
	size       string
	rebuild    bool
	subpixelAA bool
	debug      bool
	verbose    bool
	watch      bool
	png        string
}

func main() {
	var o options
	fs := flag.NewFlagSet("wrench", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "TOML configuration `file`")
	fs.StringVar(&o.shaders, "shaders", "", "override shaders from `dir`")
	fs.Float64Var(&o.dpRatio, "dp-ratio", 1, "device pixel `ratio`")
	fs.StringVar(&o.save, "save", "", fmt.Sprintf("record frames in `format` %v", recording.Formats()))
	fs.StringVar(&o.saveDir, "save-dir", "", "recording `dir`")
	fs.StringVar(&o.size, "size", "", "window size `WxH` in device pixels")
	fs.BoolVar(&o.rebuild, "rebuild", false, "recreate display items every frame")
	fs.BoolVar(&o.subpixelAA, "subpixel-aa", false, "enable subpixel text antialiasing")
	fs.BoolVar(&o.debug, "debug", false, "draw the debug overlay")
	fs.BoolVar(&o.verbose, "verbose", false, "log debug output and latency reports")
	fs.BoolVar(&o.watch, "watch", false, "reload INPUT when it changes")
	fs.StringVar(&o.png, "png", "", "render headless and write the frame to `file`")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: wrench [flags] INPUT\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(fs, &o)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wrench:", err)
		os.Exit(2)
	}
	cli.Install(cli.NewLogger(os.Stderr, "wrench", cfg.Renderer.Verbose))

	if err := run(cfg, fs.Arg(0), o.png); err != nil {
		wrench.Logger().Error("wrench failed", "err", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration file and applies the flags that were
// set on the command line over it.
func loadConfig(fs *flag.FlagSet, o *options) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shaders":
			cfg.Renderer.ShaderDir = o.shaders
		case "dp-ratio":
			cfg.Renderer.DevicePixelRatio = float32(o.dpRatio)
		case "save":
			cfg.Recording.Format = o.save
		case "save-dir":
			cfg.Recording.Dir = o.saveDir
		case "size":
			cfg.Window.Size = o.size
		case "rebuild":
			cfg.Renderer.Rebuild = o.rebuild
		case "subpixel-aa":
			cfg.Renderer.SubpixelAA = o.subpixelAA
		case "debug":
			cfg.Renderer.Debug = o.debug
		case "verbose":
			cfg.Renderer.Verbose = o.verbose
		case "watch":
			cfg.Window.Watch = o.watch
		}
	})
	if f := cfg.Recording.Format; f != "" && !recording.IsRegistered(f) {
		return cfg, fmt.Errorf("%w %q, have %v", recording.ErrUnknownFormat, f, recording.Formats())
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config, input, png string) error {
	thing, err := newThing(input)
	if err != nil {
		return err
	}
	if png != "" {
		return runHeadless(cfg, thing, png)
	}
	return runWindow(cfg, input, thing)
}

// newThing picks the frame source for input.
func newThing(input string) (harness.Thing, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return harness.NewReplayThing(input)
	}
	return harness.NewImageThing(input), nil
}
