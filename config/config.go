// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the harness configuration from an optional TOML
// file. Command-line flags are applied on top by the executables.
//
//	[window]
//	size = "1280x720"
//
//	[renderer]
//	dp_ratio = 2.0
//	subpixel_aa = true
//
//	[recording]
//	format = "yaml"
//	dir = "yaml_frames"
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/renderer"
)

// ErrInvalidSize is returned for a malformed or empty window size.
var ErrInvalidSize = errors.New("config: invalid size")

// Config is the harness configuration.
type Config struct {
	Window    Window    `toml:"window"`
	Renderer  Renderer  `toml:"renderer"`
	Recording Recording `toml:"recording"`
}

// Window configures the host window.
type Window struct {
	// Size is "WIDTHxHEIGHT" in device pixels.
	Size  string `toml:"size"`
	Title string `toml:"title"`
	// Watch reloads the input when it changes on disk.
	Watch bool `toml:"watch"`
}

// Renderer configures the renderer and the harness frame loop.
type Renderer struct {
	DevicePixelRatio float32    `toml:"dp_ratio"`
	EnableAA         bool       `toml:"aa"`
	SubpixelAA       bool       `toml:"subpixel_aa"`
	Debug            bool       `toml:"debug"`
	Profiler         bool       `toml:"profiler"`
	Verbose          bool       `toml:"verbose"`
	Rebuild          bool       `toml:"rebuild"`
	ShaderDir        string     `toml:"shaders"`
	PrecacheShaders  bool       `toml:"precache_shaders"`
	ClearColor       [4]float32 `toml:"clear_color"`
}

// Recording configures frame recording. An empty Format disables it.
type Recording struct {
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{Size: "1920x1080", Title: "wrench"},
		Renderer: Renderer{
			DevicePixelRatio: 1,
			EnableAA:         true,
			ClearColor:       [4]float32{1, 1, 1, 1},
		},
		Recording: Recording{Dir: "frames"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be repaired by defaults.
func (c Config) Validate() error {
	if _, err := ParseSize(c.Window.Size); err != nil {
		return err
	}
	if !(c.Renderer.DevicePixelRatio > 0) {
		return fmt.Errorf("config: dp_ratio %v must be positive", c.Renderer.DevicePixelRatio)
	}
	return nil
}

// Size returns the parsed window size.
func (c Config) Size() (displaylist.DeviceSize, error) {
	return ParseSize(c.Window.Size)
}

// ParseSize parses "WIDTHxHEIGHT".
func ParseSize(s string) (displaylist.DeviceSize, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return displaylist.DeviceSize{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return displaylist.DeviceSize{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return displaylist.DeviceSize{Width: w, Height: h}, nil
}

// RendererOptions converts the configuration to renderer options.
func (c Config) RendererOptions() renderer.Options {
	opts := renderer.DefaultOptions()
	r := c.Renderer
	opts.DevicePixelRatio = r.DevicePixelRatio
	opts.EnableAA = r.EnableAA
	opts.EnableSubpixelAA = r.SubpixelAA
	opts.Debug = r.Debug
	opts.EnableProfiler = r.Profiler
	opts.ResourceOverridePath = r.ShaderDir
	opts.PrecacheShaders = r.PrecacheShaders
	opts.ClearColor = displaylist.ColorF{R: r.ClearColor[0], G: r.ClearColor[1], B: r.ClearColor[2], A: r.ClearColor[3]}
	if c.Recording.Format != "" {
		opts.EnableRecording = true
		opts.RecordingFormat = c.Recording.Format
		opts.RecordingDir = c.Recording.Dir
	}
	return opts
}
