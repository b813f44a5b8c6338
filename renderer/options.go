// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"errors"
	"fmt"

	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/recording"
	"github.com/gogpu/wrench/sysfont"
)

// ErrInvalidOptions is returned by New for unusable options.
var ErrInvalidOptions = errors.New("renderer: invalid options")

// Options configures a Renderer. It is copied by New and cannot change for
// the lifetime of the renderer.
type Options struct {
	// DevicePixelRatio maps layout pixels to device pixels. It also scales
	// debug text.
	DevicePixelRatio float32

	// EnableAA anti-aliases image sampling and text. When false, images are
	// sampled nearest-neighbour and text is rasterized as bitmaps.
	EnableAA bool

	// EnableSubpixelAA renders text with RGB subpixel coverage.
	EnableSubpixelAA bool

	// Debug draws the frame summary (epoch, item count) in the overlay.
	Debug bool

	// EnableProfiler starts with the profiler overlay shown.
	// See Renderer.SetProfilerEnabled.
	EnableProfiler bool

	// ClearFramebuffer clears to ClearColor before each composite.
	ClearFramebuffer bool
	ClearColor       displaylist.ColorF

	// ResourceOverridePath is a directory of WGSL shader overrides for the
	// GPU accelerator. Empty means none.
	ResourceOverridePath string

	// PrecacheShaders compiles every shader override in New instead of on
	// first use, failing New on a compile error.
	PrecacheShaders bool

	// EnableRecording records every message the renderer receives.
	// Recorder, if set, receives them; otherwise a recorder is created from
	// RecordingFormat and RecordingDir.
	EnableRecording bool
	Recorder        recording.Receiver
	RecordingFormat string
	RecordingDir    string

	// Device shares a GPU device with gg's accelerator. nil means CPU only.
	Device DeviceHandle

	// Fonts resolves native font handles. nil means sysfont.System().
	Fonts sysfont.Resolver
}

// DefaultOptions returns the options used by the harnesses.
func DefaultOptions() Options {
	return Options{
		DevicePixelRatio: 1,
		EnableAA:         true,
		ClearFramebuffer: true,
		ClearColor:       displaylist.ColorF{R: 1, G: 1, B: 1, A: 1},
		RecordingFormat:  "yaml",
		RecordingDir:     "yaml_frames",
	}
}

func (o *Options) validate() error {
	if !(o.DevicePixelRatio > 0) {
		return fmt.Errorf("%w: device pixel ratio %v", ErrInvalidOptions, o.DevicePixelRatio)
	}
	c := o.ClearColor
	for _, v := range []float32{c.R, c.G, c.B, c.A} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear color %v out of range", ErrInvalidOptions, c)
		}
	}
	if o.EnableRecording && o.Recorder == nil && (o.RecordingFormat == "" || o.RecordingDir == "") {
		return fmt.Errorf("%w: recording needs a recorder or a format and directory", ErrInvalidOptions)
	}
	return nil
}
