// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"image"

	"github.com/gogpu/wrench/displaylist"
)

// NativeTextureDraw is an external image backed by a host texture. The
// compositor cannot sample it, so it is handed to the Presenter to draw on
// top of the composited frame.
type NativeTextureDraw struct {
	Texture uint32
	// Dst is the destination in device pixels.
	Dst image.Rectangle
	// UV is the normalized source rectangle.
	UV displaylist.Rect
}

// Presenter puts a composited frame on screen.
type Presenter interface {
	Present(frame image.Image, native []NativeTextureDraw) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(frame image.Image, native []NativeTextureDraw) error

// Present calls f.
func (f PresenterFunc) Present(frame image.Image, native []NativeTextureDraw) error {
	return f(frame, native)
}
