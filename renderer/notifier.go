// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import "github.com/gogpu/wrench/displaylist"

// Notifier receives frame completion callbacks. The renderer calls it from
// its backend goroutine, never concurrently, and never from the goroutine
// that calls Render. Implementations must not block.
type Notifier interface {
	// NewFrameReady reports one built frame per display list submission or
	// GenerateFrame request, in submission order.
	NewFrameReady()
	// NewScrollFrameReady reports a frame built for a scroll.
	// compositeNeeded is false when the scroll did not move anything.
	NewScrollFrameReady(compositeNeeded bool)
	// PipelineSizeChanged reports the first or a changed viewport size of
	// a pipeline. size is nil when the pipeline is removed.
	PipelineSizeChanged(pipeline displaylist.PipelineID, size *displaylist.Size)
}

type nopNotifier struct{}

func (nopNotifier) NewFrameReady()                                                {}
func (nopNotifier) NewScrollFrameReady(bool)                                      {}
func (nopNotifier) PipelineSizeChanged(displaylist.PipelineID, *displaylist.Size) {}
