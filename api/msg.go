// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package api

import (
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/sysfont"
)

// Msg is a message from an API client to the renderer backend.
// The set of implementations is closed.
type Msg interface {
	isMsg()
}

// SetRootPipelineMsg selects the pipeline presented by the renderer.
type SetRootPipelineMsg struct {
	Pipeline displaylist.PipelineID
}

// SetDisplayListMsg submits a display list for a pipeline at an epoch.
type SetDisplayListMsg struct {
	Background *displaylist.ColorF
	Epoch      displaylist.Epoch
	Viewport   displaylist.Size
	List       *displaylist.DisplayList
}

// GenerateFrameMsg asks for a new frame from the current display lists.
type GenerateFrameMsg struct{}

// ScrollMsg scrolls the scrollable stacking contexts of the root pipeline.
type ScrollMsg struct {
	Delta displaylist.Point
}

// AddImageMsg registers an image under Key.
type AddImageMsg struct {
	Key        displaylist.ImageKey
	Descriptor ImageDescriptor
	Data       ImageData
}

// UpdateImageMsg replaces the pixels of a raw image.
type UpdateImageMsg struct {
	Key        displaylist.ImageKey
	Descriptor ImageDescriptor
	Data       []byte
}

// DeleteImageMsg removes an image. Deleting an external image releases it.
type DeleteImageMsg struct {
	Key displaylist.ImageKey
}

// AddRawFontMsg registers font file bytes under Key.
type AddRawFontMsg struct {
	Key  displaylist.FontKey
	Data []byte
}

// AddNativeFontMsg registers a platform font under Key.
type AddNativeFontMsg struct {
	Key    displaylist.FontKey
	Handle sysfont.NativeHandle
}

// DeleteFontMsg removes a font.
type DeleteFontMsg struct {
	Key displaylist.FontKey
}

func (SetRootPipelineMsg) isMsg() {}
func (SetDisplayListMsg) isMsg()  {}
func (GenerateFrameMsg) isMsg()   {}
func (ScrollMsg) isMsg()          {}
func (AddImageMsg) isMsg()        {}
func (UpdateImageMsg) isMsg()     {}
func (DeleteImageMsg) isMsg()     {}
func (AddRawFontMsg) isMsg()      {}
func (AddNativeFontMsg) isMsg()   {}
func (DeleteFontMsg) isMsg()      {}
