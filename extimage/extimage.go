// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package extimage resolves external images: pixel sources owned outside the
// renderer and referenced from display lists by an opaque ID.
//
// The renderer brokers access through a [Handler]:
//
//	img := h.Lock(id)  // immediately before sampling
//	...                // sample img.Source within img.UV
//	h.Unlock(id)       // after the frame; the resource stays valid
//	h.Release(id)      // once the image is deleted; id is dead afterwards
//
// Lock and Unlock are paired within a frame, and Release only follows a
// fully unlocked handle. Ownership of the backing resource never moves to
// the renderer.
package extimage

import (
	"fmt"
	"image"

	"github.com/gogpu/wrench/displaylist"
)

// ID is the opaque identifier of an external image.
type ID uint64

// SourceKind distinguishes the two kinds of sampleable source.
type SourceKind uint8

const (
	SourceInvalid SourceKind = iota
	SourceRaw
	SourceNative
)

// Source is a sampleable pixel source: either CPU pixels or a native
// texture name owned by the host.
type Source struct {
	kind    SourceKind
	raw     image.Image
	texture uint32
}

// RawSource wraps CPU pixels.
func RawSource(img image.Image) Source {
	if img == nil {
		return Source{}
	}
	return Source{kind: SourceRaw, raw: img}
}

// NativeTexture wraps a host texture name.
func NativeTexture(id uint32) Source {
	return Source{kind: SourceNative, texture: id}
}

// Kind returns the source kind.
func (s Source) Kind() SourceKind { return s.kind }

// IsValid reports whether s refers to anything.
func (s Source) IsValid() bool { return s.kind != SourceInvalid }

// Raw returns the CPU pixels of a raw source.
func (s Source) Raw() (image.Image, bool) { return s.raw, s.kind == SourceRaw }

// Native returns the texture name of a native source.
func (s Source) Native() (uint32, bool) { return s.texture, s.kind == SourceNative }

func (s Source) String() string {
	switch s.kind {
	case SourceRaw:
		b := s.raw.Bounds()
		return fmt.Sprintf("Raw(%dx%d)", b.Dx(), b.Dy())
	case SourceNative:
		return fmt.Sprintf("NativeTexture(%d)", s.texture)
	default:
		return "Invalid"
	}
}

// FullUV covers the whole source.
var FullUV = displaylist.R(0, 0, 1, 1)

// Image is the result of a lock: a source and the normalized sub-rectangle
// of it to sample.
type Image struct {
	UV     displaylist.Rect
	Source Source
}

// Handler is implemented by the owner of external images.
//
// The renderer calls the methods from the goroutine that runs
// Renderer.Render and Renderer.Update.
type Handler interface {
	Lock(id ID) Image
	Unlock(id ID)
	Release(id ID)
}

// Placeholder resolves every handle to native texture 0 with full UVs.
// It is only useful for demos that bind a single texture up front.
type Placeholder struct{}

func (Placeholder) Lock(ID) Image {
	return Image{UV: FullUV, Source: NativeTexture(0)}
}

func (Placeholder) Unlock(ID)  {}
func (Placeholder) Release(ID) {}

var _ Handler = Placeholder{}
