// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package displaylist defines the immutable scene description that the host
// submits to the renderer, and the builder that produces it.
package displaylist

import "fmt"

// Epoch identifies a submitted scene version. Epochs submitted for a pipeline
// must be strictly increasing; they need not be contiguous.
type Epoch uint32

// Next returns the epoch following e.
func (e Epoch) Next() Epoch { return e + 1 }

// IDNamespace separates resource keys allocated by different API clients.
type IDNamespace uint32

// PipelineID identifies a logical surface that receives display lists.
type PipelineID struct {
	Namespace uint32 `json:"namespace" yaml:"namespace" toml:"namespace"`
	Index     uint32 `json:"index" yaml:"index" toml:"index"`
}

func (p PipelineID) String() string {
	return fmt.Sprintf("PipelineID(%d, %d)", p.Namespace, p.Index)
}

// ImageKey is the opaque handle of a registered image.
type ImageKey struct {
	Namespace IDNamespace `json:"namespace" yaml:"namespace" toml:"namespace"`
	Key       uint32      `json:"key" yaml:"key" toml:"key"`
}

// FontKey is the opaque handle of a registered font.
type FontKey struct {
	Namespace IDNamespace `json:"namespace" yaml:"namespace" toml:"namespace"`
	Key       uint32      `json:"key" yaml:"key" toml:"key"`
}

// Point is a 2D point in layout pixels.
type Point struct {
	X float32 `json:"x" yaml:"x" toml:"x"`
	Y float32 `json:"y" yaml:"y" toml:"y"`
}

// Size is a 2D extent in layout pixels.
type Size struct {
	Width  float32 `json:"width" yaml:"width" toml:"width"`
	Height float32 `json:"height" yaml:"height" toml:"height"`
}

// IsEmpty reports whether s has no area.
func (s Size) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle in layout pixels.
type Rect struct {
	Origin Point `json:"origin" yaml:"origin" toml:"origin"`
	Size   Size  `json:"size" yaml:"size" toml:"size"`
}

// R is shorthand for a Rect at (x, y) with size w×h.
func R(x, y, w, h float32) Rect {
	return Rect{Origin: Point{x, y}, Size: Size{w, h}}
}

func (r Rect) MinX() float32 { return r.Origin.X }
func (r Rect) MinY() float32 { return r.Origin.Y }
func (r Rect) MaxX() float32 { return r.Origin.X + r.Size.Width }
func (r Rect) MaxY() float32 { return r.Origin.Y + r.Size.Height }

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool { return r.Size.IsEmpty() }

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	return r
}

// Intersect returns the overlap of r and o. The boolean is false when the
// rectangles do not overlap.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	x0 := max(r.MinX(), o.MinX())
	y0 := max(r.MinY(), o.MinY())
	x1 := min(r.MaxX(), o.MaxX())
	y1 := min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return R(x0, y0, x1-x0, y1-y0), true
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// DeviceSize is a framebuffer size in device pixels.
type DeviceSize struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// ColorF is a non-premultiplied RGBA color with components in [0, 1].
type ColorF struct {
	R float32 `json:"r" yaml:"r" toml:"r"`
	G float32 `json:"g" yaml:"g" toml:"g"`
	B float32 `json:"b" yaml:"b" toml:"b"`
	A float32 `json:"a" yaml:"a" toml:"a"`
}

var (
	White       = ColorF{1, 1, 1, 1}
	Black       = ColorF{0, 0, 0, 1}
	Transparent = ColorF{}
)

// ComplexClip is a rounded-rectangle clip.
type ComplexClip struct {
	Rect   Rect    `json:"rect" yaml:"rect" toml:"rect"`
	Radius float32 `json:"radius" yaml:"radius" toml:"radius"`
}

// ClipRegion restricts an item to Main intersected with every Complex clip.
type ClipRegion struct {
	Main    Rect          `json:"main" yaml:"main" toml:"main"`
	Complex []ComplexClip `json:"complex,omitempty" yaml:"complex,omitempty" toml:"complex,omitempty"`
}

func (c ClipRegion) clone() ClipRegion {
	if c.Complex != nil {
		c.Complex = append([]ComplexClip(nil), c.Complex...)
	}
	return c
}
