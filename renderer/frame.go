// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg"

	"github.com/gogpu/wrench/displaylist"
)

type opKind uint8

const (
	opRect opKind = iota
	opImage
	opText
	opPushLayer
	opPopLayer
)

// drawOp is one flattened draw command. Geometry is in the local space of
// the enclosing stacking context; transform maps it to layout pixels.
type drawOp struct {
	kind      opKind
	transform gg.Matrix
	bounds    displaylist.Rect
	// clip is the main clip intersected with the bounds.
	clip    displaylist.Rect
	complex []displaylist.ComplexClip
	color   displaylist.ColorF

	image     *imageResource
	stretch   displaylist.Size
	spacing   displaylist.Size
	rendering displaylist.ImageRendering

	text     string
	font     *fontResource
	fontSize float32
	origin   displaylist.Point

	blend   displaylist.MixBlendMode
	opacity float32
}

// Frame is a built, immutable frame ready for compositing.
type Frame struct {
	pipeline   displaylist.PipelineID
	epoch      displaylist.Epoch
	epochs     map[displaylist.PipelineID]displaylist.Epoch
	background *displaylist.ColorF
	viewport   displaylist.Size
	scroll     displaylist.Point
	items      int
	culled     int
	ops        []drawOp
	buildTime  time.Duration
}

// Epoch returns the epoch of the root display list the frame was built from.
func (f *Frame) Epoch() displaylist.Epoch { return f.epoch }

// Pipeline returns the root pipeline of the frame.
func (f *Frame) Pipeline() displaylist.PipelineID { return f.pipeline }

// Len returns the number of draw operations.
func (f *Frame) Len() int { return len(f.ops) }

// affine flattens a 4x4 layout transform to its 2D affine part.
// mgl32 matrices are column-major.
func affine(m mgl32.Mat4) gg.Matrix {
	return gg.Matrix{
		A: float64(m[0]), B: float64(m[4]), C: float64(m[12]),
		D: float64(m[1]), E: float64(m[5]), F: float64(m[13]),
	}
}

// frameBuilder flattens a display list into draw ops.
type frameBuilder struct {
	res      *resources
	viewport displaylist.Rect
	scroll   displaylist.Point

	ops    []drawOp
	culled int
	// stack holds the transform of every open stacking context.
	stack   []contextState
	missing func(kind string, key any)
}

type contextState struct {
	transform gg.Matrix
	layer     bool
}

func (b *frameBuilder) build(dl *displaylist.DisplayList) {
	b.stack = append(b.stack[:0], contextState{transform: gg.Identity()})
	dl.Each(func(it displaylist.Item) bool {
		b.item(it)
		return true
	})
}

func (b *frameBuilder) top() contextState { return b.stack[len(b.stack)-1] }

func (b *frameBuilder) item(it displaylist.Item) {
	switch it.Kind {
	case displaylist.KindPushStackingContext:
		if it.Context == nil {
			// Keep the stack balanced for the matching pop.
			b.stack = append(b.stack, b.top())
			b.stack[len(b.stack)-1].layer = false
			b.missing("stacking context", nil)
			return
		}
		b.pushContext(it.Context)
		return
	case displaylist.KindPopStackingContext:
		if len(b.stack) > 1 {
			if b.top().layer {
				b.ops = append(b.ops, drawOp{kind: opPopLayer})
			}
			b.stack = b.stack[:len(b.stack)-1]
		}
		return
	}

	clip, ok := it.Bounds.Intersect(it.Clip.Main)
	if !ok {
		b.culled++
		return
	}
	for _, c := range it.Clip.Complex {
		if clip, ok = clip.Intersect(c.Rect); !ok {
			b.culled++
			return
		}
	}
	tm := b.top().transform
	if !b.visible(tm, clip) {
		b.culled++
		return
	}

	op := drawOp{
		transform: tm,
		bounds:    it.Bounds,
		clip:      clip,
		complex:   it.Clip.Complex,
		color:     it.Color,
	}
	switch it.Kind {
	case displaylist.KindRect:
		op.kind = opRect
	case displaylist.KindImage:
		if it.Image == nil {
			b.missing("image", nil)
			return
		}
		res, ok := b.res.images[it.Image.Key]
		if !ok {
			b.missing("image", it.Image.Key)
			return
		}
		op.kind = opImage
		op.image = res
		op.stretch = it.Image.Stretch
		op.spacing = it.Image.Spacing
		op.rendering = it.Image.Rendering
	case displaylist.KindText:
		if it.Text == nil {
			b.missing("font", nil)
			return
		}
		f, ok := b.res.fonts[it.Text.Font]
		if !ok {
			b.missing("font", it.Text.Font)
			return
		}
		op.kind = opText
		op.text = it.Text.Text
		op.font = f
		op.fontSize = it.Text.Size
		op.origin = it.Text.Origin
	default:
		return
	}
	b.ops = append(b.ops, op)
}

func (b *frameBuilder) pushContext(sc *displaylist.StackingContext) {
	parent := b.top()
	origin := sc.Bounds.Origin
	// Only outermost scrollable contexts follow the scroll offset; nested
	// ones move with their parent.
	if len(b.stack) == 1 && sc.ScrollPolicy == displaylist.Scrollable {
		origin.X += b.scroll.X
		origin.Y += b.scroll.Y
	}
	tm := parent.transform.
		Multiply(gg.Translate(float64(origin.X), float64(origin.Y))).
		Multiply(affine(sc.Transform)).
		Multiply(affine(sc.Perspective))

	st := contextState{transform: tm, layer: sc.IsIsolated()}
	if st.layer {
		b.ops = append(b.ops, drawOp{kind: opPushLayer, blend: sc.BlendMode, opacity: sc.Opacity})
	}
	b.stack = append(b.stack, st)
}

// visible reports whether r, transformed by tm, touches the viewport.
func (b *frameBuilder) visible(tm gg.Matrix, r displaylist.Rect) bool {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4]gg.Point{
		gg.Pt(float64(r.MinX()), float64(r.MinY())),
		gg.Pt(float64(r.MaxX()), float64(r.MinY())),
		gg.Pt(float64(r.MinX()), float64(r.MaxY())),
		gg.Pt(float64(r.MaxX()), float64(r.MaxY())),
	} {
		q := tm.TransformPoint(p)
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	vp := b.viewport
	return maxX > float64(vp.MinX()) && minX < float64(vp.MaxX()) &&
		maxY > float64(vp.MinY()) && minY < float64(vp.MaxY())
}

// scrollBounds returns the allowed scroll offsets for content in viewport.
// Offsets are zero or negative: scrolling moves content up and left.
func scrollBounds(viewport, content displaylist.Size) (minX, minY float32) {
	return min(0, viewport.Width-content.Width), min(0, viewport.Height-content.Height)
}

func clampScroll(p displaylist.Point, viewport, content displaylist.Size) displaylist.Point {
	minX, minY := scrollBounds(viewport, content)
	return displaylist.Point{
		X: max(minX, min(0, p.X)),
		Y: max(minY, min(0, p.Y)),
	}
}
