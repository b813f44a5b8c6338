// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"fmt"
	"image"
	"math"
	"reflect"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/extimage"
)

// extCacheEntry keeps the converted buffer of a raw external image until
// the handler hands out a different image.
type extCacheEntry struct {
	src image.Image
	buf *gg.ImageBuf
}

// frameLocks tracks the external images locked while compositing one frame.
type frameLocks struct {
	handler extimage.Handler
	locked  map[extimage.ID]extimage.Image
	order   []extimage.ID
}

func (l *frameLocks) lock(id extimage.ID) extimage.Image {
	if img, ok := l.locked[id]; ok {
		return img
	}
	img := l.handler.Lock(id)
	l.locked[id] = img
	l.order = append(l.order, id)
	return img
}

func (l *frameLocks) unlockAll() {
	for _, id := range l.order {
		l.handler.Unlock(id)
	}
}

// Render composites the adopted frame into a framebuffer of the given
// device size and hands it to the presenter.
//
// Without an adopted frame only the clear color is drawn.
func (r *Renderer) Render(size displaylist.DeviceSize) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("renderer: framebuffer size %dx%d", size.Width, size.Height)
	}

	start := time.Now()
	dc := r.context(size)
	f := r.current

	if r.opts.ClearFramebuffer {
		dc.ClearWithColor(toRGBA(r.opts.ClearColor))
	} else {
		dc.Clear()
	}
	dc.ResetClip()
	dc.Identity()

	var native []NativeTextureDraw
	if f != nil {
		if f.background != nil {
			setColor(dc, *f.background)
			dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("renderer: background: %w", err)
			}
		}

		locks := &frameLocks{handler: r.handler, locked: make(map[extimage.ID]extimage.Image)}
		var err error
		native, err = r.drawOps(dc, f.ops, locks)
		locks.unlockAll()
		if err != nil {
			wrench.Logger().Error("composite failed", "epoch", f.epoch, "err", err)
			return fmt.Errorf("renderer: composite epoch %d: %w", f.epoch, err)
		}
	}

	if err := r.drawOverlay(dc, f); err != nil {
		wrench.Logger().Warn("debug overlay failed", "err", err)
	}
	if err := dc.FlushGPU(); err != nil {
		wrench.Logger().Warn("accelerator flush failed", "err", err)
	}

	r.image = dc.Image()
	r.stats.frames++
	r.stats.composite = time.Since(start)

	if r.presenter != nil {
		if err := r.presenter.Present(r.image, native); err != nil {
			return fmt.Errorf("renderer: present: %w", err)
		}
	}
	return nil
}

// context returns a gg context for size, reusing the previous one when the
// size is unchanged.
func (r *Renderer) context(size displaylist.DeviceSize) *gg.Context {
	if r.dc != nil && r.dcSize == size {
		return r.dc
	}
	if r.dc != nil {
		_ = r.dc.Close()
	}
	dpr := float64(r.opts.DevicePixelRatio)
	w := int(math.Round(float64(size.Width) / dpr))
	h := int(math.Round(float64(size.Height) / dpr))
	dc := gg.NewContextWithScale(max(w, 1), max(h, 1), dpr)
	if r.opts.EnableSubpixelAA {
		dc.SetLCDLayout(gg.LCDLayoutRGB)
	} else {
		dc.SetLCDLayout(gg.LCDLayoutNone)
	}
	if !r.opts.EnableAA {
		dc.SetTextMode(gg.TextModeBitmap)
	}
	r.dc, r.dcSize = dc, size
	return dc
}

func (r *Renderer) drawOps(dc *gg.Context, ops []drawOp, locks *frameLocks) ([]NativeTextureDraw, error) {
	var native []NativeTextureDraw
	for i := range ops {
		op := &ops[i]
		switch op.kind {
		case opPushLayer:
			dc.PushLayer(blendMode(op.blend), float64(op.opacity))
			continue
		case opPopLayer:
			dc.PopLayer()
			continue
		}

		dc.Push()
		dc.SetTransform(op.transform)
		dc.ClipRect(float64(op.clip.MinX()), float64(op.clip.MinY()), float64(op.clip.Size.Width), float64(op.clip.Size.Height))
		for _, c := range op.complex {
			dc.ClipRoundRect(float64(c.Rect.MinX()), float64(c.Rect.MinY()), float64(c.Rect.Size.Width), float64(c.Rect.Size.Height), float64(c.Radius))
		}

		var err error
		switch op.kind {
		case opRect:
			setColor(dc, op.color)
			dc.DrawRectangle(float64(op.bounds.MinX()), float64(op.bounds.MinY()), float64(op.bounds.Size.Width), float64(op.bounds.Size.Height))
			err = dc.Fill()
		case opImage:
			native = r.drawImage(dc, op, locks, native)
		case opText:
			setColor(dc, op.color)
			dc.SetFont(op.font.source.Face(float64(op.fontSize)))
			dc.DrawString(op.text, float64(op.origin.X), float64(op.origin.Y))
		}
		dc.Pop()
		if err != nil {
			return native, err
		}
	}
	return native, nil
}

// drawImage tiles the image of op over its bounds. Native external
// textures are appended to native instead.
func (r *Renderer) drawImage(dc *gg.Context, op *drawOp, locks *frameLocks, native []NativeTextureDraw) []NativeTextureDraw {
	res := op.image
	buf := res.buf
	var src *image.Rectangle

	if res.isExternal {
		if res.released.Load() {
			return native
		}
		ext := locks.lock(res.external)
		switch ext.Source.Kind() {
		case extimage.SourceRaw:
			img, _ := ext.Source.Raw()
			buf = r.externalBuf(res.external, img)
			rect := uvRect(ext.UV, img.Bounds())
			src = &rect
		case extimage.SourceNative:
			tex, _ := ext.Source.Native()
			for _, tile := range tiles(op) {
				native = append(native, NativeTextureDraw{
					Texture: tex,
					Dst:     r.deviceRect(op.transform, tile),
					UV:      ext.UV,
				})
			}
			return native
		default:
			return native
		}
	}
	if buf == nil {
		return native
	}

	interp := gg.InterpBilinear
	if op.rendering != displaylist.RenderingAuto || !r.opts.EnableAA {
		interp = gg.InterpNearest
	}
	for _, tile := range tiles(op) {
		dc.DrawImageEx(buf, gg.DrawImageOptions{
			X:             float64(tile.MinX()),
			Y:             float64(tile.MinY()),
			DstWidth:      float64(tile.Size.Width),
			DstHeight:     float64(tile.Size.Height),
			SrcRect:       src,
			Interpolation: interp,
			Opacity:       1,
		})
	}
	return native
}

// externalBuf converts a raw external image, reusing the last conversion
// while the handler returns the same image.
func (r *Renderer) externalBuf(id extimage.ID, img image.Image) *gg.ImageBuf {
	cacheable := reflect.TypeOf(img).Comparable()
	if e, ok := r.extCache[id]; ok && cacheable && e.src == img {
		return e.buf
	}
	buf := gg.ImageBufFromImage(img)
	if cacheable {
		r.extCache[id] = extCacheEntry{src: img, buf: buf}
	}
	return buf
}

// tiles returns the repeated image rectangles of op, in local space.
func tiles(op *drawOp) []displaylist.Rect {
	b := op.bounds
	stretch := op.stretch
	if stretch.IsEmpty() {
		stretch = b.Size
	}
	stepX := stretch.Width + max(0, op.spacing.Width)
	stepY := stretch.Height + max(0, op.spacing.Height)

	var out []displaylist.Rect
	for y := b.MinY(); y < b.MaxY(); y += stepY {
		for x := b.MinX(); x < b.MaxX(); x += stepX {
			t := displaylist.R(x, y, stretch.Width, stretch.Height)
			if _, ok := t.Intersect(op.clip); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// deviceRect maps a local rectangle to device pixels.
func (r *Renderer) deviceRect(tm gg.Matrix, rect displaylist.Rect) image.Rectangle {
	dpr := float64(r.opts.DevicePixelRatio)
	p0 := tm.TransformPoint(gg.Pt(float64(rect.MinX()), float64(rect.MinY())))
	p1 := tm.TransformPoint(gg.Pt(float64(rect.MaxX()), float64(rect.MaxY())))
	return image.Rect(
		int(math.Round(math.Min(p0.X, p1.X)*dpr)),
		int(math.Round(math.Min(p0.Y, p1.Y)*dpr)),
		int(math.Round(math.Max(p0.X, p1.X)*dpr)),
		int(math.Round(math.Max(p0.Y, p1.Y)*dpr)),
	)
}

// uvRect converts normalized coordinates to a pixel rectangle of bounds.
func uvRect(uv displaylist.Rect, bounds image.Rectangle) image.Rectangle {
	w, h := float32(bounds.Dx()), float32(bounds.Dy())
	return image.Rect(
		bounds.Min.X+int(uv.MinX()*w), bounds.Min.Y+int(uv.MinY()*h),
		bounds.Min.X+int(uv.MaxX()*w), bounds.Min.Y+int(uv.MaxY()*h),
	)
}

func toRGBA(c displaylist.ColorF) gg.RGBA {
	return gg.RGBA{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

func setColor(dc *gg.Context, c displaylist.ColorF) {
	dc.SetRGBA(float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}

func blendMode(m displaylist.MixBlendMode) gg.BlendMode {
	switch m {
	case displaylist.BlendMultiply:
		return gg.BlendMultiply
	case displaylist.BlendScreen:
		return gg.BlendScreen
	case displaylist.BlendOverlay:
		return gg.BlendOverlay
	default:
		return gg.BlendNormal
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
