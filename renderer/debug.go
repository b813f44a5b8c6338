// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/wrench/displaylist"
)

// debugFontSize is the overlay text size in layout pixels.
const debugFontSize = 14

// DebugRenderer collects overlay text for the next composited frame.
// Entries are drawn once, after the frame, and then cleared.
//
// It is safe for concurrent use.
type DebugRenderer struct {
	mu    sync.Mutex
	texts []debugText
	quads []debugQuad
}

type debugText struct {
	x, y  float32
	s     string
	color displaylist.ColorF
}

type debugQuad struct {
	rect  displaylist.Rect
	color displaylist.ColorF
}

// AddText queues s with its baseline-left corner at (x, y).
func (d *DebugRenderer) AddText(x, y float32, s string, color displaylist.ColorF) {
	d.mu.Lock()
	d.texts = append(d.texts, debugText{x: x, y: y, s: s, color: color})
	d.mu.Unlock()
}

// AddQuad queues a filled rectangle, drawn below the queued text.
func (d *DebugRenderer) AddQuad(r displaylist.Rect, color displaylist.ColorF) {
	d.mu.Lock()
	d.quads = append(d.quads, debugQuad{rect: r, color: color})
	d.mu.Unlock()
}

// LineHeight returns the advance between overlay text lines.
func (d *DebugRenderer) LineHeight() float32 {
	return debugFontSize * 1.25
}

// Len returns the number of queued entries.
func (d *DebugRenderer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.texts) + len(d.quads)
}

func (d *DebugRenderer) take() ([]debugText, []debugQuad) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, q := d.texts, d.quads
	d.texts, d.quads = nil, nil
	return t, q
}

var (
	debugFaceOnce sync.Once
	debugFace     text.Face
	debugFaceErr  error
)

// overlayFace returns the built-in overlay face.
func overlayFace() (text.Face, error) {
	debugFaceOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			debugFaceErr = fmt.Errorf("overlay font: %w", err)
			return
		}
		debugFace = src.Face(debugFontSize)
	})
	return debugFace, debugFaceErr
}

// drawOverlay draws the queued entries plus the frame summary and the
// profiler lines.
func (r *Renderer) drawOverlay(dc *gg.Context, f *Frame) error {
	texts, quads := r.debug.take()
	if r.opts.Debug && f != nil {
		texts = append(texts, debugText{
			x: 8, y: float32(dc.Height()) - 8,
			s:     fmt.Sprintf("epoch %d  items %d  ops %d  culled %d", f.epoch, f.items, len(f.ops), f.culled),
			color: displaylist.ColorF{R: 1, G: 1, B: 0, A: 1},
		})
	}
	if r.profiler.Load() {
		texts = append(texts, r.profilerLines(float32(dc.Width()), f)...)
	}
	if len(texts) == 0 && len(quads) == 0 {
		return nil
	}

	dc.Push()
	defer dc.Pop()
	dc.Identity()
	for _, q := range quads {
		setColor(dc, q.color)
		dc.DrawRectangle(float64(q.rect.MinX()), float64(q.rect.MinY()), float64(q.rect.Size.Width), float64(q.rect.Size.Height))
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if len(texts) == 0 {
		return nil
	}
	face, err := overlayFace()
	if err != nil {
		return err
	}
	dc.SetFont(face)
	for _, t := range texts {
		setColor(dc, t.color)
		dc.DrawString(t.s, float64(t.x), float64(t.y))
	}
	return nil
}

func (r *Renderer) profilerLines(width float32, f *Frame) []debugText {
	white := displaylist.White
	x := width - 220
	lh := r.debug.LineHeight()
	lines := []string{
		fmt.Sprintf("composite  %6.2f ms", ms(r.stats.composite)),
		fmt.Sprintf("frames     %6d", r.stats.frames),
	}
	if f != nil {
		lines = append(lines, fmt.Sprintf("build      %6.2f ms", ms(f.buildTime)))
	}
	out := make([]debugText, len(lines))
	for i, s := range lines {
		out[i] = debugText{x: x, y: lh * float32(i+1), s: s, color: white}
	}
	return out
}
