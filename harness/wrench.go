// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package harness drives a renderer the way a test harness does: it owns
// one API client on the root pipeline, stamps every submission for the
// render notifier, caches loaded images and draws the onscreen help.
package harness

import (
	"errors"
	"fmt"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/notify"
	"github.com/gogpu/wrench/renderer"
	"github.com/gogpu/wrench/sysfont"
	"github.com/gogpu/wrench/timing"
)

// Errors returned by the harness.
var (
	ErrInvalidSize = errors.New("harness: invalid window size")
	ErrNoFrames    = errors.New("harness: no recorded frames")
	ErrNotRoot     = errors.New("harness: display list is not for the root pipeline")
)

// HelpLines is the text of the onscreen help.
var HelpLines = []string{
	"Esc, Q - Quit",
	"H - Toggle help",
	"R - Toggle recreating display items each frame",
	"P - Toggle profiler",
	"Left, Right - Previous, next frame",
}

// Options configures a Wrench session.
type Options struct {
	Renderer renderer.Options
	// Size is the window size in device pixels.
	Size    displaylist.DeviceSize
	Rebuild bool
	Verbose bool
	// Waker is woken after every ready frame. Nil means no wake.
	Waker notify.Waker
	// RendererName and Version describe the graphics context in the title.
	// An empty RendererName uses the renderer's adapter name.
	RendererName string
	Version      string
}

type imageEntry struct {
	key  displaylist.ImageKey
	size displaylist.Size
}

// Wrench is one harness session. It is used from the host thread only.
type Wrench struct {
	renderer *renderer.Renderer
	api      *api.RenderAPI
	timing   *timing.Sender
	notifier *notify.Notifier
	fonts    sysfont.Resolver

	root    displaylist.PipelineID
	size    displaylist.DeviceSize
	dpr     float32
	rebuild bool
	verbose bool

	images map[string]imageEntry

	title        string
	titlePending bool
	rendererName string
	version      string
}

// New creates the renderer, registers the render notifier and sets the
// root pipeline.
func New(opts Options) (*Wrench, error) {
	if opts.Size.Width <= 0 || opts.Size.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Size.Width, opts.Size.Height)
	}
	r, sender, err := renderer.New(opts.Renderer)
	if err != nil {
		return nil, err
	}

	tx, rx := timing.New()
	nopts := []notify.Option{notify.WithVerbose(opts.Verbose)}
	if opts.Waker != nil {
		nopts = append(nopts, notify.WithWaker(opts.Waker))
	}
	n := notify.New(rx, nopts...)
	r.SetRenderNotifier(n)

	fonts := opts.Renderer.Fonts
	if fonts == nil {
		fonts = sysfont.System()
	}

	w := &Wrench{
		renderer:     r,
		api:          sender.CreateAPI(),
		timing:       tx,
		notifier:     n,
		fonts:        fonts,
		size:         opts.Size,
		dpr:          r.Options().DevicePixelRatio,
		rebuild:      opts.Rebuild,
		verbose:      opts.Verbose,
		images:       make(map[string]imageEntry),
		rendererName: opts.RendererName,
		version:      opts.Version,
	}
	if w.rendererName == "" {
		w.rendererName = r.AdapterInfo().Name
	}
	w.api.SetFrameStamp(w.beginFrame)
	if err := w.api.SetRootPipeline(w.root); err != nil {
		return nil, errors.Join(err, r.Close())
	}
	w.SetTitle("start")
	return w, nil
}

// Renderer returns the session's renderer.
func (w *Wrench) Renderer() *renderer.Renderer { return w.renderer }

// API returns the session's API client.
func (w *Wrench) API() *api.RenderAPI { return w.api }

// Root returns the root pipeline.
func (w *Wrench) Root() displaylist.PipelineID { return w.root }

// Stats returns the notifier's latency statistics.
func (w *Wrench) Stats() notify.Snapshot { return w.notifier.Stats() }

// SetTitle queues a window title built from extra.
func (w *Wrench) SetTitle(extra string) {
	w.title = fmt.Sprintf("Wrench: %s (%gx) - %s - %s", extra, w.dpr, w.rendererName, w.version)
	w.titlePending = true
}

// TakeTitle returns the queued title, once.
func (w *Wrench) TakeTitle() (string, bool) {
	if !w.titlePending {
		return "", false
	}
	w.titlePending = false
	return w.title, true
}

// ShouldRebuildDisplayLists reports whether display items are recreated
// every frame.
func (w *Wrench) ShouldRebuildDisplayLists() bool { return w.rebuild }

// ToggleRebuild flips ShouldRebuildDisplayLists and returns the new value.
func (w *Wrench) ToggleRebuild() bool {
	w.rebuild = !w.rebuild
	return w.rebuild
}

// WindowSize returns the window size in device pixels.
func (w *Wrench) WindowSize() displaylist.DeviceSize { return w.size }

// WindowSizeF32 returns the window size in layout pixels.
func (w *Wrench) WindowSizeF32() displaylist.Size {
	return displaylist.Size{
		Width:  float32(w.size.Width) / w.dpr,
		Height: float32(w.size.Height) / w.dpr,
	}
}

// AddOrGetImage registers the image file at path, or returns the key it
// was registered with before.
func (w *Wrench) AddOrGetImage(path string) (displaylist.ImageKey, displaylist.Size, error) {
	if e, ok := w.images[path]; ok {
		return e.key, e.size, nil
	}
	img, err := DecodeFile(path)
	if err != nil {
		return displaylist.ImageKey{}, displaylist.Size{}, err
	}
	desc, px := Pixels(img)
	key, err := w.api.AddImage(desc, api.RawData(px))
	if err != nil {
		return displaylist.ImageKey{}, displaylist.Size{}, fmt.Errorf("%s: %w", path, err)
	}
	e := imageEntry{key: key, size: displaylist.Size{Width: float32(desc.Width), Height: float32(desc.Height)}}
	w.images[path] = e
	return e.key, e.size, nil
}

// ReloadImage decodes path again and replaces the pixels of its key. An
// image that was never added is added.
func (w *Wrench) ReloadImage(path string) (displaylist.ImageKey, displaylist.Size, error) {
	e, ok := w.images[path]
	if !ok {
		return w.AddOrGetImage(path)
	}
	img, err := DecodeFile(path)
	if err != nil {
		return e.key, e.size, err
	}
	desc, px := Pixels(img)
	if err := w.api.UpdateImage(e.key, desc, px); err != nil {
		return e.key, e.size, fmt.Errorf("%s: %w", path, err)
	}
	e.size = displaylist.Size{Width: float32(desc.Width), Height: float32(desc.Height)}
	w.images[path] = e
	return e.key, e.size, nil
}

// FontKeyFromName registers the platform font of the given family.
func (w *Wrench) FontKeyFromName(family string) (displaylist.FontKey, sysfont.NativeHandle, error) {
	_, h, err := w.fonts.FontFromName(family)
	if err != nil {
		return displaylist.FontKey{}, sysfont.NativeHandle{}, err
	}
	key, err := w.FontKeyFromNativeHandle(h)
	return key, h, err
}

// FontKeyFromNativeHandle registers a platform font.
func (w *Wrench) FontKeyFromNativeHandle(h sysfont.NativeHandle) (displaylist.FontKey, error) {
	return w.api.AddNativeFont(h)
}

// FontKeyFromBytes registers font file data.
func (w *Wrench) FontKeyFromBytes(data []byte) (displaylist.FontKey, error) {
	return w.api.AddRawFont(data)
}

// Update records the current window size.
func (w *Wrench) Update(dim displaylist.DeviceSize) {
	if dim != w.size {
		w.size = dim
	}
}

// beginFrame stamps the start of a frame. The API calls it for exactly the
// submissions the renderer answers with a frame-ready callback, after they
// passed validation.
func (w *Wrench) beginFrame() {
	w.timing.PushNow()
}

// PendingTimings returns the number of frame stamps the notifier has not
// consumed yet. It is zero once every submitted frame was reported.
func (w *Wrench) PendingTimings() int { return w.timing.Len() }

// SendLists finalizes b and submits it as frame over a white background.
func (w *Wrench) SendLists(frame uint32, b *displaylist.Builder) error {
	dl, err := b.Finalize()
	if err != nil {
		return err
	}
	return w.SendDisplayList(frame, &displaylist.White, dl)
}

// SendDisplayList submits dl as the root display list at epoch frame.
// Lists for other pipelines and regressing epochs are rejected without
// stamping a frame.
func (w *Wrench) SendDisplayList(frame uint32, background *displaylist.ColorF, dl *displaylist.DisplayList) error {
	if dl == nil {
		return api.ErrNilDisplayList
	}
	if dl.Pipeline() != w.root {
		return fmt.Errorf("%w: %v", ErrNotRoot, dl.Pipeline())
	}
	if err := w.api.SetRootDisplayList(background, displaylist.Epoch(frame), w.WindowSizeF32(), dl); err != nil {
		return err
	}
	if w.verbose {
		wrench.Logger().Debug("frame sent", "frame", frame, "items", dl.Len())
	}
	return nil
}

// Refresh asks for a new frame from the current display lists.
func (w *Wrench) Refresh() error {
	return w.api.GenerateFrame()
}

// Render adopts the newest frame and composites it at the window size.
func (w *Wrench) Render() error {
	w.renderer.Update()
	return w.renderer.Render(w.size)
}

// ShowOnscreenHelp queues the help text for the next composited frame,
// with a drop shadow.
func (w *Wrench) ShowOnscreenHelp() {
	debug := w.renderer.DebugRenderer()
	lh := debug.LineHeight()
	passes := []struct {
		color  displaylist.ColorF
		offset float32
	}{
		{displaylist.Black, 2},
		{displaylist.White, 0},
	}
	for _, p := range passes {
		x := 15 + p.offset
		y := 15 + p.offset + lh
		for _, line := range HelpLines {
			debug.AddText(x, y, line, p.color)
			y += lh
		}
	}
}

// Close closes the API client and the renderer.
func (w *Wrench) Close() error {
	w.api.Close()
	return w.renderer.Close()
}
