// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package renderer is the engine shell behind the API: a backend goroutine
// that turns submitted display lists into frames, and a host-side
// compositor that draws those frames with gg.
//
// The renderer is driven from two sides. API clients post messages through
// the api.Sender returned by New; the backend builds a frame for each root
// display list and reports it to the Notifier. The host thread then calls
// Update to adopt the newest frame and Render to composite it.
//
//	r, sender, err := renderer.New(renderer.DefaultOptions())
//	r.SetRenderNotifier(n)
//	api := sender.CreateAPI()
//	...
//	r.Update()
//	r.Render(displaylist.DeviceSize{Width: w, Height: h})
package renderer

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gg"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/extimage"
	"github.com/gogpu/wrench/recording"
	"github.com/gogpu/wrench/sysfont"
)

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("renderer: closed")

type notifierBox struct{ n Notifier }

// Renderer owns the backend goroutine and composites its frames.
//
// Update, Render, Image and Close are host-thread methods and must not be
// called concurrently with each other. The setters may be called from any
// goroutine.
type Renderer struct {
	opts     Options
	mb       *api.Mailbox
	be       *backend
	shaders  *shaderCache
	recorder recording.Receiver

	published atomic.Pointer[Frame]
	notifier  atomic.Pointer[notifierBox]
	profiler  atomic.Bool
	debug     DebugRenderer

	mu        sync.Mutex
	handler   extimage.Handler
	presenter Presenter
	current   *Frame
	dc        *gg.Context
	dcSize    displaylist.DeviceSize
	image     image.Image
	extCache  map[extimage.ID]extCacheEntry
	stats     renderStats
	closed    bool
}

type renderStats struct {
	frames    uint64
	composite time.Duration
}

// New validates opts, starts the backend goroutine and returns the renderer
// together with the sender that API clients are created from.
func New(opts Options) (*Renderer, *api.Sender, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	r := &Renderer{
		opts:     opts,
		mb:       api.NewMailbox(),
		shaders:  newShaderCache(opts.ResourceOverridePath),
		handler:  extimage.Placeholder{},
		extCache: make(map[extimage.ID]extCacheEntry),
	}
	r.profiler.Store(opts.EnableProfiler)
	r.notifier.Store(&notifierBox{n: nopNotifier{}})

	if opts.PrecacheShaders && opts.ResourceOverridePath != "" {
		if err := r.shaders.precache(); err != nil {
			return nil, nil, err
		}
	}

	if opts.EnableRecording {
		r.recorder = opts.Recorder
		if r.recorder == nil {
			rec, err := recording.NewReceiver(opts.RecordingFormat, opts.RecordingDir)
			if err != nil {
				return nil, nil, fmt.Errorf("renderer: %w", err)
			}
			r.recorder = rec
		}
	}

	if hasDevice(opts.Device) {
		if err := gg.SetAcceleratorDeviceProvider(opts.Device); err != nil {
			wrench.Logger().Warn("sharing device with accelerator failed", "err", err)
		}
	}

	fonts := opts.Fonts
	if fonts == nil {
		fonts = sysfont.System()
	}

	r.be = newBackend(r.mb, fonts, r.recorder, r.currentNotifier, r.published.Store)
	go r.be.run()

	wrench.Logger().Info("renderer created",
		"dpr", opts.DevicePixelRatio,
		"aa", opts.EnableAA,
		"subpixel_aa", opts.EnableSubpixelAA,
		"recording", r.recorder != nil)
	return r, api.NewSender(r.mb), nil
}

// Options returns a copy of the options the renderer was created with.
func (r *Renderer) Options() Options { return r.opts }

// SetRenderNotifier installs the frame notifier. nil removes it.
func (r *Renderer) SetRenderNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	r.notifier.Store(&notifierBox{n: n})
}

func (r *Renderer) currentNotifier() Notifier {
	return r.notifier.Load().n
}

// SetExternalImageHandler installs the handler that resolves external
// images. nil restores the placeholder handler.
func (r *Renderer) SetExternalImageHandler(h extimage.Handler) {
	if h == nil {
		h = extimage.Placeholder{}
	}
	r.mu.Lock()
	r.handler = h
	clear(r.extCache)
	r.mu.Unlock()
}

// SetPresenter installs the presenter that receives composited frames.
func (r *Renderer) SetPresenter(p Presenter) {
	r.mu.Lock()
	r.presenter = p
	r.mu.Unlock()
}

// DebugRenderer returns the overlay for the next frame.
func (r *Renderer) DebugRenderer() *DebugRenderer { return &r.debug }

// SetProfilerEnabled shows or hides the profiler overlay.
func (r *Renderer) SetProfilerEnabled(on bool) { r.profiler.Store(on) }

// ProfilerEnabled reports whether the profiler overlay is shown.
func (r *Renderer) ProfilerEnabled() bool { return r.profiler.Load() }

// Shader returns the compiled SPIR-V of a WGSL override by name.
func (r *Renderer) Shader(name string) ([]byte, error) {
	return r.shaders.get(name)
}

// Update adopts the newest built frame and releases external images that
// were deleted through the API. It reports whether a new frame was adopted.
func (r *Renderer) Update() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	for {
		id, ok := r.be.releases.Pop()
		if !ok {
			break
		}
		delete(r.extCache, id)
		r.handler.Release(id)
	}
	f := r.published.Load()
	if f == nil || f == r.current {
		return false
	}
	r.current = f
	return true
}

// CurrentEpoch returns the epoch of pipeline in the adopted frame.
func (r *Renderer) CurrentEpoch(pipeline displaylist.PipelineID) (displaylist.Epoch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return 0, false
	}
	e, ok := r.current.epochs[pipeline]
	return e, ok
}

// Image returns the last composited frame, or nil before the first Render.
func (r *Renderer) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.image
}

// Close stops the backend, closes the recorder and releases every external
// image still registered. It is idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.mb.Close()
	<-r.be.done

	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		id, ok := r.be.releases.Pop()
		if !ok {
			break
		}
		r.handler.Release(id)
	}
	for _, id := range r.be.res.externals() {
		r.handler.Release(id)
	}
	r.be.res.close()
	clear(r.extCache)

	var errs []error
	if r.dc != nil {
		errs = append(errs, r.dc.Close())
		r.dc = nil
	}
	if r.recorder != nil {
		errs = append(errs, r.recorder.Close())
	}
	wrench.Logger().Info("renderer closed", "frames", r.stats.frames)
	return errors.Join(errs...)
}
