// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package api is the client side of the renderer: it submits display lists
// and registers resources without waiting for the renderer.
//
// Every RenderAPI call returns as soon as its message is queued. A
// successful SetRootDisplayList is a request, not a guarantee that the
// frame was drawn; completion is reported to the renderer's notifier.
package api

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/extimage"
	"github.com/gogpu/wrench/sysfont"
)

// Errors returned by RenderAPI.
var (
	ErrEpochNotIncreasing = errors.New("api: epoch not increasing")
	ErrNoRootPipeline     = errors.New("api: root pipeline not set")
	ErrClosed             = errors.New("api: closed")
	ErrInvalidImage       = errors.New("api: invalid image")
	ErrNilDisplayList     = errors.New("api: nil display list")
	ErrUnknownKey         = errors.New("api: unknown key")
)

// Sender creates RenderAPI clients that post to one renderer.
type Sender struct {
	mb        *Mailbox
	namespace atomic.Uint32
}

// NewSender returns a Sender posting to mb.
func NewSender(mb *Mailbox) *Sender {
	return &Sender{mb: mb}
}

// CreateAPI returns a new client with its own resource key namespace.
// The first client gets namespace 0.
func (s *Sender) CreateAPI() *RenderAPI {
	ns := displaylist.IDNamespace(s.namespace.Add(1) - 1)
	return &RenderAPI{
		mb:        s.mb,
		namespace: ns,
		epochs:    make(map[displaylist.PipelineID]displaylist.Epoch),
		images:    make(map[displaylist.ImageKey]bool),
		fonts:     make(map[displaylist.FontKey]bool),
	}
}

// RenderAPI submits display lists and resources to the renderer.
// It is safe for concurrent use, but epoch ordering is only meaningful when
// submissions for a pipeline come from one goroutine.
type RenderAPI struct {
	mb        *Mailbox
	namespace displaylist.IDNamespace

	mu        sync.Mutex
	root      *displaylist.PipelineID
	epochs    map[displaylist.PipelineID]displaylist.Epoch
	nextImage uint32
	nextFont  uint32
	images    map[displaylist.ImageKey]bool
	fonts     map[displaylist.FontKey]bool
	closed    bool
	stamp     func()
}

// Namespace returns the key namespace of this client.
func (a *RenderAPI) Namespace() displaylist.IDNamespace { return a.namespace }

// SetRootPipeline selects the pipeline whose display lists are presented.
// It must be called before the first SetRootDisplayList.
func (a *RenderAPI) SetRootPipeline(id displaylist.PipelineID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.postLocked(SetRootPipelineMsg{Pipeline: id}); err != nil {
		return err
	}
	a.root = &id
	return nil
}

// SetFrameStamp installs fn to be called once for every message that the
// renderer will answer with a frame-ready notification: root display lists
// and GenerateFrame. fn runs under the client lock after the message passed
// validation and immediately before it is queued, so a rejected submission
// is never stamped and stamps stay in submission order.
func (a *RenderAPI) SetFrameStamp(fn func()) {
	a.mu.Lock()
	a.stamp = fn
	a.mu.Unlock()
}

// RootPipeline returns the pipeline set with SetRootPipeline.
func (a *RenderAPI) RootPipeline() (displaylist.PipelineID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.root == nil {
		return displaylist.PipelineID{}, false
	}
	return *a.root, true
}

// SetRootDisplayList submits dl for its pipeline at epoch, drawn over
// background (nil for none) in a viewport of the given size.
//
// epoch must be strictly greater than the last epoch submitted for the same
// pipeline; gaps are allowed. A rejected submission sends nothing.
func (a *RenderAPI) SetRootDisplayList(background *displaylist.ColorF, epoch displaylist.Epoch, viewport displaylist.Size, dl *displaylist.DisplayList) error {
	if dl == nil {
		return ErrNilDisplayList
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	if a.root == nil {
		return ErrNoRootPipeline
	}
	pipeline := dl.Pipeline()
	if last, ok := a.epochs[pipeline]; ok && epoch <= last {
		return fmt.Errorf("%w: %v epoch %d after %d", ErrEpochNotIncreasing, pipeline, epoch, last)
	}

	msg := SetDisplayListMsg{Epoch: epoch, Viewport: viewport, List: dl}
	if background != nil {
		bg := *background
		msg.Background = &bg
	}
	if err := a.postFrameLocked(msg, pipeline == *a.root); err != nil {
		return err
	}
	a.epochs[pipeline] = epoch
	wrench.Logger().Debug("api: display list submitted",
		"pipeline", pipeline.String(), "epoch", uint32(epoch), "items", dl.Len())
	return nil
}

// LastEpoch returns the last epoch accepted for pipeline.
func (a *RenderAPI) LastEpoch(pipeline displaylist.PipelineID) (displaylist.Epoch, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, ok := a.epochs[pipeline]
	return e, ok
}

// GenerateFrame asks the renderer to produce a frame from the current
// display lists without resubmitting them. The renderer reports it like any
// other frame, so it is stamped like one.
func (a *RenderAPI) GenerateFrame() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.postFrameLocked(GenerateFrameMsg{}, true)
}

// Scroll moves the scrollable stacking contexts of the root pipeline.
func (a *RenderAPI) Scroll(delta displaylist.Point) error {
	return a.post(ScrollMsg{Delta: delta})
}

// AddImage registers an image and returns its key. Raw data is validated
// against desc; external data is resolved by the renderer's external image
// handler when drawn.
func (a *RenderAPI) AddImage(desc ImageDescriptor, data ImageData) (displaylist.ImageKey, error) {
	if raw, ok := data.Raw(); ok {
		if err := desc.validate(len(raw)); err != nil {
			return displaylist.ImageKey{}, err
		}
	} else if desc.Width <= 0 || desc.Height <= 0 {
		return displaylist.ImageKey{}, fmt.Errorf("%w: size %dx%d", ErrInvalidImage, desc.Width, desc.Height)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	key := displaylist.ImageKey{Namespace: a.namespace, Key: a.nextImage}
	if err := a.postLocked(AddImageMsg{Key: key, Descriptor: desc, Data: data}); err != nil {
		return displaylist.ImageKey{}, err
	}
	a.nextImage++
	a.images[key] = true
	return key, nil
}

// AddExternalImage registers external image id and returns its key.
func (a *RenderAPI) AddExternalImage(desc ImageDescriptor, id extimage.ID) (displaylist.ImageKey, error) {
	return a.AddImage(desc, ExternalData(id))
}

// UpdateImage replaces the pixels of a raw image. data is copied.
func (a *RenderAPI) UpdateImage(key displaylist.ImageKey, desc ImageDescriptor, data []byte) error {
	if err := desc.validate(len(data)); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.images[key] {
		return fmt.Errorf("%w: image %v", ErrUnknownKey, key)
	}
	return a.postLocked(UpdateImageMsg{Key: key, Descriptor: desc, Data: append([]byte(nil), data...)})
}

// DeleteImage removes an image.
func (a *RenderAPI) DeleteImage(key displaylist.ImageKey) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.images[key] {
		return fmt.Errorf("%w: image %v", ErrUnknownKey, key)
	}
	if err := a.postLocked(DeleteImageMsg{Key: key}); err != nil {
		return err
	}
	delete(a.images, key)
	return nil
}

// AddRawFont registers font file bytes. data is copied.
func (a *RenderAPI) AddRawFont(data []byte) (displaylist.FontKey, error) {
	return a.addFont(func(key displaylist.FontKey) Msg {
		return AddRawFontMsg{Key: key, Data: append([]byte(nil), data...)}
	})
}

// AddNativeFont registers a platform font. The renderer resolves the handle
// through sysfont.
func (a *RenderAPI) AddNativeFont(h sysfont.NativeHandle) (displaylist.FontKey, error) {
	return a.addFont(func(key displaylist.FontKey) Msg {
		return AddNativeFontMsg{Key: key, Handle: h}
	})
}

func (a *RenderAPI) addFont(msg func(displaylist.FontKey) Msg) (displaylist.FontKey, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := displaylist.FontKey{Namespace: a.namespace, Key: a.nextFont}
	if err := a.postLocked(msg(key)); err != nil {
		return displaylist.FontKey{}, err
	}
	a.nextFont++
	a.fonts[key] = true
	return key, nil
}

// DeleteFont removes a font.
func (a *RenderAPI) DeleteFont(key displaylist.FontKey) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.fonts[key] {
		return fmt.Errorf("%w: font %v", ErrUnknownKey, key)
	}
	if err := a.postLocked(DeleteFontMsg{Key: key}); err != nil {
		return err
	}
	delete(a.fonts, key)
	return nil
}

// Close detaches the client. Later calls fail with ErrClosed. The renderer
// keeps running.
func (a *RenderAPI) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
}

func (a *RenderAPI) post(msg Msg) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.postLocked(msg)
}

func (a *RenderAPI) postLocked(msg Msg) error {
	if a.closed || !a.mb.Post(msg) {
		return ErrClosed
	}
	return nil
}

// postFrameLocked is postLocked for messages that may produce a frame.
// A Post that loses a race with Mailbox.Close leaves its stamp behind, but
// a closed renderer delivers no further frames to mispair it with.
func (a *RenderAPI) postFrameLocked(msg Msg, frame bool) error {
	if a.closed || a.mb.Closed() {
		return ErrClosed
	}
	if frame && a.stamp != nil {
		a.stamp()
	}
	if !a.mb.Post(msg) {
		return ErrClosed
	}
	return nil
}
