// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"time"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/extimage"
	"github.com/gogpu/wrench/internal/lockfree"
	"github.com/gogpu/wrench/recording"
	"github.com/gogpu/wrench/sysfont"
)

// pipelineState is the latest submission for one pipeline.
type pipelineState struct {
	epoch       displaylist.Epoch
	list        *displaylist.DisplayList
	background  *displaylist.ColorF
	viewport    displaylist.Size
	hasViewport bool
}

// backend is the renderer goroutine. It owns the resource cache and the
// pipeline states; the host side only sees published frames.
type backend struct {
	mb       *api.Mailbox
	res      *resources
	fonts    sysfont.Resolver
	recorder recording.Receiver
	notifier func() Notifier
	publish  func(*Frame)
	// releases carries deleted external images to the host, which
	// releases them in Update.
	releases *lockfree.Queue[extimage.ID]

	pipelines map[displaylist.PipelineID]*pipelineState
	root      displaylist.PipelineID
	hasRoot   bool
	scroll    displaylist.Point

	done chan struct{}
}

func newBackend(mb *api.Mailbox, fonts sysfont.Resolver, rec recording.Receiver, notifier func() Notifier, publish func(*Frame)) *backend {
	return &backend{
		mb:        mb,
		res:       newResources(),
		fonts:     fonts,
		recorder:  rec,
		notifier:  notifier,
		publish:   publish,
		releases:  lockfree.New[extimage.ID](),
		pipelines: make(map[displaylist.PipelineID]*pipelineState),
		done:      make(chan struct{}),
	}
}

// run processes messages until the mailbox is closed and drained.
func (b *backend) run() {
	defer close(b.done)
	for {
		b.drain()
		if b.mb.Closed() {
			b.drain()
			return
		}
		<-b.mb.Wake()
	}
}

func (b *backend) drain() {
	for {
		msg, ok := b.mb.Recv()
		if !ok {
			return
		}
		b.handle(msg)
	}
}

func (b *backend) handle(msg api.Msg) {
	log := wrench.Logger()
	if b.recorder != nil {
		if err := b.recorder.Record(msg); err != nil {
			log.Warn("recording failed", "msg", msgName(msg), "err", err)
		}
	}

	switch m := msg.(type) {
	case api.SetRootPipelineMsg:
		log.Debug("set root pipeline", "pipeline", m.Pipeline)
		if !b.hasRoot || b.root != m.Pipeline {
			b.scroll = displaylist.Point{}
		}
		b.root, b.hasRoot = m.Pipeline, true

	case api.SetDisplayListMsg:
		b.setDisplayList(m)

	case api.GenerateFrameMsg:
		log.Debug("generate frame")
		b.buildAndPublish()
		b.notifier().NewFrameReady()

	case api.ScrollMsg:
		b.doScroll(m.Delta)

	case api.AddImageMsg:
		if err := b.res.addImage(m.Key, m.Descriptor, m.Data); err != nil {
			log.Warn("add image failed", "key", m.Key, "err", err)
		}

	case api.UpdateImageMsg:
		if old, ok := b.res.images[m.Key]; ok && old.isExternal {
			log.Warn("update of external image ignored", "key", m.Key)
			return
		}
		if err := b.res.updateImage(m.Key, m.Descriptor, m.Data); err != nil {
			log.Warn("update image failed", "key", m.Key, "err", err)
		}

	case api.DeleteImageMsg:
		res, ok := b.res.deleteImage(m.Key)
		if ok && res.isExternal {
			res.released.Store(true)
			b.releases.Push(res.external)
		}

	case api.AddRawFontMsg:
		if err := b.res.addFont(m.Key, m.Data); err != nil {
			log.Warn("add font failed", "key", m.Key, "err", err)
		}

	case api.AddNativeFontMsg:
		data, err := b.fonts.FontFromHandle(m.Handle)
		if err == nil {
			err = b.res.addFont(m.Key, data)
		}
		if err != nil {
			log.Warn("add native font failed", "key", m.Key, "handle", m.Handle, "err", err)
		}

	case api.DeleteFontMsg:
		b.res.deleteFont(m.Key)
	}
}

func (b *backend) setDisplayList(m api.SetDisplayListMsg) {
	p := m.List.Pipeline()
	st, ok := b.pipelines[p]
	if !ok {
		st = &pipelineState{}
		b.pipelines[p] = st
	}
	st.epoch, st.list, st.background = m.Epoch, m.List, m.Background

	if !st.hasViewport || st.viewport != m.Viewport {
		st.viewport, st.hasViewport = m.Viewport, true
		size := m.Viewport
		b.notifier().PipelineSizeChanged(p, &size)
	}

	wrench.Logger().Debug("display list", "pipeline", p, "epoch", m.Epoch, "items", m.List.Len())
	if !b.hasRoot || p != b.root {
		return
	}
	b.scroll = clampScroll(b.scroll, st.viewport, m.List.ContentSize())
	b.buildAndPublish()
	b.notifier().NewFrameReady()
}

func (b *backend) doScroll(delta displaylist.Point) {
	changed := false
	if st := b.rootState(); st != nil {
		next := clampScroll(displaylist.Point{X: b.scroll.X + delta.X, Y: b.scroll.Y + delta.Y},
			st.viewport, st.list.ContentSize())
		if next != b.scroll {
			b.scroll = next
			changed = true
			b.buildAndPublish()
		}
	}
	b.notifier().NewScrollFrameReady(changed)
}

func (b *backend) rootState() *pipelineState {
	if !b.hasRoot {
		return nil
	}
	st := b.pipelines[b.root]
	if st == nil || st.list == nil {
		return nil
	}
	return st
}

func (b *backend) buildAndPublish() {
	start := time.Now()
	f := &Frame{
		pipeline: b.root,
		epochs:   make(map[displaylist.PipelineID]displaylist.Epoch, len(b.pipelines)),
		scroll:   b.scroll,
	}
	for p, st := range b.pipelines {
		f.epochs[p] = st.epoch
	}

	if st := b.rootState(); st != nil {
		f.epoch = st.epoch
		f.background = st.background
		f.viewport = st.viewport
		f.items = st.list.Len()

		vp := st.viewport
		if vp.IsEmpty() {
			vp = st.list.ContentSize()
		}
		fb := frameBuilder{
			res:      b.res,
			viewport: displaylist.Rect{Size: vp},
			scroll:   b.scroll,
			missing: func(kind string, key any) {
				wrench.Logger().Warn("display item references unknown resource", "kind", kind, "key", key)
			},
		}
		fb.build(st.list)
		f.ops, f.culled = fb.ops, fb.culled
	}
	f.buildTime = time.Since(start)
	b.publish(f)
}

func msgName(msg api.Msg) string {
	switch msg.(type) {
	case api.SetRootPipelineMsg:
		return "set_root_pipeline"
	case api.SetDisplayListMsg:
		return "set_display_list"
	case api.GenerateFrameMsg:
		return "generate_frame"
	case api.ScrollMsg:
		return "scroll"
	case api.AddImageMsg:
		return "add_image"
	case api.UpdateImageMsg:
		return "update_image"
	case api.DeleteImageMsg:
		return "delete_image"
	case api.AddRawFontMsg:
		return "add_raw_font"
	case api.AddNativeFontMsg:
		return "add_native_font"
	case api.DeleteFontMsg:
		return "delete_font"
	default:
		return "unknown"
	}
}
