// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package harness

import (
	"fmt"
	"path/filepath"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/recording"
)

// Thing is a source of frames driven by the harness main loop.
type Thing interface {
	NextFrame()
	PrevFrame()
	// DoFrame submits or refreshes the current frame and returns its
	// frame number.
	DoFrame(w *Wrench) (uint32, error)
	// QueueFrames returns the number of frames the thing can still submit
	// without input.
	QueueFrames() uint32
}

// ImageThing shows one image file scaled to the window.
type ImageThing struct {
	path     string
	frame    uint32
	sent     bool
	dirty    bool
	viewport displaylist.Size
}

// NewImageThing returns a thing showing the image at path.
func NewImageThing(path string) *ImageThing {
	return &ImageThing{path: path}
}

// Invalidate marks the file as changed; the next DoFrame reloads it.
func (t *ImageThing) Invalidate() { t.dirty = true }

func (t *ImageThing) NextFrame()          {}
func (t *ImageThing) PrevFrame()          {}
func (t *ImageThing) QueueFrames() uint32 { return 0 }

// DoFrame submits a new display list when the image or the window changed,
// or when the harness rebuilds every frame. Otherwise it refreshes.
func (t *ImageThing) DoFrame(w *Wrench) (uint32, error) {
	rebuild := !t.sent || w.ShouldRebuildDisplayLists()
	if t.dirty {
		if _, _, err := w.ReloadImage(t.path); err != nil {
			return t.frame, err
		}
		t.dirty = false
		rebuild = true
	}
	viewport := w.WindowSizeF32()
	if viewport != t.viewport {
		rebuild = true
	}
	if !rebuild {
		return t.frame, w.Refresh()
	}

	key, _, err := w.AddOrGetImage(t.path)
	if err != nil {
		return t.frame, err
	}
	dl, err := displaylist.ImageScene(w.Root(), viewport, key)
	if err != nil {
		return t.frame, err
	}
	frame := t.frame
	if t.sent {
		frame++
	}
	if err := w.SendDisplayList(frame, &displaylist.White, dl); err != nil {
		return t.frame, err
	}
	t.frame, t.sent, t.viewport = frame, true, viewport
	return t.frame, nil
}

// ReplayThing plays back a directory of recorded frames. Recorded
// resources are registered again and the recorded keys are rewritten to
// the new ones.
type ReplayThing struct {
	dir   string
	paths []string
	index int
	dirty bool

	epoch uint32
	sent  bool

	images map[string]displaylist.ImageKey
	fonts  map[string]displaylist.FontKey
}

// NewReplayThing lists the frames recorded in dir.
func NewReplayThing(dir string) (*ReplayThing, error) {
	paths, err := recording.FramePaths(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, dir)
	}
	return &ReplayThing{
		dir:    dir,
		paths:  paths,
		images: make(map[string]displaylist.ImageKey),
		fonts:  make(map[string]displaylist.FontKey),
	}, nil
}

// Len returns the number of recorded frames.
func (t *ReplayThing) Len() int { return len(t.paths) }

// Index returns the position of the current frame.
func (t *ReplayThing) Index() int { return t.index }

func (t *ReplayThing) NextFrame() {
	if t.index+1 < len(t.paths) {
		t.index++
		t.dirty = true
	}
}

func (t *ReplayThing) PrevFrame() {
	if t.index > 0 {
		t.index--
		t.dirty = true
	}
}

func (t *ReplayThing) QueueFrames() uint32 {
	return uint32(len(t.paths) - 1 - t.index)
}

// DoFrame submits the current recorded frame under a fresh epoch, since
// stepping back would otherwise regress the recorded epochs.
func (t *ReplayThing) DoFrame(w *Wrench) (uint32, error) {
	if t.sent && !t.dirty && !w.ShouldRebuildDisplayLists() {
		return t.epoch, w.Refresh()
	}

	path := t.paths[t.index]
	fr, err := recording.ReadFrame(path)
	if err != nil {
		return t.epoch, err
	}
	items, err := t.remap(w, fr)
	if err != nil {
		return t.epoch, err
	}
	dl, err := displaylist.FromItems(w.Root(), fr.ContentSize, items)
	if err != nil {
		return t.epoch, fmt.Errorf("%s: %w", path, err)
	}
	bg := fr.Background
	if bg == nil {
		bg = &displaylist.White
	}
	epoch := t.epoch
	if t.sent {
		epoch++
	}
	if err := w.SendDisplayList(epoch, bg, dl); err != nil {
		return t.epoch, err
	}
	t.epoch, t.sent, t.dirty = epoch, true, false
	w.SetTitle(fmt.Sprintf("%s [%d/%d]", filepath.Base(path), t.index+1, len(t.paths)))
	return t.epoch, nil
}

// remap registers the frame's resources and rewrites the item keys. Items
// whose resource cannot be replayed are dropped.
func (t *ReplayThing) remap(w *Wrench, fr *recording.Frame) ([]displaylist.Item, error) {
	items := make([]displaylist.Item, 0, len(fr.Items))
	for _, it := range fr.Items {
		switch {
		case it.Image != nil:
			key, ok, err := t.image(w, fr, it.Image.Key)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			img := *it.Image
			img.Key = key
			it.Image = &img
		case it.Text != nil:
			key, ok, err := t.font(w, fr, it.Text.Font)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			txt := *it.Text
			txt.Font = key
			it.Text = &txt
		}
		items = append(items, it)
	}
	return items, nil
}

func (t *ReplayThing) image(w *Wrench, fr *recording.Frame, key displaylist.ImageKey) (displaylist.ImageKey, bool, error) {
	name := recording.ImageName(key)
	ref, ok := fr.Images[name]
	if !ok || ref.IsExternal {
		wrench.Logger().Warn("replay: image not recorded", "key", name)
		return displaylist.ImageKey{}, false, nil
	}
	// Each revision of an image has its own file.
	if k, ok := t.images[ref.Path]; ok {
		return k, true, nil
	}
	img, err := ref.Load(t.dir)
	if err != nil {
		return displaylist.ImageKey{}, false, err
	}
	desc, px := Pixels(img)
	k, err := w.API().AddImage(desc, api.RawData(px))
	if err != nil {
		return displaylist.ImageKey{}, false, err
	}
	t.images[ref.Path] = k
	return k, true, nil
}

func (t *ReplayThing) font(w *Wrench, fr *recording.Frame, key displaylist.FontKey) (displaylist.FontKey, bool, error) {
	name := recording.FontName(key)
	ref, ok := fr.Fonts[name]
	if !ok {
		wrench.Logger().Warn("replay: font not recorded", "key", name)
		return displaylist.FontKey{}, false, nil
	}

	var id string
	if ref.Native != nil {
		id = "native:" + ref.Native.String()
	} else {
		id = "file:" + ref.Path
	}
	if k, ok := t.fonts[id]; ok {
		return k, true, nil
	}

	var k displaylist.FontKey
	var err error
	if ref.Native != nil {
		k, err = w.FontKeyFromNativeHandle(*ref.Native)
	} else {
		var data []byte
		if data, err = ref.Load(t.dir); err == nil {
			k, err = w.FontKeyFromBytes(data)
		}
	}
	if err != nil {
		return displaylist.FontKey{}, false, err
	}
	t.fonts[id] = k
	return k, true, nil
}
