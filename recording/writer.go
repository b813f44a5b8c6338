// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"errors"
	"fmt"
	"image/png"
	"maps"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
)

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("recording: closed")

// resDir holds recorded image and font files.
const resDir = "res"

// FrameWriter is the Receiver that writes frame files.
type FrameWriter struct {
	dir     string
	format  string
	codec   Codec
	session string

	mu      sync.Mutex
	number  int
	root    displaylist.PipelineID
	hasRoot bool
	images  map[string]ImageRef
	fonts   map[string]FontRef
	// revs numbers image files so that updates do not overwrite pixels
	// referenced by earlier frames.
	revs   map[string]int
	closed bool
}

var _ Receiver = (*FrameWriter)(nil)

// NewReceiver creates a frame writer for format that writes into dir,
// creating it if needed.
func NewReceiver(format, dir string) (*FrameWriter, error) {
	codec, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(dir, resDir), 0o755); err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	w := &FrameWriter{
		dir:     dir,
		format:  format,
		codec:   codec,
		session: uuid.NewString(),
		images:  make(map[string]ImageRef),
		fonts:   make(map[string]FontRef),
		revs:    make(map[string]int),
	}
	wrench.Logger().Info("recording frames", "dir", dir, "format", format, "session", w.session)
	return w, nil
}

// Session returns the ID stamped into every frame of this writer.
func (w *FrameWriter) Session() string { return w.session }

// Frames returns the number of frame files written.
func (w *FrameWriter) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.number
}

// Record updates the recorded resource state and writes a frame file for
// each display list of the root pipeline.
func (w *FrameWriter) Record(msg api.Msg) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	switch m := msg.(type) {
	case api.SetRootPipelineMsg:
		w.root, w.hasRoot = m.Pipeline, true
	case api.SetDisplayListMsg:
		if w.hasRoot && m.List.Pipeline() == w.root {
			return w.writeFrame(m)
		}
	case api.AddImageMsg:
		if id, ok := m.Data.External(); ok {
			w.images[ImageName(m.Key)] = ImageRef{
				Key:        m.Key,
				Width:      m.Descriptor.Width,
				Height:     m.Descriptor.Height,
				Opaque:     m.Descriptor.IsOpaque,
				External:   uint64(id),
				IsExternal: true,
			}
			return nil
		}
		raw, _ := m.Data.Raw()
		return w.writeImage(m.Key, m.Descriptor, raw)
	case api.UpdateImageMsg:
		return w.writeImage(m.Key, m.Descriptor, m.Data)
	case api.DeleteImageMsg:
		delete(w.images, ImageName(m.Key))
	case api.AddRawFontMsg:
		name := FontName(m.Key)
		rel := path.Join(resDir, fmt.Sprintf("font-%d-%d.ttf", m.Key.Namespace, m.Key.Key))
		if err := os.WriteFile(filepath.Join(w.dir, filepath.FromSlash(rel)), m.Data, 0o644); err != nil {
			return fmt.Errorf("recording: %w", err)
		}
		w.fonts[name] = FontRef{Key: m.Key, Path: rel}
	case api.AddNativeFontMsg:
		h := m.Handle
		w.fonts[FontName(m.Key)] = FontRef{Key: m.Key, Native: &h}
	case api.DeleteFontMsg:
		delete(w.fonts, FontName(m.Key))
	}
	return nil
}

func (w *FrameWriter) writeImage(key displaylist.ImageKey, desc api.ImageDescriptor, raw []byte) error {
	img, err := api.DecodePixels(desc, raw)
	if err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	name := ImageName(key)
	w.revs[name]++
	rel := path.Join(resDir, fmt.Sprintf("image-%d-%d-%d.png", key.Namespace, key.Key, w.revs[name]))

	f, err := os.Create(filepath.Join(w.dir, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("recording: %s: %w", rel, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	w.images[name] = ImageRef{
		Key:    key,
		Width:  desc.Width,
		Height: desc.Height,
		Opaque: desc.IsOpaque,
		Path:   rel,
	}
	return nil
}

func (w *FrameWriter) writeFrame(m api.SetDisplayListMsg) error {
	w.number++
	fr := &Frame{
		Session:     w.session,
		Number:      w.number,
		Epoch:       m.Epoch,
		Pipeline:    m.List.Pipeline(),
		Background:  m.Background,
		Viewport:    m.Viewport,
		ContentSize: m.List.ContentSize(),
		Images:      maps.Clone(w.images),
		Fonts:       maps.Clone(w.fonts),
		Items:       m.List.Items(),
	}

	name := filepath.Join(w.dir, fmt.Sprintf("frame-%05d.%s", w.number, w.codec.Ext()))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	if err := w.codec.Encode(f, fr); err != nil {
		f.Close()
		return fmt.Errorf("recording: %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("recording: %w", err)
	}
	wrench.Logger().Debug("recorded frame", "file", name, "epoch", m.Epoch)
	return nil
}

// Close stops recording. Files already written are kept.
func (w *FrameWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}
