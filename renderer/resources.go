// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/extimage"
)

// imageResource is an immutable image as seen by built frames. Updating an
// image replaces the resource, so frames that are still on screen keep
// drawing the pixels they were built with.
type imageResource struct {
	key  displaylist.ImageKey
	desc api.ImageDescriptor

	// buf is set for raw images.
	buf *gg.ImageBuf

	// external is set for external images. released flips when the image
	// is deleted; frames built before the delete stop sampling it.
	external   extimage.ID
	isExternal bool
	released   *atomic.Bool
}

// fontResource is a parsed font shared by all frames that reference it.
type fontResource struct {
	key    displaylist.FontKey
	source *text.FontSource
}

// resources is the backend's resource cache. Only the backend goroutine
// touches it.
type resources struct {
	images map[displaylist.ImageKey]*imageResource
	fonts  map[displaylist.FontKey]*fontResource
}

func newResources() *resources {
	return &resources{
		images: make(map[displaylist.ImageKey]*imageResource),
		fonts:  make(map[displaylist.FontKey]*fontResource),
	}
}

// addImage builds the resource for key from desc and data.
func (rs *resources) addImage(key displaylist.ImageKey, desc api.ImageDescriptor, data api.ImageData) error {
	if id, ok := data.External(); ok {
		rs.images[key] = &imageResource{
			key:        key,
			desc:       desc,
			external:   id,
			isExternal: true,
			released:   new(atomic.Bool),
		}
		return nil
	}
	raw, _ := data.Raw()
	return rs.updateImage(key, desc, raw)
}

// updateImage decodes raw pixels and replaces the resource for key.
func (rs *resources) updateImage(key displaylist.ImageKey, desc api.ImageDescriptor, raw []byte) error {
	img, err := api.DecodePixels(desc, raw)
	if err != nil {
		return err
	}
	rs.images[key] = &imageResource{
		key:  key,
		desc: desc,
		buf:  gg.ImageBufFromImage(img),
	}
	return nil
}

// deleteImage drops key and returns the removed resource.
func (rs *resources) deleteImage(key displaylist.ImageKey) (*imageResource, bool) {
	res, ok := rs.images[key]
	if ok {
		delete(rs.images, key)
	}
	return res, ok
}

func (rs *resources) addFont(key displaylist.FontKey, data []byte) error {
	src, err := text.NewFontSource(data)
	if err != nil {
		return fmt.Errorf("font %v: %w", key, err)
	}
	rs.fonts[key] = &fontResource{key: key, source: src}
	return nil
}

func (rs *resources) deleteFont(key displaylist.FontKey) {
	delete(rs.fonts, key)
}

// externals returns the IDs of all live external images.
func (rs *resources) externals() []extimage.ID {
	var ids []extimage.ID
	for _, res := range rs.images {
		if res.isExternal {
			ids = append(ids, res.external)
		}
	}
	return ids
}

// close releases every font. Frames must no longer be drawn.
func (rs *resources) close() {
	for k, f := range rs.fonts {
		_ = f.source.Close()
		delete(rs.fonts, k)
	}
}
