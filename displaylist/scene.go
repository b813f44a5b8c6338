// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package displaylist

// ImageScene builds the display list of an image viewer: one stacking
// context spanning the viewport containing the given images side by side,
// each with an equal share of the width and the full height.
//
// The result depends only on the arguments.
func ImageScene(pipeline PipelineID, viewport Size, keys ...ImageKey) (*DisplayList, error) {
	if len(keys) == 0 {
		return nil, ErrNoImages
	}
	if viewport.IsEmpty() {
		return nil, ErrEmptyViewport
	}

	b := NewBuilder(pipeline, viewport)
	bounds := Rect{Size: viewport}
	b.PushStackingContext(NewStackingContext(bounds))

	w := viewport.Width / float32(len(keys))
	for i, key := range keys {
		r := R(float32(i)*w, 0, w, viewport.Height)
		clip := b.NewClipRegion(r, nil)
		b.PushImage(r, clip, r.Size, Size{}, RenderingAuto, key)
	}

	b.PopStackingContext()
	return b.Finalize()
}
