// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package displaylist

import (
	"errors"
	"fmt"
)

// Errors returned by Builder.Finalize and ImageScene.
var (
	ErrUnbalancedStackingContext = errors.New("displaylist: unbalanced stacking context")
	ErrNoImages                  = errors.New("displaylist: no images")
	ErrEmptyViewport             = errors.New("displaylist: empty viewport")
	ErrMissingPayload            = errors.New("displaylist: item without payload")
)

// DisplayList is an immutable description of one frame for one pipeline.
// It is safe to share between goroutines.
type DisplayList struct {
	pipeline    PipelineID
	contentSize Size
	items       []Item
}

// Pipeline returns the pipeline the list was built for.
func (dl *DisplayList) Pipeline() PipelineID { return dl.pipeline }

// ContentSize returns the layout size of the list's content.
func (dl *DisplayList) ContentSize() Size { return dl.contentSize }

// Len returns the number of items.
func (dl *DisplayList) Len() int { return len(dl.items) }

// Item returns a copy of the i-th item.
func (dl *DisplayList) Item(i int) Item { return dl.items[i].clone() }

// Items returns a copy of all items.
func (dl *DisplayList) Items() []Item {
	out := make([]Item, len(dl.items))
	for i := range dl.items {
		out[i] = dl.items[i].clone()
	}
	return out
}

// Each calls fn for every item in order until fn returns false.
// The item passed to fn is a copy.
func (dl *DisplayList) Each(fn func(Item) bool) {
	for i := range dl.items {
		if !fn(dl.items[i].clone()) {
			return
		}
	}
}

// ImageKeys returns the distinct image keys referenced by the list, in
// first-use order.
func (dl *DisplayList) ImageKeys() []ImageKey {
	var keys []ImageKey
	seen := make(map[ImageKey]bool)
	for i := range dl.items {
		if img := dl.items[i].Image; img != nil && !seen[img.Key] {
			seen[img.Key] = true
			keys = append(keys, img.Key)
		}
	}
	return keys
}

// FromItems rebuilds a display list from decoded items, validating that the
// stacking contexts balance and that image and text items carry their
// payload. It is used when replaying recorded frames.
func FromItems(pipeline PipelineID, contentSize Size, items []Item) (*DisplayList, error) {
	b := NewBuilder(pipeline, contentSize)
	for i, it := range items {
		switch it.Kind {
		case KindPushStackingContext:
			if it.Context == nil {
				return nil, fmt.Errorf("%w: %s at item %d", ErrMissingPayload, it.Kind, i)
			}
			b.PushStackingContext(*it.Context)
		case KindImage:
			if it.Image == nil {
				return nil, fmt.Errorf("%w: %s at item %d", ErrMissingPayload, it.Kind, i)
			}
			b.push(it.clone())
		case KindText:
			if it.Text == nil {
				return nil, fmt.Errorf("%w: %s at item %d", ErrMissingPayload, it.Kind, i)
			}
			b.push(it.clone())
		case KindPopStackingContext:
			b.PopStackingContext()
		default:
			b.push(it.clone())
		}
	}
	return b.Finalize()
}

// Builder accumulates display items for one pipeline.
// A Builder is not safe for concurrent use.
type Builder struct {
	pipeline    PipelineID
	contentSize Size
	items       []Item
	depth       int
	err         error
}

// NewBuilder creates a builder for pipeline with the given content size.
func NewBuilder(pipeline PipelineID, contentSize Size) *Builder {
	return &Builder{pipeline: pipeline, contentSize: contentSize}
}

// NewClipRegion returns a clip region. The complex clips are copied.
func (b *Builder) NewClipRegion(main Rect, complex []ComplexClip) ClipRegion {
	return ClipRegion{Main: main, Complex: complex}.clone()
}

// PushStackingContext opens a stacking context.
func (b *Builder) PushStackingContext(sc StackingContext) {
	b.items = append(b.items, Item{
		Kind:    KindPushStackingContext,
		Bounds:  sc.Bounds,
		Clip:    ClipRegion{Main: sc.Bounds},
		Context: &sc,
	})
	b.depth++
}

// PopStackingContext closes the innermost stacking context.
func (b *Builder) PopStackingContext() {
	if b.depth == 0 {
		if b.err == nil {
			b.err = fmt.Errorf("%w: pop without push at item %d", ErrUnbalancedStackingContext, len(b.items))
		}
		return
	}
	b.items = append(b.items, Item{Kind: KindPopStackingContext})
	b.depth--
}

// PushRect adds a solid color rectangle.
func (b *Builder) PushRect(bounds Rect, clip ClipRegion, color ColorF) {
	b.push(Item{Kind: KindRect, Bounds: bounds, Clip: clip.clone(), Color: color})
}

// PushImage adds an image. The image is drawn at stretch size and repeated
// every stretch+spacing until bounds are filled.
func (b *Builder) PushImage(bounds Rect, clip ClipRegion, stretch, spacing Size, rendering ImageRendering, key ImageKey) {
	b.push(Item{
		Kind:   KindImage,
		Bounds: bounds,
		Clip:   clip.clone(),
		Color:  White,
		Image:  &ImageItem{Key: key, Stretch: stretch, Spacing: spacing, Rendering: rendering},
	})
}

// PushText adds a run of text drawn with its baseline at origin.
func (b *Builder) PushText(bounds Rect, clip ClipRegion, origin Point, text string, font FontKey, size float32, color ColorF) {
	b.push(Item{
		Kind:   KindText,
		Bounds: bounds,
		Clip:   clip.clone(),
		Color:  color,
		Text:   &TextItem{Text: text, Font: font, Size: size, Origin: origin},
	})
}

func (b *Builder) push(it Item) {
	b.items = append(b.items, it)
}

// Finalize returns the immutable display list and resets the builder.
func (b *Builder) Finalize() (*DisplayList, error) {
	err := b.err
	if err == nil && b.depth != 0 {
		err = fmt.Errorf("%w: %d unclosed", ErrUnbalancedStackingContext, b.depth)
	}
	items := b.items
	b.items, b.depth, b.err = nil, 0, nil
	if err != nil {
		return nil, err
	}
	return &DisplayList{pipeline: b.pipeline, contentSize: b.contentSize, items: items}, nil
}
