// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package displaylist

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ItemKind identifies the kind of a display item.
type ItemKind uint8

const (
	KindRect ItemKind = iota
	KindImage
	KindText
	KindPushStackingContext
	KindPopStackingContext
)

var kindNames = [...]string{
	KindRect:                "rect",
	KindImage:               "image",
	KindText:                "text",
	KindPushStackingContext: "push_stacking_context",
	KindPopStackingContext:  "pop_stacking_context",
}

func (k ItemKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ItemKind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k ItemKind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("displaylist: invalid item kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ItemKind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = ItemKind(i)
			return nil
		}
	}
	return fmt.Errorf("displaylist: unknown item kind %q", b)
}

// ImageRendering selects the sampling filter for an image item.
type ImageRendering uint8

const (
	RenderingAuto ImageRendering = iota
	RenderingCrispEdges
	RenderingPixelated
)

// ScrollPolicy controls whether a stacking context follows scroll offsets.
type ScrollPolicy uint8

const (
	Scrollable ScrollPolicy = iota
	Fixed
)

// MixBlendMode is the blend mode of a stacking context.
type MixBlendMode uint8

const (
	BlendNormal MixBlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
)

// StackingContext groups the items pushed between PushStackingContext and
// the matching PopStackingContext.
type StackingContext struct {
	ScrollPolicy ScrollPolicy `json:"scroll_policy" yaml:"scroll_policy" toml:"scroll_policy"`
	Bounds       Rect         `json:"bounds" yaml:"bounds" toml:"bounds"`
	ZIndex       int32        `json:"z_index" yaml:"z_index" toml:"z_index"`
	Transform    mgl32.Mat4   `json:"transform" yaml:"transform" toml:"transform"`
	Perspective  mgl32.Mat4   `json:"perspective" yaml:"perspective" toml:"perspective"`
	BlendMode    MixBlendMode `json:"blend_mode" yaml:"blend_mode" toml:"blend_mode"`
	Opacity      float32      `json:"opacity" yaml:"opacity" toml:"opacity"`
}

// NewStackingContext returns a scrollable context with identity transforms,
// normal blending and full opacity.
func NewStackingContext(bounds Rect) StackingContext {
	return StackingContext{
		ScrollPolicy: Scrollable,
		Bounds:       bounds,
		Transform:    mgl32.Ident4(),
		Perspective:  mgl32.Ident4(),
		BlendMode:    BlendNormal,
		Opacity:      1,
	}
}

// IsIsolated reports whether the context needs an offscreen layer.
func (sc *StackingContext) IsIsolated() bool {
	return sc.BlendMode != BlendNormal || sc.Opacity < 1
}

// ImageItem references a registered image.
type ImageItem struct {
	Key       ImageKey       `json:"key" yaml:"key" toml:"key"`
	Stretch   Size           `json:"stretch" yaml:"stretch" toml:"stretch"`
	Spacing   Size           `json:"spacing" yaml:"spacing" toml:"spacing"`
	Rendering ImageRendering `json:"rendering" yaml:"rendering" toml:"rendering"`
}

// TextItem is a run of text in a registered font.
type TextItem struct {
	Text   string  `json:"text" yaml:"text" toml:"text"`
	Font   FontKey `json:"font" yaml:"font" toml:"font"`
	Size   float32 `json:"size" yaml:"size" toml:"size"`
	Origin Point   `json:"origin" yaml:"origin" toml:"origin"`
}

// Item is a single display item. Exactly one of Image, Text and Context is
// set for the kinds that carry a payload.
type Item struct {
	Kind    ItemKind         `json:"kind" yaml:"kind" toml:"kind"`
	Bounds  Rect             `json:"bounds" yaml:"bounds" toml:"bounds"`
	Clip    ClipRegion       `json:"clip" yaml:"clip" toml:"clip"`
	Color   ColorF           `json:"color" yaml:"color" toml:"color"`
	Image   *ImageItem       `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty"`
	Text    *TextItem        `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Context *StackingContext `json:"context,omitempty" yaml:"context,omitempty" toml:"context,omitempty"`
}

// clone returns a deep copy of it.
func (it Item) clone() Item {
	it.Clip = it.Clip.clone()
	if it.Image != nil {
		img := *it.Image
		it.Image = &img
	}
	if it.Text != nil {
		txt := *it.Text
		it.Text = &txt
	}
	if it.Context != nil {
		sc := *it.Context
		it.Context = &sc
	}
	return it
}
