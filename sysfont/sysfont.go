// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sysfont looks up platform fonts.
//
// Font lookup differs per operating system, so it is modelled as a
// [Resolver] capability with one implementation per platform, chosen at
// build time by [System]. Platforms without a native lookup get an explicit
// unsupported resolver whose every call fails with ErrUnsupportedPlatform;
// the capability is never silently compiled out or substituted.
package sysfont

import (
	"errors"
	"fmt"

	"github.com/go-text/typesetting/font"
)

// Errors returned by resolvers.
var (
	ErrUnsupportedPlatform = errors.New("sysfont: native font lookup not supported on this platform")
	ErrFontNotFound        = errors.New("sysfont: font not found")
	ErrNonASCII            = errors.New("sysfont: non-ASCII text")
)

// Weight, Style and Stretch describe a face within a family.
type (
	Weight  = font.Weight
	Style   = font.Style
	Stretch = font.Stretch
)

const (
	WeightRegular = font.WeightNormal
	WeightBold    = font.WeightBold

	StyleNormal = font.StyleNormal
	StyleItalic = font.StyleItalic

	StretchNormal = font.StretchNormal
)

// NativeHandle identifies a platform font by description.
type NativeHandle struct {
	Family  string  `json:"family" yaml:"family" toml:"family"`
	Weight  Weight  `json:"weight" yaml:"weight" toml:"weight"`
	Style   Style   `json:"style" yaml:"style" toml:"style"`
	Stretch Stretch `json:"stretch" yaml:"stretch" toml:"stretch"`
}

// Regular returns the regular face handle of family.
func Regular(family string) NativeHandle {
	return NativeHandle{Family: family, Weight: WeightRegular, Style: StyleNormal, Stretch: StretchNormal}
}

func (h NativeHandle) String() string {
	return fmt.Sprintf("%s (weight %g, style %d, stretch %g)", h.Family, float32(h.Weight), h.Style, float32(h.Stretch))
}

// Resolver is the platform font lookup capability.
type Resolver interface {
	// FontFromName returns the file bytes of the regular face of family,
	// and the handle describing the face found.
	FontFromName(family string) ([]byte, NativeHandle, error)
	// FontFromHandle returns the file bytes of the face closest to h.
	FontFromHandle(h NativeHandle) ([]byte, error)
}

// unsupported is the resolver of platforms without native font lookup.
type unsupported struct {
	goos string
}

// Unsupported returns a resolver that refuses every lookup.
func Unsupported(goos string) Resolver {
	return unsupported{goos: goos}
}

func (u unsupported) FontFromName(family string) ([]byte, NativeHandle, error) {
	return nil, NativeHandle{}, fmt.Errorf("%w: %s (font %q)", ErrUnsupportedPlatform, u.goos, family)
}

func (u unsupported) FontFromHandle(h NativeHandle) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s (font %s)", ErrUnsupportedPlatform, u.goos, h)
}
