// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sysfont

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-text/typesetting/font"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// face is one installed font face.
type face struct {
	family string // folded
	handle NativeHandle
	path   string
	index  int
}

// catalog is an in-memory index of installed faces shared by the platform
// resolvers.
type catalog struct {
	faces []face
}

func (c *catalog) add(family string, aspect font.Aspect, path string, index int) {
	c.faces = append(c.faces, face{
		family: foldFamily(family),
		handle: NativeHandle{Family: family, Weight: aspect.Weight, Style: aspect.Style, Stretch: aspect.Stretch},
		path:   path,
		index:  index,
	})
}

// best returns the face of h.Family closest to h.
func (c *catalog) best(h NativeHandle) (face, bool) {
	want := foldFamily(h.Family)
	found := false
	var best face
	bestScore := math.Inf(1)
	for _, f := range c.faces {
		if f.family != want {
			continue
		}
		// Faces inside collections rank behind standalone files.
		s := distance(f.handle, h) + 0.5*float64(f.index)
		if s < bestScore {
			best, bestScore, found = f, s, true
		}
	}
	return best, found
}

// distance orders faces the way font matchers do: style mismatches dominate,
// then stretch, then weight.
func distance(have, want NativeHandle) float64 {
	d := 0.0
	if normStyle(have.Style) != normStyle(want.Style) {
		d += 10000
	}
	d += 1000 * math.Abs(float64(normStretch(have.Stretch)-normStretch(want.Stretch)))
	d += math.Abs(float64(normWeight(have.Weight) - normWeight(want.Weight)))
	return d
}

func normStyle(s Style) Style {
	if s == 0 {
		return StyleNormal
	}
	return s
}

func normWeight(w Weight) Weight {
	if w == 0 {
		return WeightRegular
	}
	return w
}

func normStretch(s Stretch) Stretch {
	if s == 0 {
		return StretchNormal
	}
	return s
}

func (c *catalog) fontFromName(family string) ([]byte, NativeHandle, error) {
	f, ok := c.best(Regular(family))
	if !ok {
		return nil, NativeHandle{}, fmt.Errorf("%w: %q", ErrFontNotFound, family)
	}
	data, err := readFace(f)
	if err != nil {
		return nil, NativeHandle{}, err
	}
	h := f.handle
	h.Family = family
	return data, h, nil
}

func (c *catalog) fontFromHandle(h NativeHandle) ([]byte, error) {
	f, ok := c.best(h)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, h)
	}
	return readFace(f)
}

func readFace(f face) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("sysfont: read %s: %w", f.path, err)
	}
	return data, nil
}

// foldFamily normalizes a family name for comparison: compatibility
// normalization, case folding, whitespace removed. The result agrees with
// fontscan's normalized family names for ASCII input.
// A Caser is stateful, so each call gets its own.
func foldFamily(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(cases.Fold().String(s)), "")
}
