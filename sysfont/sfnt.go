// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sysfont

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FamilyMatches reports whether the font in data belongs to family.
// Both the legacy and the typographic family names are checked.
func FamilyMatches(data []byte, family string) bool {
	f, err := sfnt.Parse(data)
	if err != nil {
		return false
	}
	want := foldFamily(family)
	var buf sfnt.Buffer
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDTypographicFamily} {
		name, err := f.Name(&buf, id)
		if err == nil && foldFamily(name) == want {
			return true
		}
	}
	return false
}

// LayoutSimpleASCII maps text to glyph indices and advances (in pixels at
// size) without shaping. Only ASCII text is accepted.
func LayoutSimpleASCII(data []byte, text string, size float32) ([]uint16, []float32, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("sysfont: parse font: %w", err)
	}
	ppem := fixed.Int26_6(size * 64)
	var buf sfnt.Buffer
	glyphs := make([]uint16, 0, len(text))
	advances := make([]float32, 0, len(text))
	for i, r := range text {
		if r > 0x7f {
			return nil, nil, fmt.Errorf("%w: %q at byte %d", ErrNonASCII, r, i)
		}
		gi, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return nil, nil, fmt.Errorf("sysfont: glyph for %q: %w", r, err)
		}
		adv, err := f.GlyphAdvance(&buf, gi, ppem, xfont.HintingNone)
		if err != nil {
			return nil, nil, fmt.Errorf("sysfont: advance for %q: %w", r, err)
		}
		glyphs = append(glyphs, uint16(gi))
		advances = append(advances, float32(adv)/64)
	}
	return glyphs, advances, nil
}

// TextWidth returns the sum of the advances of text.
func TextWidth(data []byte, text string, size float32) (float32, error) {
	_, adv, err := LayoutSimpleASCII(data, text, size)
	if err != nil {
		return 0, err
	}
	var w float32
	for _, a := range adv {
		w += a
	}
	return w, nil
}

// aspectFromSubfamily derives a face description from its subfamily name
// ("Regular", "Bold Italic", "Light", ...).
func aspectFromSubfamily(sub string) font.Aspect {
	a := font.Aspect{Style: StyleNormal, Weight: WeightRegular, Stretch: StretchNormal}
	s := strings.ToLower(sub)
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		a.Style = StyleItalic
	}
	switch {
	case strings.Contains(s, "extrabold") || strings.Contains(s, "extra bold") || strings.Contains(s, "black"):
		a.Weight = font.WeightBlack
	case strings.Contains(s, "semibold") || strings.Contains(s, "semi bold"):
		a.Weight = font.WeightSemibold
	case strings.Contains(s, "bold"):
		a.Weight = WeightBold
	case strings.Contains(s, "medium"):
		a.Weight = font.WeightMedium
	case strings.Contains(s, "light"):
		a.Weight = font.WeightLight
	case strings.Contains(s, "thin"):
		a.Weight = font.WeightThin
	}
	switch {
	case strings.Contains(s, "condensed"):
		a.Stretch = font.StretchCondensed
	case strings.Contains(s, "expanded"):
		a.Stretch = font.StretchExpanded
	}
	return a
}

// scanDir indexes every TrueType/OpenType file under dir using the fonts'
// name tables. Unreadable files are skipped.
func scanDir(dir string) (*catalog, error) {
	c := &catalog{}
	var buf sfnt.Buffer
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil
		}
		family, err := f.Name(&buf, sfnt.NameIDFamily)
		if err != nil {
			return nil
		}
		sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
		c.add(family, aspectFromSubfamily(sub), path, 0)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sysfont: scan %s: %w", dir, err)
	}
	return c, nil
}
