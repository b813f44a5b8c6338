// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sysfont

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestUnsupported(t *testing.T) {
	r := Unsupported("plan9")
	if _, _, err := r.FontFromName("Arial"); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("FontFromName() error = %v, want ErrUnsupportedPlatform", err)
	}
	if _, err := r.FontFromHandle(Regular("Arial")); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("FontFromHandle() error = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestSystemNotNil(t *testing.T) {
	if System() == nil {
		t.Fatal("System() returned nil")
	}
}

func TestFoldFamily(t *testing.T) {
	tests := []struct{ in, want string }{
		{"DejaVu Sans", "dejavusans"},
		{"  Go   Regular ", "goregular"},
		{"STRASSE", "strasse"},
		{"ＡＢＣ", "abc"}, // fullwidth letters fold through NFKC
	}
	for _, tt := range tests {
		if got := foldFamily(tt.in); got != tt.want {
			t.Errorf("foldFamily(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if foldFamily("DejaVu Sans") != font.NormalizeFamily("DejaVu Sans") {
		t.Error("foldFamily disagrees with fontscan normalization for ASCII names")
	}
}

func TestFamilyMatches(t *testing.T) {
	if !FamilyMatches(goregular.TTF, "Go") {
		t.Error("FamilyMatches(goregular, Go) = false, want true")
	}
	if !FamilyMatches(goregular.TTF, " go ") {
		t.Error("FamilyMatches should ignore case and surrounding space")
	}
	if FamilyMatches(goregular.TTF, "Arial") {
		t.Error("FamilyMatches(goregular, Arial) = true, want false")
	}
	if FamilyMatches([]byte("not a font"), "Go") {
		t.Error("FamilyMatches(garbage) = true, want false")
	}
}

func TestLayoutSimpleASCII(t *testing.T) {
	glyphs, advances, err := LayoutSimpleASCII(goregular.TTF, "Hi H", 16)
	if err != nil {
		t.Fatalf("LayoutSimpleASCII() error = %v", err)
	}
	if len(glyphs) != 4 || len(advances) != 4 {
		t.Fatalf("got %d glyphs, %d advances; want 4, 4", len(glyphs), len(advances))
	}
	if glyphs[0] != glyphs[3] {
		t.Errorf("same rune mapped to glyphs %d and %d", glyphs[0], glyphs[3])
	}
	if glyphs[0] == 0 {
		t.Error("'H' mapped to .notdef")
	}
	for i, a := range advances {
		if a <= 0 {
			t.Errorf("advance[%d] = %v, want > 0", i, a)
		}
	}

	// Advances scale with size.
	_, big, err := LayoutSimpleASCII(goregular.TTF, "H", 32)
	if err != nil {
		t.Fatal(err)
	}
	if big[0] <= advances[0] {
		t.Errorf("advance at 32px (%v) not larger than at 16px (%v)", big[0], advances[0])
	}

	if _, _, err := LayoutSimpleASCII(goregular.TTF, "héllo", 16); !errors.Is(err, ErrNonASCII) {
		t.Errorf("non-ASCII error = %v, want ErrNonASCII", err)
	}
}

func TestTextWidth(t *testing.T) {
	one, err := TextWidth(goregular.TTF, "x", 12)
	if err != nil {
		t.Fatal(err)
	}
	three, err := TextWidth(goregular.TTF, "xxx", 12)
	if err != nil {
		t.Fatal(err)
	}
	if diff := three - 3*one; diff > 0.01 || diff < -0.01 {
		t.Errorf("TextWidth(xxx) = %v, want %v", three, 3*one)
	}
}

func TestAspectFromSubfamily(t *testing.T) {
	tests := []struct {
		sub    string
		weight Weight
		style  Style
	}{
		{"Regular", WeightRegular, StyleNormal},
		{"Bold", WeightBold, StyleNormal},
		{"Bold Italic", WeightBold, StyleItalic},
		{"Light Oblique", font.WeightLight, StyleItalic},
		{"SemiBold", font.WeightSemibold, StyleNormal},
	}
	for _, tt := range tests {
		a := aspectFromSubfamily(tt.sub)
		if a.Weight != tt.weight || a.Style != tt.style {
			t.Errorf("aspectFromSubfamily(%q) = %+v, want weight %v style %v", tt.sub, a, tt.weight, tt.style)
		}
	}
}

func writeFonts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "go")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "Go-Bold.TTF"), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.ttf"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestScanDirCatalog(t *testing.T) {
	c, err := scanDir(writeFonts(t))
	if err != nil {
		t.Fatalf("scanDir() error = %v", err)
	}
	if len(c.faces) != 2 {
		t.Fatalf("indexed %d faces, want 2", len(c.faces))
	}

	data, h, err := c.fontFromName("go")
	if err != nil {
		t.Fatalf("fontFromName() error = %v", err)
	}
	if h.Weight != WeightRegular || h.Family != "go" {
		t.Errorf("fontFromName() handle = %v, want regular weight", h)
	}
	if len(data) != len(goregular.TTF) {
		t.Errorf("fontFromName() returned %d bytes, want goregular (%d)", len(data), len(goregular.TTF))
	}

	bold, err := c.fontFromHandle(NativeHandle{Family: "Go", Weight: WeightBold, Style: StyleNormal})
	if err != nil {
		t.Fatalf("fontFromHandle(bold) error = %v", err)
	}
	if len(bold) != len(gobold.TTF) {
		t.Errorf("fontFromHandle(bold) returned %d bytes, want gobold (%d)", len(bold), len(gobold.TTF))
	}

	if _, _, err := c.fontFromName("Comic Sans"); !errors.Is(err, ErrFontNotFound) {
		t.Errorf("fontFromName(missing) error = %v, want ErrFontNotFound", err)
	}
}

func TestCatalogPrefersStandaloneFaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	c := &catalog{}
	regular := font.Aspect{Style: StyleNormal, Weight: WeightRegular, Stretch: StretchNormal}
	c.add("Go", regular, "/nonexistent/collection.ttc", 2)
	c.add("Go", regular, path, 0)
	f, ok := c.best(Regular("Go"))
	if !ok || f.path != path {
		t.Errorf("best() = %+v, want standalone face %s", f, path)
	}
}

func TestScanDirMissing(t *testing.T) {
	if _, err := scanDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("scanDir(missing) should fail")
	}
}
