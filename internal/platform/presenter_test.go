// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package platform

import (
	"image"
	"image/color"
	"testing"
)

func TestNDC(t *testing.T) {
	tests := []struct {
		pt     image.Point
		wx, wy float32
	}{
		{image.Pt(0, 0), -1, 1},
		{image.Pt(100, 50), 1, -1},
		{image.Pt(50, 25), 0, 0},
	}
	for _, tt := range tests {
		x, y := ndc(tt.pt, 100, 50)
		if x != tt.wx || y != tt.wy {
			t.Errorf("ndc(%v) = (%g, %g), want (%g, %g)", tt.pt, x, y, tt.wx, tt.wy)
		}
	}
}

func TestToRGBA(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if toRGBA(rgba) != rgba {
		t.Error("toRGBA should not copy an RGBA image at the origin")
	}

	sub := image.NewNRGBA(image.Rect(3, 4, 5, 6))
	sub.SetNRGBA(3, 4, color.NRGBA{R: 255, A: 255})
	got := toRGBA(sub)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c.R != 255 || c.A != 255 {
		t.Errorf("pixel = %v, want red", c)
	}
}
