// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package harness

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"

	"github.com/gogpu/gputypes"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/gogpu/wrench/api"
)

// DecodeFile decodes the image at path in any registered format.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Pixels converts img to raw image data the renderer accepts. Gray images
// stay single channel; everything else, RGB included, becomes RGBA8.
func Pixels(img image.Image) (api.ImageDescriptor, []byte) {
	b := img.Bounds()
	desc := api.ImageDescriptor{Width: b.Dx(), Height: b.Dy()}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		desc.IsOpaque = o.Opaque()
	}

	if g, ok := img.(*image.Gray); ok {
		desc.Format = gputypes.TextureFormatR8Unorm
		px := make([]byte, desc.Width*desc.Height)
		for y := 0; y < desc.Height; y++ {
			off := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(px[y*desc.Width:(y+1)*desc.Width], g.Pix[off:off+desc.Width])
		}
		return desc, px
	}

	desc.Format = gputypes.TextureFormatRGBA8Unorm
	dst := image.NewNRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return desc, dst.Pix
}
