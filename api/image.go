// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package api

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/wrench/extimage"
)

// ImageDescriptor describes the layout of image pixels.
type ImageDescriptor struct {
	Width  int
	Height int
	// Stride is the length of a row in bytes. Zero means tightly packed.
	Stride int
	Format gputypes.TextureFormat
	// IsOpaque lets the compositor skip blending.
	IsOpaque bool
}

// BytesPerPixel returns the pixel size of the descriptor's format, or 0 if
// the format is not supported for raw images.
func (d ImageDescriptor) BytesPerPixel() int {
	switch d.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	case gputypes.TextureFormatR8Unorm:
		return 1
	default:
		return 0
	}
}

// RowBytes returns the effective stride.
func (d ImageDescriptor) RowBytes() int {
	if d.Stride > 0 {
		return d.Stride
	}
	return d.Width * d.BytesPerPixel()
}

// validate checks the descriptor against n bytes of pixel data.
func (d ImageDescriptor) validate(n int) error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidImage, d.Width, d.Height)
	}
	bpp := d.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("%w: unsupported format %v", ErrInvalidImage, d.Format)
	}
	if d.Stride != 0 && d.Stride < d.Width*bpp {
		return fmt.Errorf("%w: stride %d < row size %d", ErrInvalidImage, d.Stride, d.Width*bpp)
	}
	need := d.RowBytes()*(d.Height-1) + d.Width*bpp
	if n < need {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidImage, n, need)
	}
	return nil
}

// ImageData is the content of an image: raw pixel bytes owned by the
// renderer, or a reference to an external image resolved at render time.
type ImageData struct {
	raw      []byte
	external *extimage.ID
}

// RawData returns image data holding a copy of b.
func RawData(b []byte) ImageData {
	return ImageData{raw: append([]byte(nil), b...)}
}

// ExternalData returns image data that refers to external image id.
func ExternalData(id extimage.ID) ImageData {
	return ImageData{external: &id}
}

// Raw returns the pixel bytes of raw data.
func (d ImageData) Raw() ([]byte, bool) { return d.raw, d.external == nil }

// External returns the external image ID of external data.
func (d ImageData) External() (extimage.ID, bool) {
	if d.external == nil {
		return 0, false
	}
	return *d.external, true
}

// DecodePixels converts raw pixels described by desc into an image.
// RGBA and BGRA data is straight alpha; R8 is a gray mask.
func DecodePixels(desc ImageDescriptor, raw []byte) (image.Image, error) {
	if err := desc.validate(len(raw)); err != nil {
		return nil, err
	}
	stride := desc.RowBytes()

	rect := image.Rect(0, 0, desc.Width, desc.Height)
	switch desc.Format {
	case gputypes.TextureFormatR8Unorm:
		img := image.NewGray(rect)
		for y := 0; y < desc.Height; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+desc.Width], raw[y*stride:])
		}
		return img, nil
	default:
		img := image.NewNRGBA(rect)
		bgra := desc.Format == gputypes.TextureFormatBGRA8Unorm
		for y := 0; y < desc.Height; y++ {
			src := raw[y*stride : y*stride+desc.Width*4]
			dst := img.Pix[y*img.Stride : y*img.Stride+desc.Width*4]
			copy(dst, src)
			for x := 0; x < len(dst); x += 4 {
				if bgra {
					dst[x], dst[x+2] = dst[x+2], dst[x]
				}
				if desc.IsOpaque {
					dst[x+3] = 0xff
				}
			}
		}
		return img, nil
	}
}
