// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command jpegview shows one JPEG file through the renderer, supplying the
// decoded pixels as an external image.
//
// Usage:
//
//	jpegview FILE.jpg
//
// Without an argument it does nothing. Esc or closing the window exits.
package main

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/extimage"
	"github.com/gogpu/wrench/internal/cli"
	"github.com/gogpu/wrench/internal/platform"
	"github.com/gogpu/wrench/notify"
	"github.com/gogpu/wrench/renderer"
	"github.com/gogpu/wrench/timing"
)

// imageID is the external image handle of the decoded file.
const imageID extimage.ID = 0

var background = displaylist.ColorF{R: 0.3, A: 1}

func main() {
	if len(os.Args) < 2 {
		return
	}
	cli.Install(cli.NewLogger(os.Stderr, "jpegview", false))

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "jpegview:", err)
		os.Exit(1)
	}
}

// decodeJPEG reads path as a JPEG. Other formats are a load failure.
func decodeJPEG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

func run(path string) (err error) {
	img, err := decodeJPEG(path)
	if err != nil {
		return err
	}
	b := img.Bounds()
	fmt.Printf("Loaded image with dimensions: %dx%d\n", b.Dx(), b.Dy())

	win, err := platform.Open(b.Dx(), b.Dy(), "jpegview")
	if err != nil {
		return err
	}
	defer win.Close()
	_, version := win.GLInfo()
	fmt.Println("OpenGL version", version)

	opts := renderer.DefaultOptions()
	opts.DevicePixelRatio = win.ContentScale()
	r, sender, err := renderer.New(opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, r.Close()) }()

	presenter, err := platform.NewPresenter()
	if err != nil {
		return err
	}
	defer presenter.Close()
	r.SetPresenter(presenter)

	images := extimage.NewRegistry()
	if err := images.Register(imageID, extimage.Image{
		UV:     displaylist.R(0, 0, 1, 1),
		Source: extimage.RawSource(img),
	}); err != nil {
		return err
	}
	r.SetExternalImageHandler(images)

	tx, rx := timing.New()
	r.SetRenderNotifier(notify.New(rx, notify.WithWaker(win.Waker())))

	a := sender.CreateAPI()
	defer a.Close()
	root := displaylist.PipelineID{}
	if err := a.SetRootPipeline(root); err != nil {
		return err
	}
	desc := api.ImageDescriptor{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Format:   gputypes.TextureFormatRGBA8Unorm,
		IsOpaque: true,
	}
	key, err := a.AddExternalImage(desc, imageID)
	if err != nil {
		return err
	}

	size := win.Size()
	dpr := opts.DevicePixelRatio
	layout := displaylist.Size{Width: float32(size.Width) / dpr, Height: float32(size.Height) / dpr}
	dl, err := displaylist.ImageScene(root, layout, key)
	if err != nil {
		return err
	}
	tx.PushNow()
	if err := a.SetRootDisplayList(&background, 0, layout, dl); err != nil {
		return err
	}

	for !win.ShouldClose() {
		win.Wait()
		for _, k := range win.Keys() {
			if k == platform.KeyEscape {
				win.SetShouldClose(true)
			}
		}
		r.Update()
		if err := r.Render(win.Size()); err != nil {
			wrench.Logger().Error("render failed", "err", err)
		}
		win.SwapBuffers()
	}
	return nil
}
