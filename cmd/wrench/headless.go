// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"runtime/debug"
	"time"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/config"
	"github.com/gogpu/wrench/harness"
	"github.com/gogpu/wrench/notify"
	"github.com/gogpu/wrench/renderer"
)

const frameTimeout = 10 * time.Second

// runHeadless submits every queued frame of thing, renders the last one
// and writes it to out.
func runHeadless(cfg config.Config, thing harness.Thing, out string) (err error) {
	size, err := cfg.Size()
	if err != nil {
		return err
	}
	ropts := cfg.RendererOptions()
	ropts.Device = renderer.SoftwareDevice{}
	sig := notify.NewSignal()
	w, err := harness.New(harness.Options{
		Renderer: ropts,
		Size:     size,
		Rebuild:  cfg.Renderer.Rebuild,
		Verbose:  cfg.Renderer.Verbose,
		Waker:    sig,
		Version:  ggVersion(),
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
		logStats(w)
	}()

	for {
		frame, err := thing.DoFrame(w)
		if err != nil {
			return err
		}
		select {
		case <-sig.C():
		case <-time.After(frameTimeout):
			return fmt.Errorf("frame %d not ready after %v", frame, frameTimeout)
		}
		if thing.QueueFrames() == 0 {
			break
		}
		thing.NextFrame()
	}

	if cfg.Renderer.Debug {
		w.ShowOnscreenHelp()
	}
	if err := w.Render(); err != nil {
		return err
	}
	return writePNG(out, w)
}

func writePNG(path string, w *harness.Wrench) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, w.Renderer().Image()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	wrench.Logger().Info("frame written", "path", path, "size", fmt.Sprintf("%dx%d", w.WindowSize().Width, w.WindowSize().Height))
	return nil
}

// ggVersion returns the version of the rasterizer module in the binary.
func ggVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "gg"
	}
	for _, dep := range bi.Deps {
		if dep.Path == "github.com/gogpu/gg" {
			return "gg " + dep.Version
		}
	}
	return "gg"
}
