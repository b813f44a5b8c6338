// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/wrench"
	"github.com/gogpu/wrench/config"
	"github.com/gogpu/wrench/harness"
	"github.com/gogpu/wrench/internal/platform"
)

func runWindow(cfg config.Config, input string, thing harness.Thing) (err error) {
	size, err := cfg.Size()
	if err != nil {
		return err
	}
	win, err := platform.Open(size.Width, size.Height, cfg.Window.Title)
	if err != nil {
		return err
	}
	defer win.Close()
	glRenderer, version := win.GLInfo()
	wrench.Logger().Info("window opened", "renderer", glRenderer, "version", version)

	w, err := harness.New(harness.Options{
		Renderer:     cfg.RendererOptions(),
		Size:         win.Size(),
		Rebuild:      cfg.Renderer.Rebuild,
		Verbose:      cfg.Renderer.Verbose,
		Waker:        win.Waker(),
		RendererName: glRenderer,
		Version:      version,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
		logStats(w)
	}()

	presenter, err := platform.NewPresenter()
	if err != nil {
		return err
	}
	defer presenter.Close()
	w.Renderer().SetPresenter(presenter)

	var changed atomic.Bool
	if cfg.Window.Watch {
		stop, err := watch(input, &changed, win)
		if err != nil {
			return err
		}
		defer stop()
	}

	showHelp := false
	needFrame := true
	for !win.ShouldClose() {
		if needFrame {
			if _, err := thing.DoFrame(w); err != nil {
				return err
			}
			needFrame = false
		}

		win.Wait()
		for _, key := range win.Keys() {
			switch key {
			case platform.KeyEscape, platform.KeyQ:
				win.SetShouldClose(true)
			case platform.KeyH:
				showHelp = !showHelp
			case platform.KeyR:
				on := w.ToggleRebuild()
				wrench.Logger().Info("rebuild display lists", "enabled", on)
				needFrame = true
			case platform.KeyP:
				r := w.Renderer()
				r.SetProfilerEnabled(!r.ProfilerEnabled())
			case platform.KeyLeft:
				thing.PrevFrame()
				needFrame = true
			case platform.KeyRight:
				thing.NextFrame()
				needFrame = true
			}
		}
		if win.Resized() {
			w.Update(win.Size())
			needFrame = true
		}
		if changed.Swap(false) {
			if it, ok := thing.(*harness.ImageThing); ok {
				it.Invalidate()
			}
			needFrame = true
		}
		if w.ShouldRebuildDisplayLists() {
			needFrame = true
		}

		if title, ok := w.TakeTitle(); ok {
			win.SetTitle(title)
		}
		if showHelp {
			w.ShowOnscreenHelp()
		}
		if err := w.Render(); err != nil {
			wrench.Logger().Error("render failed", "err", err)
		}
		win.SwapBuffers()
	}
	return nil
}

// watch flags changes to path and wakes the window for each one.
func watch(path string, changed *atomic.Bool, win *platform.Window) (stop func(), err error) {
	watcher, err := harness.Watch(path, 0)
	if err != nil {
		return nil, err
	}
	waker := win.Waker()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-watcher.Events():
				changed.Store(true)
				waker.Wake()
			}
		}
	}()
	return func() {
		close(done)
		_ = watcher.Close()
	}, nil
}

func logStats(w *harness.Wrench) {
	s := w.Stats()
	wrench.Logger().Info("latency",
		"frames", s.Frames,
		"mean", s.Mean,
		"min", s.Min,
		"max", s.Max,
		"desyncs", s.Desyncs)
}
