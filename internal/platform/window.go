// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package platform opens the harness window: a glfw window with a GL 3.2
// core context, a presenter that shows composited frames in it, and a
// waker that interrupts the event wait from any goroutine.
//
// Everything except Wake must be called from the main thread.
package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/notify"
)

func init() {
	// glfw and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

// Key is a keyboard key.
type Key = glfw.Key

// Keys handled by the harnesses.
const (
	KeyEscape = glfw.KeyEscape
	KeyQ      = glfw.KeyQ
	KeyH      = glfw.KeyH
	KeyR      = glfw.KeyR
	KeyP      = glfw.KeyP
	KeyLeft   = glfw.KeyLeft
	KeyRight  = glfw.KeyRight
)

// Window is a glfw window with a current GL context.
type Window struct {
	w       *glfw.Window
	keys    []Key
	resized bool
}

// Open initializes glfw, creates a window of the given framebuffer size and
// makes its GL context current.
func Open(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("platform: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("platform: create window: %w", err)
	}
	w.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		w.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("platform: gl init: %w", err)
	}
	glfw.SwapInterval(1)

	win := &Window{w: w}
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			win.keys = append(win.keys, key)
		}
	})
	w.SetFramebufferSizeCallback(func(*glfw.Window, int, int) {
		win.resized = true
	})
	return win, nil
}

// GLInfo returns the GL renderer and version strings.
func (w *Window) GLInfo() (renderer, version string) {
	return gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION))
}

// Size returns the framebuffer size in device pixels.
func (w *Window) Size() displaylist.DeviceSize {
	width, height := w.w.GetFramebufferSize()
	return displaylist.DeviceSize{Width: width, Height: height}
}

// ContentScale returns the ratio of framebuffer pixels to screen
// coordinates.
func (w *Window) ContentScale() float32 {
	x, _ := w.w.GetContentScale()
	if x <= 0 {
		return 1
	}
	return x
}

// Waker returns a waker that interrupts Wait. It may be called from any
// goroutine.
func (w *Window) Waker() notify.Waker {
	return notify.WakerFunc(glfw.PostEmptyEvent)
}

// Wait blocks until an event arrives or the waker fires.
func (w *Window) Wait() { glfw.WaitEvents() }

// Poll processes pending events without blocking.
func (w *Window) Poll() { glfw.PollEvents() }

// Keys returns the keys pressed since the last call.
func (w *Window) Keys() []Key {
	keys := w.keys
	w.keys = nil
	return keys
}

// Resized reports whether the framebuffer changed size since the last call.
func (w *Window) Resized() bool {
	r := w.resized
	w.resized = false
	return r
}

func (w *Window) SetTitle(title string) { w.w.SetTitle(title) }
func (w *Window) ShouldClose() bool     { return w.w.ShouldClose() }
func (w *Window) SetShouldClose(v bool) { w.w.SetShouldClose(v) }
func (w *Window) SwapBuffers()          { w.w.SwapBuffers() }

// Close destroys the window and terminates glfw.
func (w *Window) Close() {
	w.w.Destroy()
	glfw.Terminate()
}
