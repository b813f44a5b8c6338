// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides the host's GPU device to the renderer.
//
// The renderer receives the device, it never creates one. When the handle
// exposes a device, New hands it to gg's accelerator so that compositing
// shares the host's GPU resources. Hosts that own a wgpu device (a gogpu
// application, for example) implement it; the wrench commands composite on
// the CPU and pass a SoftwareDevice.
type DeviceHandle = gpucontext.DeviceProvider

// SoftwareDevice is a DeviceHandle for CPU compositing. It carries no GPU
// objects and only names the adapter shown to the user.
type SoftwareDevice struct {
	// Name is the adapter name; empty means "software".
	Name string
}

var _ DeviceHandle = SoftwareDevice{}

func (SoftwareDevice) Device() gpucontext.Device   { return nil }
func (SoftwareDevice) Queue() gpucontext.Queue     { return nil }
func (SoftwareDevice) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat reports the format composited frames are produced in.
func (SoftwareDevice) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

func (d SoftwareDevice) AdapterInfo() gpucontext.AdapterInfo {
	name := d.Name
	if name == "" {
		name = "software"
	}
	return gpucontext.AdapterInfo{Name: name, Type: gpucontext.AdapterTypeSoftware}
}

// hasDevice reports whether h carries a usable device.
func hasDevice(h DeviceHandle) bool {
	return h != nil && h.Device() != nil
}

// AdapterInfo describes the adapter frames are composited on.
func (r *Renderer) AdapterInfo() gpucontext.AdapterInfo {
	if r.opts.Device == nil {
		return SoftwareDevice{}.AdapterInfo()
	}
	return r.opts.Device.AdapterInfo()
}
