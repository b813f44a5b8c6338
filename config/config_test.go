// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/wrench/displaylist"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wrench.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
[window]
size = "640x480"

[renderer]
dp_ratio = 2.0
subpixel_aa = true

[recording]
format = "toml"
dir = "out"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	size, _ := cfg.Size()
	if size != (displaylist.DeviceSize{Width: 640, Height: 480}) {
		t.Errorf("Size() = %v, want 640x480", size)
	}
	if cfg.Window.Title != "wrench" {
		t.Errorf("Title = %q, default lost", cfg.Window.Title)
	}
	if !cfg.Renderer.EnableAA {
		t.Error("EnableAA default lost")
	}

	opts := cfg.RendererOptions()
	if opts.DevicePixelRatio != 2 || !opts.EnableSubpixelAA {
		t.Errorf("RendererOptions() = %+v", opts)
	}
	if !opts.EnableRecording || opts.RecordingFormat != "toml" || opts.RecordingDir != "out" {
		t.Errorf("recording options = %v %q %q", opts.EnableRecording, opts.RecordingFormat, opts.RecordingDir)
	}
	if opts.ClearColor != displaylist.White {
		t.Errorf("ClearColor = %v, want white", opts.ClearColor)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		is   error
	}{
		{"bad size", "[window]\nsize = \"big\"\n", ErrInvalidSize},
		{"bad ratio", "[renderer]\ndp_ratio = 0.0\n", nil},
		{"bad toml", "[window\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() succeeded")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Load() error = %v, want %v", err, tt.is)
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want not exist", err)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want displaylist.DeviceSize
		ok   bool
	}{
		{"800x600", displaylist.DeviceSize{Width: 800, Height: 600}, true},
		{" 10X20 ", displaylist.DeviceSize{Width: 10, Height: 20}, true},
		{"800", displaylist.DeviceSize{}, false},
		{"0x600", displaylist.DeviceSize{}, false},
		{"-1x5", displaylist.DeviceSize{}, false},
		{"axb", displaylist.DeviceSize{}, false},
		{"", displaylist.DeviceSize{}, false},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Errorf("ParseSize(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("ParseSize(%q) error = %v, want ErrInvalidSize", tt.in, err)
		}
	}
}

func TestRecordingDisabledByDefault(t *testing.T) {
	if Default().RendererOptions().EnableRecording {
		t.Error("recording enabled by default")
	}
}
