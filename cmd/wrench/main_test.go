// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/wrench/config"
	"github.com/gogpu/wrench/harness"
	"github.com/gogpu/wrench/recording"
)

func parse(t *testing.T, args ...string) (*flag.FlagSet, *options) {
	t.Helper()
	var o options
	fs := flag.NewFlagSet("wrench", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "")
	fs.StringVar(&o.save, "save", "", "")
	fs.StringVar(&o.saveDir, "save-dir", "", "")
	fs.StringVar(&o.size, "size", "", "")
	fs.Float64Var(&o.dpRatio, "dp-ratio", 1, "")
	fs.BoolVar(&o.rebuild, "rebuild", false, "")
	fs.BoolVar(&o.watch, "watch", false, "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) error: %v", args, err)
	}
	return fs, &o
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrench.toml")
	data := "[window]\nsize = \"800x600\"\n\n[renderer]\ndp_ratio = 2.0\nrebuild = true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, o := parse(t, "-config", path, "-size", "640x480", "-save", "json", "-watch")
	cfg, err := loadConfig(fs, o)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Window.Size != "640x480" {
		t.Errorf("size = %q, want the flag value", cfg.Window.Size)
	}
	if cfg.Renderer.DevicePixelRatio != 2 || !cfg.Renderer.Rebuild {
		t.Errorf("renderer = %+v, want file values kept", cfg.Renderer)
	}
	if cfg.Recording.Format != "json" || cfg.Recording.Dir != config.Default().Recording.Dir {
		t.Errorf("recording = %+v", cfg.Recording)
	}
	if !cfg.Window.Watch {
		t.Error("watch flag not applied")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	fs, o := parse(t, "-save", "xml")
	if _, err := loadConfig(fs, o); !errors.Is(err, recording.ErrUnknownFormat) {
		t.Errorf("unknown format error = %v, want ErrUnknownFormat", err)
	}
	fs, o = parse(t, "-size", "big")
	if _, err := loadConfig(fs, o); !errors.Is(err, config.ErrInvalidSize) {
		t.Errorf("bad size error = %v, want ErrInvalidSize", err)
	}
	fs, o = parse(t, "-dp-ratio", "0")
	if _, err := loadConfig(fs, o); err == nil {
		t.Error("zero dp-ratio should fail")
	}
}

func TestNewThing(t *testing.T) {
	dir := t.TempDir()
	if _, err := newThing(dir); !errors.Is(err, harness.ErrNoFrames) {
		t.Errorf("empty dir error = %v, want ErrNoFrames", err)
	}
	file := filepath.Join(dir, "a.png")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	thing, err := newThing(file)
	if err != nil {
		t.Fatalf("newThing(file) error: %v", err)
	}
	if _, ok := thing.(*harness.ImageThing); !ok {
		t.Errorf("newThing(file) = %T, want *harness.ImageThing", thing)
	}
	if _, err := newThing(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing input error = %v, want ErrNotExist", err)
	}
}
