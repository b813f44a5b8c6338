// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gogpu/wrench/api"
	"github.com/gogpu/wrench/displaylist"
	"github.com/gogpu/wrench/sysfont"
)

// Receiver is notified of every message a renderer receives.
type Receiver interface {
	Record(msg api.Msg) error
	Close() error
}

// Frame is one recorded root display list together with the resources it
// could reference when it was submitted.
type Frame struct {
	Session     string                 `json:"session" yaml:"session" toml:"session"`
	Number      int                    `json:"number" yaml:"number" toml:"number"`
	Epoch       displaylist.Epoch      `json:"epoch" yaml:"epoch" toml:"epoch"`
	Pipeline    displaylist.PipelineID `json:"pipeline" yaml:"pipeline" toml:"pipeline"`
	Background  *displaylist.ColorF    `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
	Viewport    displaylist.Size       `json:"viewport" yaml:"viewport" toml:"viewport"`
	ContentSize displaylist.Size       `json:"content_size" yaml:"content_size" toml:"content_size"`
	Images      map[string]ImageRef    `json:"images,omitempty" yaml:"images,omitempty" toml:"images,omitempty"`
	Fonts       map[string]FontRef     `json:"fonts,omitempty" yaml:"fonts,omitempty" toml:"fonts,omitempty"`
	Items       []displaylist.Item     `json:"items" yaml:"items" toml:"items"`
}

// DisplayList rebuilds the recorded display list.
func (f *Frame) DisplayList() (*displaylist.DisplayList, error) {
	return displaylist.FromItems(f.Pipeline, f.ContentSize, f.Items)
}

// ImageRef describes a recorded image.
type ImageRef struct {
	Key    displaylist.ImageKey `json:"key" yaml:"key" toml:"key"`
	Width  int                  `json:"width" yaml:"width" toml:"width"`
	Height int                  `json:"height" yaml:"height" toml:"height"`
	Opaque bool                 `json:"opaque,omitempty" yaml:"opaque,omitempty" toml:"opaque,omitempty"`
	// Path is the PNG file of a raw image, relative to the recording
	// directory.
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	// External is the external image ID of an external image. Its pixels
	// belong to the host and are not recorded.
	External   uint64 `json:"external,omitempty" yaml:"external,omitempty" toml:"external,omitempty"`
	IsExternal bool   `json:"is_external,omitempty" yaml:"is_external,omitempty" toml:"is_external,omitempty"`
}

// Load decodes the PNG of a raw image recorded under dir.
func (r ImageRef) Load(dir string) (image.Image, error) {
	if r.IsExternal || r.Path == "" {
		return nil, fmt.Errorf("recording: image %s has no recorded pixels", keyName(r.Key.Namespace, r.Key.Key))
	}
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(r.Path)))
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("recording: %s: %w", r.Path, err)
	}
	return img, nil
}

// FontRef describes a recorded font: a file under the recording directory
// or a platform font handle.
type FontRef struct {
	Key    displaylist.FontKey   `json:"key" yaml:"key" toml:"key"`
	Path   string                `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	Native *sysfont.NativeHandle `json:"native,omitempty" yaml:"native,omitempty" toml:"native,omitempty"`
}

// Load returns the font bytes of a raw font recorded under dir.
func (r FontRef) Load(dir string) ([]byte, error) {
	if r.Path == "" {
		return nil, fmt.Errorf("recording: font %s is a native font", keyName(r.Key.Namespace, r.Key.Key))
	}
	b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(r.Path)))
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	return b, nil
}

// ImageName returns the map key of an image in Frame.Images.
func ImageName(k displaylist.ImageKey) string { return keyName(k.Namespace, k.Key) }

// FontName returns the map key of a font in Frame.Fonts.
func FontName(k displaylist.FontKey) string { return keyName(k.Namespace, k.Key) }

func keyName(ns displaylist.IDNamespace, key uint32) string {
	return fmt.Sprintf("%d:%d", ns, key)
}
