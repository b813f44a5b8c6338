// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadFrame decodes a frame file, choosing the codec by extension.
func ReadFrame(path string) (*Frame, error) {
	codec, err := lookupPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	defer f.Close()

	var fr Frame
	if err := codec.Decode(f, &fr); err != nil {
		return nil, fmt.Errorf("recording: %s: %w", path, err)
	}
	return &fr, nil
}

// ReadDir decodes every frame file in dir in frame order.
func ReadDir(dir string) ([]*Frame, error) {
	paths, err := FramePaths(dir)
	if err != nil {
		return nil, err
	}
	frames := make([]*Frame, 0, len(paths))
	for _, p := range paths {
		fr, err := ReadFrame(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

// FramePaths lists the frame files in dir, sorted by frame number.
func FramePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "frame-") {
			continue
		}
		if _, err := lookupPath(name); err != nil {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	// Zero-padded numbers sort lexically.
	sort.Strings(paths)
	return paths, nil
}
