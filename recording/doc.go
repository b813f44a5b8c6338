// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package recording captures the messages a renderer receives as a
// directory of frame files that can be inspected and replayed.
//
// A Receiver sees every API message. The frame writer keeps the resource
// state (images, fonts, root pipeline) and writes one file per root display
// list, named frame-00001.<ext>, frame-00002.<ext> and so on. Raw images
// are written once per change as PNG files under res/.
//
//	rec, err := recording.NewReceiver("yaml", "yaml_frames")
//	...
//	frames, err := recording.ReadDir("yaml_frames")
//
// # Formats
//
// Formats follow the database/sql driver pattern: a Codec is registered
// under a name and looked up by NewReceiver. The built-in formats are
// yaml, json, toml and json.lz4.
package recording
