// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package main

// GPU acceleration for the compositor; build with -tags nogpu for the
// software rasterizer only.
import _ "github.com/gogpu/gg/gpu"
