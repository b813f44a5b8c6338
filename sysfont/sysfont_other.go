// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux && !windows

package sysfont

import "runtime"

// System returns the resolver of the current platform. Native font lookup
// is not implemented here, so every call fails with ErrUnsupportedPlatform.
func System() Resolver { return Unsupported(runtime.GOOS) }
