// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package sysfont

import (
	"os"
	"path/filepath"
	"sync"
)

// dirResolver indexes %WINDIR%\Fonts through the fonts' name tables.
type dirResolver struct {
	once    sync.Once
	catalog *catalog
	err     error
}

var system = &dirResolver{}

// System returns the resolver of the current platform.
func System() Resolver { return system }

func (r *dirResolver) load() (*catalog, error) {
	r.once.Do(func() {
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		r.catalog, r.err = scanDir(filepath.Join(windir, "Fonts"))
	})
	return r.catalog, r.err
}

func (r *dirResolver) FontFromName(family string) ([]byte, NativeHandle, error) {
	c, err := r.load()
	if err != nil {
		return nil, NativeHandle{}, err
	}
	return c.fontFromName(family)
}

func (r *dirResolver) FontFromHandle(h NativeHandle) ([]byte, error) {
	c, err := r.load()
	if err != nil {
		return nil, err
	}
	return c.fontFromHandle(h)
}
