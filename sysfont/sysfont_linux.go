// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux

package sysfont

import (
	"fmt"
	"sync"

	"github.com/go-text/typesetting/fontscan"

	"github.com/gogpu/wrench"
)

// fontscanResolver indexes the fontconfig font directories with go-text's
// fontscan. The index is built on first use and cached on disk.
type fontscanResolver struct {
	once    sync.Once
	catalog *catalog
	err     error
}

var system = &fontscanResolver{}

// System returns the resolver of the current platform.
func System() Resolver { return system }

// logAdapter routes fontscan warnings to the shared logger.
type logAdapter struct{}

func (logAdapter) Printf(format string, args ...interface{}) {
	wrench.Logger().Debug("sysfont: " + fmt.Sprintf(format, args...))
}

func (r *fontscanResolver) load() (*catalog, error) {
	r.once.Do(func() {
		footprints, err := fontscan.SystemFonts(logAdapter{}, "")
		if err != nil {
			r.err = fmt.Errorf("sysfont: scan system fonts: %w", err)
			return
		}
		c := &catalog{}
		for _, fp := range footprints {
			c.add(fp.Family, fp.Aspect, fp.Location.File, int(fp.Location.Index))
		}
		r.catalog = c
		wrench.Logger().Debug("sysfont: system fonts indexed", "faces", len(c.faces))
	})
	return r.catalog, r.err
}

func (r *fontscanResolver) FontFromName(family string) ([]byte, NativeHandle, error) {
	c, err := r.load()
	if err != nil {
		return nil, NativeHandle{}, err
	}
	return c.fontFromName(family)
}

func (r *fontscanResolver) FontFromHandle(h NativeHandle) ([]byte, error) {
	c, err := r.load()
	if err != nil {
		return nil, err
	}
	return c.fontFromHandle(h)
}
