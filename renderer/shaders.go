// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/naga"

	"github.com/gogpu/wrench"
)

// ErrNoShaderOverrides is returned by Shader when no override directory is
// configured.
var ErrNoShaderOverrides = errors.New("renderer: no shader override path")

const shaderExt = ".wgsl"

// shaderCache compiles WGSL overrides to SPIR-V on demand.
type shaderCache struct {
	dir string

	mu       sync.Mutex
	compiled map[string][]byte
}

func newShaderCache(dir string) *shaderCache {
	return &shaderCache{dir: dir, compiled: make(map[string][]byte)}
}

// names lists the override shaders in the directory, sorted.
func (s *shaderCache) names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("shader overrides: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), shaderExt) {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	sort.Strings(names)
	return names, nil
}

// get returns the SPIR-V of shader name, compiling it on first use.
func (s *shaderCache) get(name string) ([]byte, error) {
	if s.dir == "" {
		return nil, ErrNoShaderOverrides
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if spv, ok := s.compiled[name]; ok {
		return spv, nil
	}
	src, err := os.ReadFile(filepath.Join(s.dir, name+shaderExt))
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	spv, err := naga.Compile(string(src))
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	s.compiled[name] = spv
	wrench.Logger().Debug("compiled shader override", "name", name, "bytes", len(spv))
	return spv, nil
}

// precache compiles every override and fails on the first error.
func (s *shaderCache) precache() error {
	names, err := s.names()
	if err != nil {
		return err
	}
	for _, n := range names {
		if _, err := s.get(n); err != nil {
			return err
		}
	}
	wrench.Logger().Info("precached shader overrides", "count", len(names), "dir", s.dir)
	return nil
}
