// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownFormat is returned for a format or file extension that no
// registered codec handles.
var ErrUnknownFormat = errors.New("recording: unknown format")

// Registry state - protected by mutex for thread-safe access.
var (
	registryMu sync.RWMutex
	codecs     = make(map[string]Codec)
)

// Register makes a codec available under name.
//
//	func init() {
//	    recording.Register("cbor", cborCodec{})
//	}
//
// Register panics if codec is nil or name is already registered.
func Register(name string, codec Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if codec == nil {
		panic("recording: Register codec is nil")
	}
	if _, dup := codecs[name]; dup {
		panic("recording: Register called twice for " + name)
	}
	codecs[name] = codec
}

// Unregister removes a codec from the registry.
// If the codec is not registered, this is a no-op.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(codecs, name)
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	registryMu.RLock()
	c, ok := codecs[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownFormat, name)
	}
	return c, nil
}

// lookupPath returns the codec whose extension ends path. The longest
// extension wins, so "frame.json.lz4" is not read as plain json.
func lookupPath(path string) (Codec, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var best Codec
	for _, c := range codecs {
		ext := "." + c.Ext()
		if strings.HasSuffix(path, ext) && (best == nil || len(c.Ext()) > len(best.Ext())) {
			best = c
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return best, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a codec is registered under name.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := codecs[name]
	return ok
}
