// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package recording

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// Codec encodes frames in one file format.
type Codec interface {
	// Ext is the file extension without the leading dot.
	Ext() string
	Encode(w io.Writer, f *Frame) error
	Decode(r io.Reader, f *Frame) error
}

func init() {
	Register("yaml", yamlCodec{})
	Register("json", jsonCodec{})
	Register("toml", tomlCodec{})
	Register("json.lz4", lz4Codec{inner: jsonCodec{}})
}

type yamlCodec struct{}

func (yamlCodec) Ext() string { return "yaml" }

func (yamlCodec) Encode(w io.Writer, f *Frame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return enc.Close()
}

func (yamlCodec) Decode(r io.Reader, f *Frame) error {
	if err := yaml.NewDecoder(r).Decode(f); err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	return nil
}

type jsonCodec struct{}

func (jsonCodec) Ext() string { return "json" }

func (jsonCodec) Encode(w io.Writer, f *Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

func (jsonCodec) Decode(r io.Reader, f *Frame) error {
	if err := json.NewDecoder(r).Decode(f); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

type tomlCodec struct{}

func (tomlCodec) Ext() string { return "toml" }

func (tomlCodec) Encode(w io.Writer, f *Frame) error {
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	return nil
}

func (tomlCodec) Decode(r io.Reader, f *Frame) error {
	if err := toml.NewDecoder(r).Decode(f); err != nil {
		return fmt.Errorf("toml: %w", err)
	}
	return nil
}

// lz4Codec compresses another codec's output with the LZ4 frame format.
type lz4Codec struct {
	inner Codec
}

func (c lz4Codec) Ext() string { return c.inner.Ext() + ".lz4" }

func (c lz4Codec) Encode(w io.Writer, f *Frame) error {
	zw := lz4.NewWriter(w)
	if err := c.inner.Encode(zw, f); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("lz4: %w", err)
	}
	return nil
}

func (c lz4Codec) Decode(r io.Reader, f *Frame) error {
	return c.inner.Decode(lz4.NewReader(r), f)
}
