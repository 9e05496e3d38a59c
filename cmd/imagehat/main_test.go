// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

// A JPEG with a big endian TIFF header and one IFD0 entry: Orientation = 1.
var tinyJPEG = []byte{
	0xff, 0xd8,
	0xff, 0xe1, 0x00, 0x22,
	'E', 'x', 'i', 'f', 0, 0,
	'M', 'M', 0x00, 0x2a, 0x00, 0x00, 0x00, 0x08,
	0x00, 0x01,
	0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
	0xff, 0xd9,
}

func decodeOutput(c *qt.C, r io.Reader) []map[string]any {
	c.Helper()
	var docs []map[string]any
	dec := json.NewDecoder(r)
	for {
		var m map[string]any
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			return docs
		}
		c.Assert(err, qt.IsNil)
		docs = append(docs, m)
	}
}

func TestRun(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "a.jpg"), tinyJPEG, 0o644), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(dir, "b.jpg"), []byte("garbage"), 0o644), qt.IsNil)

	cfg := config{mode: "complete", compression: "compressed", score: true}

	c.Run("Folder", func(c *qt.C) {
		var buf bytes.Buffer
		c.Assert(run(context.Background(), &buf, cfg, []string{dir}), qt.IsNil)
		docs := decodeOutput(c, &buf)
		c.Assert(docs, qt.HasLen, 2)

		c.Assert(docs[0]["path"], qt.Equals, filepath.Join(dir, "a.jpg"))
		c.Assert(docs[0]["error"], qt.IsNil)
		c.Assert(docs[0]["report"], qt.Not(qt.IsNil))
		conformity := docs[0]["conformity"].(map[string]any)
		c.Assert(conformity["HeaderValidity"], qt.Equals, 1.0)
		c.Assert(conformity["TagValidityDefined"], qt.Equals, false)

		c.Assert(docs[1]["path"], qt.Equals, filepath.Join(dir, "b.jpg"))
		c.Assert(docs[1]["error"], qt.Not(qt.IsNil))
		c.Assert(docs[1]["report"], qt.IsNil)
	})

	c.Run("File without scores", func(c *qt.C) {
		cfg := cfg
		cfg.score = false
		var buf bytes.Buffer
		c.Assert(run(context.Background(), &buf, cfg, []string{filepath.Join(dir, "a.jpg")}), qt.IsNil)
		docs := decodeOutput(c, &buf)
		c.Assert(docs, qt.HasLen, 1)
		c.Assert(docs[0]["conformity"], qt.IsNil)
	})

	c.Run("Segments only", func(c *qt.C) {
		cfg := cfg
		cfg.segmentsOnly = true
		var buf bytes.Buffer
		c.Assert(run(context.Background(), &buf, cfg, []string{filepath.Join(dir, "a.jpg")}), qt.IsNil)
		docs := decodeOutput(c, &buf)
		report := docs[0]["report"].(map[string]any)
		c.Assert(report["EXIF"], qt.IsNil)
		segments := report["Segments"].(map[string]any)["Segments"].([]any)
		c.Assert(segments, qt.HasLen, 3)
	})

	c.Run("Invalid mode", func(c *qt.C) {
		cfg := cfg
		cfg.mode = "xmp"
		c.Assert(run(context.Background(), io.Discard, cfg, []string{dir}), qt.ErrorMatches, `invalid mode "xmp"`)
	})

	c.Run("Invalid compression", func(c *qt.C) {
		cfg := cfg
		cfg.compression = "lzw"
		c.Assert(run(context.Background(), io.Discard, cfg, []string{dir}), qt.Not(qt.IsNil))
	})

	c.Run("Missing path", func(c *qt.C) {
		err := run(context.Background(), io.Discard, cfg, []string{filepath.Join(dir, "missing.jpg")})
		c.Assert(errors.Is(err, os.ErrNotExist), qt.IsTrue)
	})
}
