// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func segmentNames(t SegmentTable) []string {
	var names []string
	for _, s := range t.Segments {
		names = append(names, s.Name)
	}
	return names
}

func TestScanSegments(t *testing.T) {
	c := qt.New(t)

	c.Run("Basic", func(c *qt.C) {
		tiff := sampleTIFF().build()
		b := jpegWithEXIF(tiff)
		l := len(tiff)

		table := scanSegments(b)
		c.Assert(table.Truncated, qt.IsFalse)
		c.Assert(segmentNames(table), qt.DeepEquals, []string{"SOI", "APP1", "DQT", "SOS", "RST0", "EOI"})

		app1, found := table.Find("APP1")
		c.Assert(found, qt.IsTrue)
		c.Assert(app1.Offset, qt.Equals, 2)
		c.Assert(app1.Size, qt.Equals, l+8)
		c.Assert(app1.PayloadOffset(), qt.Equals, 6)
		c.Assert(app1.End(), qt.Equals, l+12)

		dqt, _ := table.Find("DQT")
		c.Assert(dqt.Offset, qt.Equals, l+12)
		c.Assert(dqt.Size, qt.Equals, 67)

		rst, _ := table.Find("RST0")
		c.Assert(rst.Offset, qt.Equals, l+99)
		c.Assert(rst.Standalone, qt.IsTrue)

		eoi, _ := table.Find("EOI")
		c.Assert(eoi.Offset, qt.Equals, l+102)
		c.Assert(eoi.End(), qt.Equals, len(b))
	})

	c.Run("Non overlapping", func(c *qt.C) {
		b := jpegWithEXIF(sampleTIFF().build(), segment(0xe2, []byte("ICC")), segment(markerCOM, []byte("hello")))
		table := scanSegments(b)
		prevEnd := 0
		for _, s := range table.Segments {
			c.Assert(s.Offset >= prevEnd, qt.IsTrue, qt.Commentf("%s at %d overlaps previous end %d", s.Name, s.Offset, prevEnd))
			c.Assert(s.End() <= len(b), qt.IsTrue)
			prevEnd = s.End()
		}
	})

	c.Run("Repeated names", func(c *qt.C) {
		b := jpegWithEXIF(sampleTIFF().build(), segment(markerAPP1, []byte("http://ns.adobe.com/xap/1.0/\x00<x/>")), segment(markerAPP1, []byte("third")))
		table := scanSegments(b)
		c.Assert(segmentNames(table)[:4], qt.DeepEquals, []string{"SOI", "APP1", "APP1_1", "APP1_2"})
		c.Assert(table.All(markerAPP1), qt.HasLen, 3)
	})

	c.Run("Fill bytes and resync", func(c *qt.C) {
		b := []byte{0xff, markerSOI, 0x00, 0x13, 0xff, 0xff, 0xff, markerCOM, 0x00, 0x03, 'x', 0xff, markerEOI}
		table := scanSegments(b)
		c.Assert(table.Truncated, qt.IsFalse)
		c.Assert(segmentNames(table), qt.DeepEquals, []string{"SOI", "COM", "EOI"})
		com, _ := table.Find("COM")
		c.Assert(com.Offset, qt.Equals, 6)
		c.Assert(com.Size, qt.Equals, 3)
	})

	c.Run("Truncated", func(c *qt.C) {
		b := jpegWithEXIF(sampleTIFF().build())
		table := scanSegments(b[:40])
		c.Assert(table.Truncated, qt.IsTrue)
		c.Assert(segmentNames(table), qt.DeepEquals, []string{"SOI"})

		table = scanSegments([]byte{0xff, markerSOI, 0xff, markerAPP0})
		c.Assert(table.Truncated, qt.IsTrue)
	})

	c.Run("Invalid length", func(c *qt.C) {
		table := scanSegments([]byte{0xff, markerSOI, 0xff, markerAPP0, 0x00, 0x01, 0xff, markerEOI})
		c.Assert(table.Truncated, qt.IsTrue)
		c.Assert(segmentNames(table), qt.DeepEquals, []string{"SOI"})
	})

	c.Run("Empty", func(c *qt.C) {
		table := scanSegments(nil)
		c.Assert(table.Segments, qt.HasLen, 0)
		c.Assert(table.Truncated, qt.IsFalse)
	})
}

func TestMarkerName(t *testing.T) {
	c := qt.New(t)

	for _, test := range []struct {
		marker byte
		name   string
	}{
		{markerSOI, "SOI"},
		{markerAPP0, "APP0"},
		{markerAPP13, "APP13"},
		{0xc0, "SOF0"},
		{0xc2, "SOF2"},
		{markerDHT, "DHT"},
		{0xdb, "DQT"},
		{0xdd, "DRI"},
		{0xd3, "RST3"},
		{markerCOM, "COM"},
		{markerTEM, "TEM"},
		{0x02, "Unknown_FF02"},
	} {
		c.Assert(markerName(test.marker), qt.Equals, test.name)
	}
}
