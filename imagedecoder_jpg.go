// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

const (
	markerTEM   = 0x01
	markerSOF0  = 0xc0
	markerDHT   = 0xc4
	markerJPG   = 0xc8
	markerDAC   = 0xcc
	markerRST0  = 0xd0
	markerRST7  = 0xd7
	markerSOI   = 0xd8
	markerEOI   = 0xd9
	markerSOS   = 0xda
	markerAPP0  = 0xe0
	markerAPP1  = 0xe1
	markerAPP13 = 0xed
	markerAPP15 = 0xef
	markerJPG0  = 0xf0
	markerJPG13 = 0xfd
	markerCOM   = 0xfe
)

var jpegMarkerNames = map[byte]string{
	markerTEM: "TEM",
	markerDHT: "DHT",
	markerJPG: "JPG",
	markerDAC: "DAC",
	markerSOI: "SOI",
	markerEOI: "EOI",
	markerSOS: "SOS",
	0xdb:      "DQT",
	0xdc:      "DNL",
	0xdd:      "DRI",
	0xde:      "DHP",
	0xdf:      "EXP",
	markerCOM: "COM",
}

// markerName returns the name of the marker following 0xFF.
func markerName(m byte) string {
	if s, found := jpegMarkerNames[m]; found {
		return s
	}
	switch {
	case m >= markerSOF0 && m <= 0xcf:
		return "SOF" + strconv.Itoa(int(m-markerSOF0))
	case m >= markerRST0 && m <= markerRST7:
		return "RST" + strconv.Itoa(int(m-markerRST0))
	case m >= markerAPP0 && m <= markerAPP15:
		return "APP" + strconv.Itoa(int(m-markerAPP0))
	case m >= markerJPG0 && m <= markerJPG13:
		return "JPG" + strconv.Itoa(int(m-markerJPG0))
	}
	return fmt.Sprintf("Unknown_FF%02X", m)
}

// isStandalone reports whether the marker has no length field.
func isStandalone(m byte) bool {
	return m == markerSOI || m == markerEOI || m == markerTEM || (m >= markerRST0 && m <= markerRST7)
}

// Segment is a JPEG marker segment.
type Segment struct {
	// Name is the marker name, suffixed with _<n> for the nth repeat of the same name.
	Name   string
	Marker byte
	// Offset is the absolute offset of the 0xFF lead byte.
	Offset int
	// Size is the value of the length field, which includes the two length bytes.
	// It is 0 for standalone markers.
	Size       int
	Standalone bool
}

// End returns the offset of the first byte after the segment.
func (s Segment) End() int {
	if s.Standalone {
		return s.Offset + 2
	}
	return s.Offset + 2 + s.Size
}

// PayloadOffset returns the offset of the first byte after the length field.
func (s Segment) PayloadOffset() int {
	if s.Standalone {
		return s.Offset + 2
	}
	return s.Offset + 4
}

// SegmentTable is the ordered list of segments found in a JPEG file.
type SegmentTable struct {
	Segments []Segment
	// Truncated is set when a segment extends past the end of the file.
	Truncated bool
}

// Find returns the segment with the given name, e.g. "APP1" or "APP1_1".
func (t *SegmentTable) Find(name string) (Segment, bool) {
	for _, s := range t.Segments {
		if s.Name == name {
			return s, true
		}
	}
	return Segment{}, false
}

// All returns all segments with the given marker in file order.
func (t *SegmentTable) All(marker byte) []Segment {
	var segs []Segment
	for _, s := range t.Segments {
		if s.Marker == marker {
			segs = append(segs, s)
		}
	}
	return segs
}

// scanSegments scans b for marker segments.
// It never fails; a segment running past the end of b stops the scan and sets Truncated.
func scanSegments(b []byte) SegmentTable {
	var (
		table SegmentTable
		seen  = make(map[string]int)
	)

	add := func(s Segment) {
		n := seen[s.Name]
		seen[s.Name] = n + 1
		if n > 0 {
			s.Name = s.Name + "_" + strconv.Itoa(n)
		}
		table.Segments = append(table.Segments, s)
	}

	pos := 0
	for pos < len(b) {
		if b[pos] != 0xff {
			// Resync.
			pos++
			continue
		}
		if pos+1 >= len(b) {
			break
		}
		m := b[pos+1]
		switch {
		case m == 0x00:
			// Stuffed byte in entropy coded data.
			pos += 2
			continue
		case m == 0xff:
			// Fill byte.
			pos++
			continue
		case isStandalone(m):
			add(Segment{Name: markerName(m), Marker: m, Offset: pos, Standalone: true})
			pos += 2
			continue
		}

		if pos+4 > len(b) {
			table.Truncated = true
			break
		}
		length := int(binary.BigEndian.Uint16(b[pos+2 : pos+4]))
		end := pos + 2 + length
		if length < 2 || end > len(b) {
			table.Truncated = true
			break
		}
		add(Segment{Name: markerName(m), Marker: m, Offset: pos, Size: length})
		pos = end
	}

	return table
}

type imageDecoderJPEG struct {
	*baseDecoder
}

func (e *imageDecoderJPEG) decode() error {
	table := scanSegments(e.b)
	if table.Truncated {
		e.warnf("jpeg: segment table truncated")
	}
	if e.opts.Sources.Has(SEGMENTS) {
		e.report.Segments = &table
	}

	if e.opts.Sources.Has(EXIF) {
		for _, s := range table.All(markerAPP1) {
			h := resolveTIFFHeader(newByteView(e.b), s.PayloadOffset(), s.End(), e.warnf)
			if h.NonEXIF {
				continue
			}
			e.report.EXIF = newMetaDecoderEXIF(e.b, s.End(), h, e.opts, e.warnf).decode()
			break
		}
	}

	if e.opts.Sources.Has(IPTC) {
		for _, s := range table.All(markerAPP13) {
			if iptc := decodeIPTC(newByteView(e.b), s.PayloadOffset(), s.End(), e.warnf); iptc != nil {
				e.report.IPTC = iptc
				break
			}
		}
	}

	return nil
}
