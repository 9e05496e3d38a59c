// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"encoding/binary"
)

var (
	markerXMP         = []byte("http://ns.adobe.com/xap/1.0/\x00")
	markerXMPExtended = []byte("http://ns.adobe.com/xmp/extension/\x00")
	exifIdentifier    = []byte("Exif")
	byteOrderII       = []byte("II")
	byteOrderMM       = []byte("MM")
)

const (
	tiffMagic = 0x002a
	// How far past the payload start we look for the identifier and the byte order marker.
	headerSearchWindow = 25
	// Length of "Exif\x00\x00".
	exifIdentifierLength = 6
)

// Endianness is the byte order of a TIFF structure.
type Endianness int

const (
	// BigEndian ("MM") is also the default when no byte order marker is found.
	BigEndian Endianness = iota
	// LittleEndian ("II").
	LittleEndian
)

// ByteOrder returns the binary.ByteOrder for e.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Endianness) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

func (e Endianness) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// TIFFHeader is the resolved TIFF header of an EXIF segment.
// All offsets are absolute offsets into the file.
type TIFFHeader struct {
	// SegmentOffset is where the segment payload starts.
	SegmentOffset int
	// ExifIDOffset is the offset of the "Exif" identifier, -1 if not found.
	ExifIDOffset int
	// Anchor is the base every pointer in the segment is relative to.
	Anchor int

	Endianness     Endianness
	Magic          uint16
	FirstIFDOffset uint32

	// NonEXIF is set for APP1 segments carrying XMP.
	NonEXIF bool

	ExifIDFound    bool
	ByteOrderFound bool
	MagicValid     bool
	// Truncated is set when the segment ends before the header does.
	Truncated bool
}

// FirstIFD returns the absolute offset of the 0th IFD.
func (h TIFFHeader) FirstIFD() int {
	return h.Anchor + int(h.FirstIFDOffset)
}

// resolveTIFFHeader resolves the TIFF header in v[start:end].
// The identifier and the byte order marker are only looked for in the first
// headerSearchWindow bytes of the payload, so text inside tag values cannot move the anchor.
// Missing markers are not errors; they are reported via warnf and the flags on the header.
func resolveTIFFHeader(v byteView, start, end int, warnf func(string, ...any)) TIFFHeader {
	end = min(end, v.size())
	h := TIFFHeader{
		SegmentOffset: start,
		ExifIDOffset:  -1,
	}

	if v.hasPrefixAt(start, markerXMP) || v.hasPrefixAt(start, markerXMPExtended) {
		h.NonEXIF = true
		return h
	}

	window := min(start+headerSearchWindow, end)

	base := start
	if i := v.index(exifIdentifier, start, window); i >= 0 {
		h.ExifIDFound = true
		h.ExifIDOffset = i
		base = i
	} else {
		warnf("exif: no Exif identifier found in segment at offset %d", start)
	}

	ii := v.index(byteOrderII, start, window)
	mm := v.index(byteOrderMM, start, window)

	switch {
	case ii >= 0 && (mm < 0 || ii < mm):
		h.Endianness = LittleEndian
		h.ByteOrderFound = true
		h.Anchor = ii
	case mm >= 0:
		h.Endianness = BigEndian
		h.ByteOrderFound = true
		h.Anchor = mm
	default:
		h.Endianness = BigEndian
		h.Anchor = base
		if h.ExifIDFound {
			h.Anchor = base + exifIdentifierLength
		}
		warnf("exif: no byte order marker found, assuming big endian at offset %d", h.Anchor)
	}

	hv := byteView{b: v.b[:end], byteOrder: h.Endianness.ByteOrder()}

	magic, err := hv.read2(h.Anchor + 2)
	if err != nil {
		h.Truncated = true
		warnf("exif: truncated TIFF header at offset %d", h.Anchor)
		return h
	}
	h.Magic = magic
	h.MagicValid = magic == tiffMagic
	if !h.MagicValid {
		warnf("exif: invalid TIFF magic 0x%04x at offset %d", magic, h.Anchor+2)
	}

	first, err := hv.read4(h.Anchor + 4)
	if err != nil {
		h.Truncated = true
		warnf("exif: truncated TIFF header at offset %d", h.Anchor)
		return h
	}
	h.FirstIFDOffset = first

	return h
}
