// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// ifdEntry is a directory entry under construction.
// data holds the value bytes; values of up to 4 bytes are stored inline
// unless the type is always offset addressed.
type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte

	// If set, the 4 byte value field is written as is and data is ignored.
	raw *[4]byte
}

// tiffBuilder lays out a TIFF structure: header, IFD0, EXIF, GPS, Interop and IFD1
// directories, then the data area. Pointer entries are added automatically.
type tiffBuilder struct {
	order binary.ByteOrder

	ifd0    []ifdEntry
	exif    []ifdEntry
	gps     []ifdEntry
	interop []ifdEntry
	ifd1    []ifdEntry

	// Overrides the magic number when non zero.
	magic uint16
}

func newTIFFBuilder(order binary.ByteOrder) *tiffBuilder {
	return &tiffBuilder{order: order}
}

func (tb *tiffBuilder) short(tag uint16, vals ...uint16) ifdEntry {
	b := make([]byte, 2*len(vals))
	for i, v := range vals {
		tb.order.PutUint16(b[2*i:], v)
	}
	return ifdEntry{tag: tag, typ: uint16(TypeShort), count: uint32(len(vals)), data: b}
}

func (tb *tiffBuilder) long(tag uint16, vals ...uint32) ifdEntry {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		tb.order.PutUint32(b[4*i:], v)
	}
	return ifdEntry{tag: tag, typ: uint16(TypeLong), count: uint32(len(vals)), data: b}
}

func (tb *tiffBuilder) ascii(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: uint16(TypeASCII), count: uint32(len(b)), data: b}
}

func (tb *tiffBuilder) undefined(tag uint16, b []byte) ifdEntry {
	return ifdEntry{tag: tag, typ: uint16(TypeUndefined), count: uint32(len(b)), data: b}
}

func (tb *tiffBuilder) rational(tag uint16, vals ...uint32) ifdEntry {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		tb.order.PutUint32(b[4*i:], v)
	}
	return ifdEntry{tag: tag, typ: uint16(TypeRational), count: uint32(len(vals) / 2), data: b}
}

func (tb *tiffBuilder) srational(tag uint16, vals ...int32) ifdEntry {
	b := make([]byte, 4*len(vals))
	for i, v := range vals {
		tb.order.PutUint32(b[4*i:], uint32(v))
	}
	return ifdEntry{tag: tag, typ: uint16(TypeSRational), count: uint32(len(vals) / 2), data: b}
}

func (tb *tiffBuilder) rawEntry(tag, typ uint16, count uint32, value uint32) ifdEntry {
	var raw [4]byte
	tb.order.PutUint32(raw[:], value)
	return ifdEntry{tag: tag, typ: typ, count: count, raw: &raw}
}

func dirSize(entries []ifdEntry) int {
	return 2 + entrySize*len(entries) + 4
}

// build returns the TIFF bytes. All offsets are relative to the first byte.
func (tb *tiffBuilder) build() []byte {
	ifd0 := append([]ifdEntry(nil), tb.ifd0...)
	exif := append([]ifdEntry(nil), tb.exif...)

	// Placeholders, patched below.
	if tb.exif != nil {
		ifd0 = append(ifd0, tb.long(tagExifIFDPointer, 0))
	}
	if tb.gps != nil {
		ifd0 = append(ifd0, tb.long(tagGPSInfoIFDPointer, 0))
	}
	if tb.interop != nil {
		exif = append(exif, tb.long(tagInteropIFDPointer, 0))
	}

	type dir struct {
		entries []ifdEntry
		offset  int
	}
	dirs := []*dir{{entries: ifd0}, {entries: exif}, {entries: tb.gps}, {entries: tb.interop}, {entries: tb.ifd1}}
	present := func(i int) bool {
		switch i {
		case 0:
			return true
		case 1:
			return tb.exif != nil
		case 2:
			return tb.gps != nil
		case 3:
			return tb.interop != nil
		default:
			return tb.ifd1 != nil
		}
	}

	pos := 8
	for i, d := range dirs {
		if !present(i) {
			continue
		}
		d.offset = pos
		pos += dirSize(d.entries)
	}

	patch := func(entries []ifdEntry, tag uint16, offset int) {
		for i, e := range entries {
			if e.tag == tag && e.raw == nil {
				entries[i] = tb.long(tag, uint32(offset))
			}
		}
	}
	patch(ifd0, tagExifIFDPointer, dirs[1].offset)
	patch(ifd0, tagGPSInfoIFDPointer, dirs[2].offset)
	patch(exif, tagInteropIFDPointer, dirs[3].offset)

	var data bytes.Buffer
	dataStart := pos

	out := make([]byte, pos)
	if tb.order == binary.LittleEndian {
		copy(out, "II")
	} else {
		copy(out, "MM")
	}
	magic := uint16(tiffMagic)
	if tb.magic != 0 {
		magic = tb.magic
	}
	tb.order.PutUint16(out[2:], magic)
	tb.order.PutUint32(out[4:], 8)

	for i, d := range dirs {
		if !present(i) {
			continue
		}
		p := d.offset
		tb.order.PutUint16(out[p:], uint16(len(d.entries)))
		for j, e := range d.entries {
			ep := p + 2 + entrySize*j
			tb.order.PutUint16(out[ep:], e.tag)
			tb.order.PutUint16(out[ep+2:], e.typ)
			tb.order.PutUint32(out[ep+4:], e.count)
			switch {
			case e.raw != nil:
				copy(out[ep+8:ep+12], e.raw[:])
			case len(e.data) <= 4 && !exifTypeOf(e.typ).alwaysOffset():
				copy(out[ep+8:ep+12], e.data)
			default:
				tb.order.PutUint32(out[ep+8:], uint32(dataStart+data.Len()))
				data.Write(e.data)
				if data.Len()%2 != 0 {
					data.WriteByte(0)
				}
			}
		}
		next := p + 2 + entrySize*len(d.entries)
		if i == 0 && tb.ifd1 != nil {
			tb.order.PutUint32(out[next:], uint32(dirs[4].offset))
		}
	}

	return append(out, data.Bytes()...)
}

// Absolute offset of the TIFF header in files built by jpegWithEXIF.
const testAnchor = 12

// jpegWithEXIF wraps tiff in a minimal JPEG: SOI, APP1, extra segments, DQT, SOS,
// entropy coded data with a stuffed byte and a restart marker, and EOI.
func jpegWithEXIF(tiff []byte, extra ...[]byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xff, markerSOI})
	if tiff != nil {
		b.Write(segment(markerAPP1, append([]byte("Exif\x00\x00"), tiff...)))
	}
	for _, e := range extra {
		b.Write(e)
	}
	b.Write(segment(0xdb, make([]byte, 65)))
	b.Write(segment(markerSOS, make([]byte, 10)))
	b.Write([]byte{0x12, 0xff, 0x00, 0x34, 0xff, markerRST0, 0x56})
	b.Write([]byte{0xff, markerEOI})
	return b.Bytes()
}

// segment returns a marker segment with the given payload.
func segment(marker byte, payload []byte) []byte {
	b := []byte{0xff, marker, 0, 0}
	binary.BigEndian.PutUint16(b[2:], uint16(len(payload)+2))
	return append(b, payload...)
}

type iptcTestRecord struct {
	record, dataset uint8
	value           []byte
}

// app13 returns an APP13 segment with one IPTC resource holding records.
func app13(records ...iptcTestRecord) []byte {
	var iptc bytes.Buffer
	for _, r := range records {
		iptc.Write([]byte{iptcTagMarker, r.record, r.dataset, 0, 0})
		binary.BigEndian.PutUint16(iptc.Bytes()[iptc.Len()-2:], uint16(len(r.value)))
		iptc.Write(r.value)
	}

	var b bytes.Buffer
	b.Write(photoshopHeader)
	// A resource that is not IPTC, with an odd name length.
	b.WriteString("8BIM")
	b.Write([]byte{0x04, 0x25, 3, 'a', 'b', 'c', 0, 0, 0, 2, 0xaa, 0xbb})
	b.WriteString("8BIM")
	b.Write([]byte{0x04, 0x04, 0, 0})
	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(iptc.Len()))
	b.Write(size)
	b.Write(iptc.Bytes())
	if iptc.Len()%2 != 0 {
		b.WriteByte(0)
	}
	return segment(markerAPP13, b.Bytes())
}

// sampleTIFF returns a little endian TIFF with all directory kinds.
func sampleTIFF() *tiffBuilder {
	tb := newTIFFBuilder(binary.LittleEndian)
	tb.ifd0 = []ifdEntry{
		tb.ascii(0x010f, "Canon"),
		tb.ascii(0x0110, "Canon EOS 5D"),
		tb.short(0x0112, 1),
		tb.rational(0x011a, 72, 1),
		tb.rational(0x011b, 72, 1),
		tb.short(0x0128, 2),
		tb.ascii(0x0132, "2024:05:01 12:00:00"),
		tb.short(0x0213, 1),
	}
	tb.exif = []ifdEntry{
		tb.rational(0x829a, 1, 200),
		tb.rational(0x829d, 56, 10),
		tb.undefined(0x9000, []byte("0232")),
		tb.ascii(0x9003, "2024:05:01 12:00:00"),
		tb.undefined(0x9101, []byte{1, 2, 3, 0}),
		tb.srational(0x9204, -1, 3),
		tb.short(0x9209, 16),
		tb.rational(0x920a, 21, 1),
		tb.undefined(0x927c, make([]byte, 64)),
		tb.undefined(0xa000, []byte("0100")),
		tb.short(0xa001, 1),
		tb.long(0xa002, 4000),
		tb.long(0xa003, 3000),
	}
	tb.gps = []ifdEntry{
		{tag: 0x00, typ: uint16(TypeByte), count: 4, data: []byte{2, 3, 0, 0}},
		tb.ascii(0x01, "N"),
		tb.rational(0x02, 36, 1, 30, 1, 0, 1),
		tb.ascii(0x03, "W"),
		tb.rational(0x04, 4, 1, 42, 1, 0, 1),
	}
	tb.interop = []ifdEntry{
		tb.ascii(0x0001, "R98"),
		tb.undefined(0x0002, []byte("0100")),
	}
	tb.ifd1 = []ifdEntry{
		tb.short(0x0103, 6),
		tb.long(0x0201, 0),
		tb.long(0x0202, 0),
	}
	return tb
}

func writeTestFile(t testing.TB, dir, name string, b []byte) string {
	t.Helper()
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}
