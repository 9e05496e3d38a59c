// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"encoding/binary"
)

// A directory entry is represented in 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the data type
//   - 4 bytes for the number of values of the specified type
//   - 4 bytes for the value itself, if it fits, otherwise an offset relative to the anchor;
//     this could be a pointer to the beginning of another IFD.
const entrySize = 12

// Pointer tags and the directory kind they point to, per parent directory.
var subIFDPointers = map[DirectoryKind]map[uint16]DirectoryKind{
	IFD0: {
		tagExifIFDPointer:    ExifIFD,
		tagGPSInfoIFDPointer: GPSIFD,
	},
	ExifIFD: {
		tagInteropIFDPointer: InteropIFD,
	},
}

// SubIFDPointer is a resolved pointer to a sub directory.
type SubIFDPointer struct {
	Kind DirectoryKind
	Tag  uint16
	// Offset is the absolute offset of the sub directory.
	Offset int
	// EntryCount is the entry count read at Offset, -1 if it could not be read.
	EntryCount int
}

// Directory is a decoded IFD.
type Directory struct {
	Kind       DirectoryKind
	Offset     int
	EntryCount int
	// Tags in the order they were recorded.
	Tags []DecodedTag
	// NextIFD is the absolute offset of the next IFD, 0 if none.
	NextIFD int
	SubIFDs []SubIFDPointer
	// Partial is set when the directory could not be read to the end.
	Partial bool
}

// Tag returns the first tag with the given name.
func (d *Directory) Tag(name string) (DecodedTag, bool) {
	for _, t := range d.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return DecodedTag{}, false
}

// TagByID returns the first tag with the given id.
func (d *Directory) TagByID(id uint16) (DecodedTag, bool) {
	for _, t := range d.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return DecodedTag{}, false
}

// EXIFData is the decoded EXIF segment.
type EXIFData struct {
	Header      TIFFHeader
	Directories []*Directory
}

// Directory returns the directory of the given kind, nil if not present.
func (e *EXIFData) Directory(kind DirectoryKind) *Directory {
	if e == nil {
		return nil
	}
	for _, d := range e.Directories {
		if d.Kind == kind {
			return d
		}
	}
	return nil
}

// Tag looks up a tag by name in the directory of the given kind.
func (e *EXIFData) Tag(kind DirectoryKind, name string) (DecodedTag, bool) {
	d := e.Directory(kind)
	if d == nil {
		return DecodedTag{}, false
	}
	return d.Tag(name)
}

// Thumbnail returns the absolute offset and length of the JPEG thumbnail
// referenced by the 1st IFD.
func (e *EXIFData) Thumbnail() (offset, length int, ok bool) {
	d := e.Directory(IFD1)
	if d == nil {
		return 0, 0, false
	}
	o, found := d.TagByID(0x0201)
	if !found {
		return 0, 0, false
	}
	l, found := d.TagByID(0x0202)
	if !found {
		return 0, 0, false
	}
	ov, ok1 := o.Value.(IntValue)
	lv, ok2 := l.Value.(IntValue)
	if !ok1 || !ok2 || len(ov) == 0 || len(lv) == 0 {
		return 0, 0, false
	}
	return e.Header.Anchor + int(ov[0]), int(lv[0]), true
}

type metaDecoderEXIF struct {
	v      byteView
	header TIFFHeader
	values valueDecoder
	opts   Options
	warnf  func(string, ...any)

	visited map[int]bool
	numTags uint32
}

// newMetaDecoderEXIF creates a decoder for the segment ending at end.
// Reads past end are treated as out of bounds.
func newMetaDecoderEXIF(b []byte, end int, h TIFFHeader, opts Options, warnf func(string, ...any)) *metaDecoderEXIF {
	v := byteView{b: b[:min(end, len(b))], byteOrder: h.Endianness.ByteOrder()}
	return &metaDecoderEXIF{
		v:      v,
		header: h,
		values: valueDecoder{
			v:              v,
			anchor:         h.Anchor,
			deferThreshold: opts.DeferThreshold,
			limitTagSize:   int(opts.LimitTagSize),
		},
		opts:    opts,
		warnf:   warnf,
		visited: make(map[int]bool),
	}
}

// decode walks IFD0 and every directory reachable from it.
// Each directory is walked on its own; a failure in one does not affect the others.
func (e *metaDecoderEXIF) decode() *EXIFData {
	data := &EXIFData{Header: e.header}
	if e.header.NonEXIF || e.header.Truncated {
		return data
	}

	type job struct {
		kind   DirectoryKind
		offset int
	}

	queue := []job{{IFD0, e.header.FirstIFD()}}
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]

		dir := e.walkDirectory(j.kind, j.offset)
		if dir == nil {
			continue
		}
		data.Directories = append(data.Directories, dir)

		for _, p := range dir.SubIFDs {
			if p.EntryCount >= 0 {
				queue = append(queue, job{p.Kind, p.Offset})
			}
		}
		if dir.Kind == IFD0 && dir.NextIFD != 0 {
			queue = append(queue, job{IFD1, dir.NextIFD})
		}
	}

	return data
}

func (e *metaDecoderEXIF) walkDirectory(kind DirectoryKind, start int) (dir *Directory) {
	defer func() {
		if r := recover(); r != nil {
			e.warnf("exif: %s directory at offset %d: %v", kind, start, r)
			if dir != nil {
				dir.Partial = true
			}
		}
	}()

	if e.visited[start] {
		e.warnf("exif: %s directory at offset %d already visited", kind, start)
		return nil
	}
	e.visited[start] = true

	count, err := e.v.read2(start)
	if err != nil {
		e.warnf("exif: %s directory not reachable: %v", kind, err)
		return nil
	}

	dir = &Directory{
		Kind:       kind,
		Offset:     start,
		EntryCount: int(count),
	}

	order := e.v.order()

	for i := range int(count) {
		if e.numTags >= e.opts.LimitNumTags {
			e.warnf("exif: tag limit %d reached", e.opts.LimitNumTags)
			dir.Partial = true
			return dir
		}

		pos := start + 2 + entrySize*i
		rec, err := e.v.slice(pos, entrySize)
		if err != nil {
			e.warnf("exif: %s directory entry %d: %v", kind, i, err)
			dir.Partial = true
			return dir
		}
		e.numTags++

		entry := DirectoryEntry{
			Tag:   order.Uint16(rec[0:2]),
			Type:  order.Uint16(rec[2:4]),
			Count: order.Uint32(rec[4:8]),
		}
		copy(entry.ValueField[:], rec[8:12])

		tag, err := e.values.decode(entry, pos, lookupTag(kind, entry.Tag))
		if err != nil {
			e.warnf("exif: %s directory: %v", kind, err)
		}
		if !tag.Known {
			tag.Name, _ = tagName(kind, entry.Tag)
		}
		tag.Order = i
		dir.Tags = append(dir.Tags, tag)

		if subKind, found := subIFDPointers[kind][entry.Tag]; found {
			dir.SubIFDs = append(dir.SubIFDs, e.resolveSubIFD(subKind, entry, tag, order))
		}
	}

	if kind == IFD0 {
		next, err := e.v.read4(start + 2 + entrySize*int(count))
		if err != nil {
			e.warnf("exif: no next IFD pointer after IFD0: %v", err)
			return dir
		}
		if next != 0 {
			abs := e.header.Anchor + int(next)
			if e.v.inBounds(abs, 2) {
				dir.NextIFD = abs
			} else {
				e.warnf("exif: next IFD offset %d out of bounds", abs)
			}
		}
	}

	return dir
}

func (e *metaDecoderEXIF) resolveSubIFD(kind DirectoryKind, entry DirectoryEntry, tag DecodedTag, order binary.ByteOrder) SubIFDPointer {
	raw := order.Uint32(entry.ValueField[:])
	if iv, ok := tag.Value.(IntValue); ok && len(iv) > 0 && tag.Inline {
		raw = uint32(iv[0])
	}
	p := SubIFDPointer{
		Kind:       kind,
		Tag:        entry.Tag,
		Offset:     e.header.Anchor + int(raw),
		EntryCount: -1,
	}
	n, err := e.v.read2(p.Offset)
	if err != nil {
		e.warnf("exif: %s directory at offset %d not reachable: %v", kind, p.Offset, err)
		return p
	}
	p.EntryCount = int(n)
	return p
}
