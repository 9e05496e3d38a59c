// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"fmt"
	"slices"
	"strings"
)

// DirectoryKind identifies one of the directories of an EXIF segment.
type DirectoryKind int

const (
	// IFD0 is the 0th IFD describing the main image.
	IFD0 DirectoryKind = iota
	// IFD1 is the 1st IFD describing the thumbnail.
	IFD1
	// ExifIFD is the EXIF private directory.
	ExifIFD
	// GPSIFD is the GPS Info directory.
	GPSIFD
	// InteropIFD is the Interoperability directory.
	InteropIFD
)

var directoryKindNames = [...]string{"IFD0", "IFD1", "EXIF", "GPS", "Interop"}

func (k DirectoryKind) String() string {
	if k < 0 || int(k) >= len(directoryKindNames) {
		return fmt.Sprintf("DirectoryKind(%d)", int(k))
	}
	return directoryKindNames[k]
}

func (k DirectoryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SupportLevel is the documented recording obligation of a tag.
// The zero value is SupportUnknown.
type SupportLevel uint8

const (
	// SupportUnknown means no support level is documented (U).
	SupportUnknown SupportLevel = iota
	// SupportMandatory (M).
	SupportMandatory
	// SupportRecommended (R).
	SupportRecommended
	// SupportOptional (O).
	SupportOptional
	// SupportNotRecorded (N).
	SupportNotRecorded
	// SupportJPEGMarker means the information is carried by a JPEG marker and must not be recorded (J).
	SupportJPEGMarker
)

const supportLevelLetters = "UMRONJ"

func (l SupportLevel) String() string {
	if int(l) >= len(supportLevelLetters) {
		return fmt.Sprintf("SupportLevel(%d)", l)
	}
	return supportLevelLetters[l : l+1]
}

func (l SupportLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// CompressionMode selects which column of the support level tables applies.
type CompressionMode int

const (
	// Compressed is the JPEG compressed mode and the default.
	Compressed CompressionMode = iota
	// UncompressedChunky is uncompressed RGB, chunky format.
	UncompressedChunky
	// UncompressedPlanar is uncompressed RGB, planar format.
	UncompressedPlanar
	// UncompressedYCC is uncompressed YCbCr.
	UncompressedYCC
)

func (m CompressionMode) String() string {
	switch m {
	case Compressed:
		return "compressed"
	case UncompressedChunky:
		return "chunky"
	case UncompressedPlanar:
		return "planar"
	case UncompressedYCC:
		return "ycc"
	default:
		return fmt.Sprintf("CompressionMode(%d)", int(m))
	}
}

// ParseCompressionMode parses the names returned by CompressionMode.String.
func ParseCompressionMode(s string) (CompressionMode, error) {
	switch strings.ToLower(s) {
	case "", "compressed":
		return Compressed, nil
	case "chunky":
		return UncompressedChunky, nil
	case "planar":
		return UncompressedPlanar, nil
	case "ycc":
		return UncompressedYCC, nil
	}
	return Compressed, fmt.Errorf("unknown compression mode %q", s)
}

// SupportLevels holds one support level per compression mode.
type SupportLevels [4]SupportLevel

// For returns the support level for the given mode.
func (s SupportLevels) For(mode CompressionMode) SupportLevel {
	if mode < 0 || int(mode) >= len(s) {
		return SupportUnknown
	}
	return s[mode]
}

// CountSpec is the expected value count of a tag.
type CountSpec struct {
	Any    bool
	Values []uint32
}

// Matches reports whether n is an acceptable count.
func (c CountSpec) Matches(n uint32) bool {
	return c.Any || slices.Contains(c.Values, n)
}

func (c CountSpec) String() string {
	if c.Any {
		return "Any"
	}
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "|")
}

func (c CountSpec) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// TagDef describes a registered tag.
type TagDef struct {
	ID      uint16
	Name    string
	Types   []ExifType
	Count   CountSpec
	Support SupportLevels
}

// TypeMatches reports whether t is one of the expected types.
func (d TagDef) TypeMatches(t ExifType) bool {
	return slices.Contains(d.Types, t)
}

type tagTable struct {
	byID     map[uint16]*TagDef
	defs     []TagDef
	baseline []uint16
}

func newTagTable(defs []TagDef) *tagTable {
	t := &tagTable{
		byID: make(map[uint16]*TagDef, len(defs)),
		defs: defs,
	}
	for i := range t.defs {
		d := &t.defs[i]
		if _, found := t.byID[d.ID]; found {
			panic(fmt.Sprintf("duplicate tag 0x%04x (%s)", d.ID, d.Name))
		}
		t.byID[d.ID] = d
		t.baseline = append(t.baseline, d.ID)
	}
	slices.Sort(t.baseline)
	return t
}

// Built once at init and never mutated after.
var tagTables [len(directoryKindNames)]*tagTable

func tableFor(kind DirectoryKind) *tagTable {
	if kind < 0 || int(kind) >= len(tagTables) {
		return nil
	}
	return tagTables[kind]
}

func lookupTag(kind DirectoryKind, id uint16) *TagDef {
	t := tableFor(kind)
	if t == nil {
		return nil
	}
	return t.byID[id]
}

// LookupTag returns the registered definition of the tag id in the given directory.
func LookupTag(kind DirectoryKind, id uint16) (TagDef, bool) {
	d := lookupTag(kind, id)
	if d == nil {
		return TagDef{}, false
	}
	return *d, true
}

// TagDefs returns the registered tags of the given directory in declaration order.
func TagDefs(kind DirectoryKind) []TagDef {
	t := tableFor(kind)
	if t == nil {
		return nil
	}
	return slices.Clone(t.defs)
}

// Baseline returns the registered tag ids of the given directory in ascending order.
// This is the reference order used when scoring tag order.
func Baseline(kind DirectoryKind) []uint16 {
	t := tableFor(kind)
	if t == nil {
		return nil
	}
	return slices.Clone(t.baseline)
}

// tagName returns the registered name, or a synthesized one for unknown tags.
func tagName(kind DirectoryKind, id uint16) (string, bool) {
	if d := lookupTag(kind, id); d != nil {
		return d.Name, true
	}
	return fmt.Sprintf("%s0x%04x", UnknownPrefix, id), false
}

func init() {
	tagTables[IFD0] = newTagTable(fieldsTIFF)
	tagTables[IFD1] = newTagTable(thumbnailFields())
	tagTables[ExifIFD] = newTagTable(fieldsEXIF)
	tagTables[GPSIFD] = newTagTable(fieldsGPS)
	tagTables[InteropIFD] = newTagTable(fieldsInterop)
}
