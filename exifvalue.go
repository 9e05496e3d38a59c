// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExifType is one of the TIFF/EXIF field types.
type ExifType uint16

const (
	TypeByte      ExifType = 1
	TypeASCII     ExifType = 2
	TypeShort     ExifType = 3
	TypeLong      ExifType = 4
	TypeRational  ExifType = 5
	TypeSByte     ExifType = 6
	TypeUndefined ExifType = 7
	TypeSShort    ExifType = 8
	TypeSLong     ExifType = 9
	TypeSRational ExifType = 10
	TypeFloat     ExifType = 11
	TypeDouble    ExifType = 12
	TypeUTF8      ExifType = 129
)

var exifTypeNames = map[ExifType]string{
	TypeByte:      "BYTE",
	TypeASCII:     "ASCII",
	TypeShort:     "SHORT",
	TypeLong:      "LONG",
	TypeRational:  "RATIONAL",
	TypeSByte:     "SBYTE",
	TypeUndefined: "UNDEFINED",
	TypeSShort:    "SSHORT",
	TypeSLong:     "SLONG",
	TypeSRational: "SRATIONAL",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeUTF8:      "UTF-8",
}

// exifTypeOf maps a recorded type code to its semantic type.
// Unknown codes are treated as UNDEFINED.
func exifTypeOf(code uint16) ExifType {
	t := ExifType(code)
	if _, found := exifTypeNames[t]; found {
		return t
	}
	return TypeUndefined
}

func (t ExifType) String() string {
	if s, found := exifTypeNames[t]; found {
		return s
	}
	return fmt.Sprintf("ExifType(%d)", uint16(t))
}

func (t ExifType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Size returns the size in bytes of one unit of t.
func (t ExifType) Size() int {
	switch t {
	case TypeShort, TypeSShort:
		return 2
	case TypeLong, TypeSLong, TypeFloat:
		return 4
	case TypeRational, TypeSRational, TypeDouble:
		return 8
	default:
		return 1
	}
}

// alwaysOffset reports whether values of t are stored at an offset regardless of size.
func (t ExifType) alwaysOffset() bool {
	return t == TypeRational || t == TypeSRational || t == TypeDouble
}

// Value is a decoded tag value.
// It is one of IntValue, FloatValue, RationalValue, TextValue, BytesValue or DeferredValue.
type Value interface {
	String() string
	isValue()
}

// IntValue holds BYTE, SHORT, LONG and their signed variants.
type IntValue []int64

// FloatValue holds FLOAT and DOUBLE values.
type FloatValue []float64

// RationalValue holds RATIONAL and SRATIONAL values.
type RationalValue []Rat

// TextValue holds ASCII and UTF-8 values.
type TextValue string

// BytesValue holds UNDEFINED values. It is rendered as hex.
type BytesValue []byte

// DeferredValue marks a value that was not materialized.
// Offset is the absolute offset into the file.
type DeferredValue struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

func (IntValue) isValue()      {}
func (FloatValue) isValue()    {}
func (RationalValue) isValue() {}
func (TextValue) isValue()     {}
func (BytesValue) isValue()    {}
func (DeferredValue) isValue() {}

func (v IntValue) String() string {
	return joinValues(v)
}

func (v FloatValue) String() string {
	return joinValues(v)
}

func (v RationalValue) String() string {
	return joinValues(v)
}

// MarshalJSON renders NaN and infinities as null.
func (v FloatValue) MarshalJSON() ([]byte, error) {
	b := []byte{'['}
	for i, f := range v {
		if i > 0 {
			b = append(b, ',')
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			b = append(b, "null"...)
			continue
		}
		b = strconv.AppendFloat(b, f, 'g', -1, 64)
	}
	return append(b, ']'), nil
}

func (v TextValue) String() string {
	return string(v)
}

func (v BytesValue) String() string {
	return hex.EncodeToString(v)
}

func (v BytesValue) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v DeferredValue) String() string {
	return fmt.Sprintf("deferred(offset=%d, length=%d)", v.Offset, v.Length)
}

func joinValues[T any](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

// DirectoryEntry is the raw 12 byte record of a directory entry.
type DirectoryEntry struct {
	Tag        uint16
	Type       uint16
	Count      uint32
	ValueField [4]byte
}

// DecodedTag is a directory entry with its decoded value.
type DecodedTag struct {
	ID   uint16
	Name string
	// Known is false for tags not found in the registry.
	Known bool

	// The type code and count as recorded in the file.
	RecordedType uint16
	Type         ExifType
	Count        uint32

	// The expected types and count from the registry.
	ExpectedTypes []ExifType
	ExpectedCount CountSpec
	Support       SupportLevels

	// Value is nil when the value could not be read.
	Value Value

	// Inline is set when the value was stored in the entry itself.
	Inline bool
	// Offset is the absolute offset of the directory entry.
	Offset int
	// ValueOffset is the absolute offset of the value.
	ValueOffset int
	// Order is the position of the entry within its directory.
	Order int

	// OutOfBounds is set when the value pointed outside the buffer.
	OutOfBounds bool
}

// TypeMatches reports whether the recorded type is one of the expected types.
func (t DecodedTag) TypeMatches() bool {
	for _, e := range t.ExpectedTypes {
		if uint16(e) == t.RecordedType {
			return true
		}
	}
	return false
}

// CountMatches reports whether the recorded count is acceptable.
func (t DecodedTag) CountMatches() bool {
	return t.ExpectedCount.Matches(t.Count)
}

type valueDecoder struct {
	v      byteView
	anchor int
	// Values larger than these are deferred.
	deferThreshold int
	limitTagSize   int
}

// decode decodes the value of e, which is located at entryPos.
func (d valueDecoder) decode(e DirectoryEntry, entryPos int, def *TagDef) (DecodedTag, error) {
	typ := exifTypeOf(e.Type)
	tag := DecodedTag{
		ID:           e.Tag,
		RecordedType: e.Type,
		Type:         typ,
		Count:        e.Count,
		Offset:       entryPos,
	}
	if def != nil {
		tag.Name = def.Name
		tag.Known = true
		tag.ExpectedTypes = def.Types
		tag.ExpectedCount = def.Count
		tag.Support = def.Support
	}

	total := uint64(e.Count) * uint64(typ.Size())

	if total <= 4 && !typ.alwaysOffset() {
		tag.Inline = true
		tag.ValueOffset = entryPos + 8
		val, err := d.decodeUnits(newByteView(e.ValueField[:int(total)]).withByteOrder(d.v.order()), 0, typ, int(e.Count))
		if err != nil {
			return tag, err
		}
		tag.Value = val
		return tag, nil
	}

	raw := d.v.order().Uint32(e.ValueField[:])
	pos := d.anchor + int(raw)
	tag.ValueOffset = pos

	if total > uint64(d.v.size()) || !d.v.inBounds(pos, int(total)) {
		tag.OutOfBounds = true
		return tag, fmt.Errorf("%w: value of tag 0x%04x needs %d bytes at offset %d", errOverrun, e.Tag, total, pos)
	}

	n := int(total)
	if (typ == TypeUndefined && n > d.deferThreshold) || (d.limitTagSize > 0 && n > d.limitTagSize) {
		tag.Value = DeferredValue{Offset: pos, Length: n}
		return tag, nil
	}

	val, err := d.decodeUnits(d.v, pos, typ, int(e.Count))
	if err != nil {
		tag.OutOfBounds = true
		return tag, err
	}
	tag.Value = val
	return tag, nil
}

// decodeUnits decodes count units of typ starting at pos in v.
func (d valueDecoder) decodeUnits(v byteView, pos int, typ ExifType, count int) (Value, error) {
	size := typ.Size()

	switch typ {
	case TypeASCII, TypeUTF8:
		b, err := v.slice(pos, count)
		if err != nil {
			return nil, err
		}
		return TextValue(decodeText(b)), nil
	case TypeUndefined:
		b, err := v.slice(pos, count)
		if err != nil {
			return nil, err
		}
		return BytesValue(append([]byte(nil), b...)), nil
	case TypeRational, TypeSRational:
		vals := make(RationalValue, count)
		for i := range vals {
			num, err := v.read4(pos + i*size)
			if err != nil {
				return nil, err
			}
			den, err := v.read4(pos + i*size + 4)
			if err != nil {
				return nil, err
			}
			if typ == TypeSRational {
				vals[i] = Rat{Num: int64(int32(num)), Den: int64(int32(den))}
			} else {
				vals[i] = Rat{Num: int64(num), Den: int64(den)}
			}
		}
		return vals, nil
	case TypeFloat, TypeDouble:
		vals := make(FloatValue, count)
		for i := range vals {
			if typ == TypeFloat {
				f, err := v.readFloat32(pos + i*size)
				if err != nil {
					return nil, err
				}
				vals[i] = float64(f)
			} else {
				f, err := v.readFloat64(pos + i*size)
				if err != nil {
					return nil, err
				}
				vals[i] = f
			}
		}
		return vals, nil
	default:
		vals := make(IntValue, count)
		for i := range vals {
			p := pos + i*size
			switch typ {
			case TypeByte:
				b, err := v.read1(p)
				if err != nil {
					return nil, err
				}
				vals[i] = int64(b)
			case TypeSByte:
				b, err := v.read1(p)
				if err != nil {
					return nil, err
				}
				vals[i] = int64(int8(b))
			case TypeShort:
				u, err := v.read2(p)
				if err != nil {
					return nil, err
				}
				vals[i] = int64(u)
			case TypeSShort:
				u, err := v.read2(p)
				if err != nil {
					return nil, err
				}
				vals[i] = int64(int16(u))
			case TypeLong:
				u, err := v.read4(p)
				if err != nil {
					return nil, err
				}
				vals[i] = int64(u)
			case TypeSLong:
				u, err := v.read4(p)
				if err != nil {
					return nil, err
				}
				vals[i] = int64(int32(u))
			}
		}
		return vals, nil
	}
}
