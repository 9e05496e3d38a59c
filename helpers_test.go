// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"encoding"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestStringer(t *testing.T) {
	c := qt.New(t)

	var source Source
	c.Assert(EXIF.String(), qt.Equals, "EXIF")
	c.Assert(IPTC.String(), qt.Equals, "IPTC")
	c.Assert(ModeComplete.String(), qt.Equals, "EXIF|IPTC|SEGMENTS|FILEINFO")
	c.Assert(source.String(), qt.Equals, "Source(0)")

	var imageFormatAuto ImageFormat
	var imageFormat42 ImageFormat = 42
	c.Assert(JPEG.String(), qt.Equals, "JPEG")
	c.Assert(PNG.String(), qt.Equals, "PNG")
	c.Assert(imageFormatAuto.String(), qt.Equals, "ImageFormatAuto")
	c.Assert(imageFormat42.String(), qt.Equals, "ImageFormat(42)")

	c.Assert(TypeRational.String(), qt.Equals, "RATIONAL")
	c.Assert(TypeUTF8.String(), qt.Equals, "UTF-8")
	c.Assert(ExifType(42).String(), qt.Equals, "ExifType(42)")

	c.Assert(GPSIFD.String(), qt.Equals, "GPS")
	c.Assert(DirectoryKind(9).String(), qt.Equals, "DirectoryKind(9)")
	c.Assert(SupportJPEGMarker.String(), qt.Equals, "J")
	c.Assert(SupportUnknown.String(), qt.Equals, "U")
	c.Assert(LittleEndian.String(), qt.Equals, "little")
}

func TestRat(t *testing.T) {
	c := qt.New(t)

	c.Run("String", func(c *qt.C) {
		c.Assert(Rat{1, 2}.String(), qt.Equals, "1/2")
		c.Assert(Rat{10, 20}.String(), qt.Equals, "10/20")
		c.Assert(Rat{-1, 3}.String(), qt.Equals, "-1/3")
		c.Assert(Rat{5, 0}.String(), qt.Equals, "5/1")
	})

	c.Run("Float64", func(c *qt.C) {
		c.Assert(Rat{1, 4}.Float64(), qt.Equals, 0.25)
		c.Assert(Rat{7, 0}.Float64(), qt.Equals, 7.0)
	})

	c.Run("Text", func(c *qt.C) {
		var _ encoding.TextMarshaler = Rat{}

		text, err := Rat{3, 4}.MarshalText()
		c.Assert(err, qt.IsNil)
		c.Assert(string(text), qt.Equals, "3/4")

		var r Rat
		c.Assert(r.UnmarshalText([]byte("-3/4")), qt.IsNil)
		c.Assert(r, qt.Equals, Rat{-3, 4})
		c.Assert(r.UnmarshalText([]byte("42")), qt.IsNil)
		c.Assert(r, qt.Equals, Rat{42, 1})
		c.Assert(r.UnmarshalText([]byte("a/b")), qt.IsNotNil)
	})
}

func TestDecodeText(t *testing.T) {
	c := qt.New(t)

	c.Assert(decodeText([]byte("Canon\x00garbage")), qt.Equals, "Canon")
	c.Assert(decodeText([]byte("Jølster")), qt.Equals, "Jølster")
	c.Assert(decodeText([]byte{'a', 0xff, 'b'}), qt.Equals, "a�b")
	c.Assert(decodeText(nil), qt.Equals, "")
}

func TestTrimBytesNulls(t *testing.T) {
	c := qt.New(t)

	c.Assert(string(trimBytesNulls([]byte("\x00\x00ab\x00"))), qt.Equals, "ab")
	c.Assert(trimBytesNulls([]byte{0, 0}), qt.IsNil)
}

func BenchmarkDecodeText(b *testing.B) {
	runBench := func(b *testing.B, name string, s []byte) {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = decodeText(s)
			}
		})
	}

	runBench(b, "ASCII", []byte("Hello, World!\x00"))
	runBench(b, "UTF-8", []byte("Hello, 世界!"))
	runBench(b, "Invalid", []byte("Hello, \xffWorld!"))
}
