// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// SampleJPEG returns a JPEG with EXIF data in all directory kinds.
func SampleJPEG() []byte {
	return jpegWithEXIF(sampleTIFF().build())
}

// SampleJPEGWithIPTC returns SampleJPEG with an APP13 segment.
func SampleJPEGWithIPTC() []byte {
	return jpegWithEXIF(sampleTIFF().build(), app13(
		iptcTestRecord{1, 90, []byte("\x1b%G")},
		iptcTestRecord{2, 25, []byte("sunrise")},
		iptcTestRecord{2, 25, []byte("lake")},
		iptcTestRecord{2, 105, []byte("Jølstravatnet")},
	))
}

// SampleJPEGInvalidMagic returns a JPEG whose TIFF header has the wrong magic number.
func SampleJPEGInvalidMagic() []byte {
	tb := sampleTIFF()
	tb.magic = 0x2b
	return jpegWithEXIF(tb.build())
}

// SamplePNG returns a PNG with the sample EXIF data in an eXIf chunk.
func SamplePNG() []byte {
	var b bytes.Buffer
	b.Write(pngSignature)
	writeChunk := func(typ string, data []byte) {
		var hdr [8]byte
		binary.BigEndian.PutUint32(hdr[:], uint32(len(data)))
		copy(hdr[4:], typ)
		b.Write(hdr[:])
		b.Write(data)
		crc := crc32.NewIEEE()
		crc.Write(hdr[4:])
		crc.Write(data)
		b.Write(binary.BigEndian.AppendUint32(nil, crc.Sum32()))
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr, 1)
	binary.BigEndian.PutUint32(ihdr[4:], 1)
	ihdr[8] = 8
	writeChunk("IHDR", ihdr)
	writeChunk(pngChunkEXIF, sampleTIFF().build())
	writeChunk(pngChunkIEND, nil)
	return b.Bytes()
}
