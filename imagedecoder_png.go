// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import "encoding/binary"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const (
	pngChunkEXIF = "eXIf"
	pngChunkIEND = "IEND"
)

// findPNGExif returns the payload bounds of the first eXIf chunk.
//
// The data segment of the eXIf chunk contains an Exif profile in the format specified in "4.7.2 Interoperability Structure of APP1 in Compressed Data"
// of [CIPA DC-008-2016] except that the JPEG APP1 marker, length, and the "Exif ID code" described in 4.7.2(C), i.e., "Exif", NULL, and padding byte, are not included.
func findPNGExif(b []byte) (start, end int, ok bool) {
	pos := len(pngSignature)
	for pos+8 <= len(b) {
		length := int64(binary.BigEndian.Uint32(b[pos : pos+4]))
		typ := string(b[pos+4 : pos+8])
		dataStart := pos + 8
		dataEnd := int64(dataStart) + length
		if dataEnd > int64(len(b)) {
			return 0, 0, false
		}
		switch typ {
		case pngChunkEXIF:
			return dataStart, int(dataEnd), true
		case pngChunkIEND:
			return 0, 0, false
		}
		// Skip data and CRC.
		pos = int(dataEnd) + 4
	}
	return 0, 0, false
}

type imageDecoderPNG struct {
	*baseDecoder
}

func (e *imageDecoderPNG) decode() error {
	if !e.opts.Sources.Has(EXIF) {
		return nil
	}
	start, end, ok := findPNGExif(e.b)
	if !ok {
		return nil
	}
	h := resolveTIFFHeader(newByteView(e.b), start, end, e.warnf)
	e.report.EXIF = newMetaDecoderEXIF(e.b, end, h, e.opts, e.warnf).decode()
	return nil
}
