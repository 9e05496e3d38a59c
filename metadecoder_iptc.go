// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	photoshopHeader = []byte("Photoshop 3.0\x00")
	resourceMarker  = []byte("8BIM")
)

var iptcRecordNames = map[uint8]string{
	1:   "IPTCEnvelope",
	2:   "IPTCApplication",
	3:   "IPTCNewsPhoto",
	7:   "IPTCPreObjectData",
	8:   "IPTCObjectData",
	9:   "IPTCPostObjectData",
	240: "IPTCFotoStation",
}

const (
	iptcCodedCharacterSet = 90
	iptcMetaDataBlockID   = 0x0404
	iptcTagMarker         = 0x1c
)

const (
	iptcFormatString = "string"
	iptcFormatShort  = "short"
	iptcFormatBinary = "binary"
)

const (
	characterSetUTF8     = "UTF-8"
	characterSetISO88591 = "ISO-8859-1"
)

type iptcField struct {
	Name       string
	Repeatable bool
	Format     string
}

// IPTCRecord is one IPTC dataset.
type IPTCRecord struct {
	Record     uint8
	Dataset    uint8
	Name       string
	RecordName string
	// Known is false for datasets not in the IPTC tables.
	Known      bool
	Repeatable bool
	// Offset is the absolute offset of the 0x1C tag marker.
	Offset int
	// Length is the length of the value in bytes.
	Length int
	// Value is the decoded text; binary values are rendered as hex.
	Value string
	Order int
}

// IPTCData holds the IPTC records of an APP13 segment.
type IPTCData struct {
	Records []IPTCRecord
	// Charset is the resolved coded character set, empty if not declared.
	Charset string
	// Truncated is set when a resource or record ran past the segment.
	Truncated bool
}

// Get returns the first record with the given name.
func (d *IPTCData) Get(name string) (IPTCRecord, bool) {
	if d == nil {
		return IPTCRecord{}, false
	}
	for _, r := range d.Records {
		if r.Name == name {
			return r, true
		}
	}
	return IPTCRecord{}, false
}

// Values returns the values of all records with the given name, in order.
func (d *IPTCData) Values(name string) []string {
	if d == nil {
		return nil
	}
	var vals []string
	for _, r := range d.Records {
		if r.Name == name {
			vals = append(vals, r.Value)
		}
	}
	return vals
}

type metaDecoderIPTC struct {
	v     byteView
	end   int
	data  *IPTCData
	warnf func(string, ...any)
}

// decodeIPTC decodes the Photoshop image resources in v[start:end].
// It returns nil if no resource block is found.
func decodeIPTC(v byteView, start, end int, warnf func(string, ...any)) *IPTCData {
	end = min(end, v.size())
	e := &metaDecoderIPTC{
		v:     byteView{b: v.b[:end], byteOrder: binary.BigEndian},
		end:   end,
		data:  &IPTCData{},
		warnf: warnf,
	}
	if !e.decodeBlocks(start) {
		return nil
	}
	return e.data
}

// decodeBlocks decodes the resource blocks starting with 8BIM.
func (e *metaDecoderIPTC) decodeBlocks(pos int) bool {
	if e.v.hasPrefixAt(pos, photoshopHeader) {
		pos += len(photoshopHeader)
	}

	found := false
	for {
		i := e.v.index(resourceMarker, pos, e.end)
		if i < 0 {
			return found
		}
		found = true

		next, ok := e.decodeBlock(i)
		if !ok {
			e.data.Truncated = true
			return found
		}
		pos = next
	}
}

// decodeBlock decodes the resource at pos and returns the offset after it.
func (e *metaDecoderIPTC) decodeBlock(pos int) (int, bool) {
	id, err := e.v.read2(pos + 4)
	if err != nil {
		e.warnf("iptc: truncated resource header at offset %d", pos)
		return 0, false
	}
	nameLength, err := e.v.read1(pos + 6)
	if err != nil {
		e.warnf("iptc: truncated resource header at offset %d", pos)
		return 0, false
	}
	// Pascal string including its length byte, padded to even length.
	nameTotal := 1 + int(nameLength)
	if nameTotal%2 != 0 {
		nameTotal++
	}
	sizePos := pos + 6 + nameTotal
	size, err := e.v.read4(sizePos)
	if err != nil {
		e.warnf("iptc: truncated resource header at offset %d", pos)
		return 0, false
	}

	dataStart := sizePos + 4
	if int64(dataStart)+int64(size) > int64(e.end) {
		e.warnf("iptc: resource 0x%04x at offset %d runs past the segment", id, pos)
		if id == iptcMetaDataBlockID {
			e.decodeRecords(dataStart, e.end)
		}
		return 0, false
	}
	dataEnd := dataStart + int(size)

	if id == iptcMetaDataBlockID {
		e.decodeRecords(dataStart, dataEnd)
	}

	if size%2 != 0 {
		dataEnd++
	}
	return dataEnd, true
}

// decodeRecords decodes the datasets delimited by 0x1C in [pos, end).
func (e *metaDecoderIPTC) decodeRecords(pos, end int) {
	for pos < end {
		marker, _ := e.v.read1(pos)
		if marker != iptcTagMarker {
			pos++
			continue
		}
		hdr, err := e.v.slice(pos, 5)
		if err != nil || pos+5 > end {
			e.warnf("iptc: truncated record at offset %d", pos)
			e.data.Truncated = true
			return
		}
		record, dataset := hdr[1], hdr[2]
		length := int(binary.BigEndian.Uint16(hdr[3:5]))
		valStart := pos + 5

		if length&0x8000 != 0 {
			// Extended dataset, the low bits give the size of the length field.
			n := length & 0x7fff
			lb, err := e.v.slice(valStart, n)
			if err != nil || n > 4 || valStart+n > end {
				e.warnf("iptc: invalid extended record length at offset %d", pos)
				e.data.Truncated = true
				return
			}
			length = 0
			for _, b := range lb {
				length = length<<8 | int(b)
			}
			valStart += n
		}

		if valStart+length > end {
			e.warnf("iptc: record %d:%d at offset %d runs past the resource", record, dataset, pos)
			e.data.Truncated = true
			return
		}
		val, _ := e.v.slice(valStart, length)
		e.addRecord(record, dataset, pos, val)
		pos = valStart + length
	}
}

func (e *metaDecoderIPTC) addRecord(record, dataset uint8, pos int, val []byte) {
	field, known := iptcRecordFields[record][dataset]
	if !known {
		field = iptcField{
			Name:   fmt.Sprintf("%s%d_%d", UnknownPrefix, record, dataset),
			Format: iptcFormatString,
		}
	}

	r := IPTCRecord{
		Record:     record,
		Dataset:    dataset,
		Name:       field.Name,
		RecordName: iptcRecordName(record),
		Known:      known,
		Repeatable: field.Repeatable,
		Offset:     pos,
		Length:     len(val),
		Order:      len(e.data.Records),
	}

	switch field.Format {
	case iptcFormatShort:
		if len(val) == 2 {
			r.Value = strconv.Itoa(int(binary.BigEndian.Uint16(val)))
		} else {
			r.Value = hex.EncodeToString(val)
		}
	case iptcFormatBinary:
		r.Value = hex.EncodeToString(val)
	default:
		r.Value = e.decodeString(val)
	}

	if record == 1 && dataset == iptcCodedCharacterSet {
		e.data.Charset = resolveCodedCharacterSet(val)
		if e.data.Charset != "" {
			r.Value = e.data.Charset
		}
	}

	e.data.Records = append(e.data.Records, r)
}

func (e *metaDecoderIPTC) decodeString(b []byte) string {
	b = trimBytesNulls(b)
	switch {
	case e.data.Charset == characterSetUTF8:
		return strings.TrimSpace(decodeText(b))
	case e.data.Charset == "" && utf8.Valid(b):
		return strings.TrimSpace(string(b))
	default:
		s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return strings.TrimSpace(decodeText(b))
		}
		return strings.TrimSpace(string(s))
	}
}

func iptcRecordName(record uint8) string {
	name, ok := iptcRecordNames[record]
	if !ok {
		return fmt.Sprintf("IPTCUnknownRecord%d", record)
	}
	return name
}

// resolveCodedCharacterSet resolves the ISO 2022 escape sequence of the
// coded character set dataset to UTF-8 or ISO-8859-1, or an empty string if it cannot be resolved.
func resolveCodedCharacterSet(b []byte) string {
	const (
		esc           = 0x1B
		percent       = 0x25
		latinCapitalG = 0x47
		dot           = 0x2E
		latinCapitalA = 0x41
		minus         = 0x2D
	)

	if len(b) < 3 || b[0] != esc {
		return ""
	}

	switch {
	case b[1] == percent && b[2] == latinCapitalG:
		return characterSetUTF8
	case (b[1] == dot || b[1] == minus) && b[2] == latinCapitalA:
		return characterSetISO88591
	case len(b) > 4 && (b[2] == dot || b[3] == dot) && b[4] == latinCapitalA:
		return characterSetISO88591
	}

	return ""
}
