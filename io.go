// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// byteView is a read-only view over an image buffer.
// Every read is bounds checked; an out of bounds read returns an error
// wrapping errOverrun instead of panicking.
// The zero byte order is big endian.
type byteView struct {
	b         []byte
	byteOrder binary.ByteOrder
}

func newByteView(b []byte) byteView {
	return byteView{b: b, byteOrder: binary.BigEndian}
}

// withByteOrder returns a copy of v reading multi-byte values in the given order.
func (v byteView) withByteOrder(order binary.ByteOrder) byteView {
	v.byteOrder = order
	return v
}

func (v byteView) order() binary.ByteOrder {
	if v.byteOrder == nil {
		return binary.BigEndian
	}
	return v.byteOrder
}

func (v byteView) size() int {
	return len(v.b)
}

func (v byteView) inBounds(pos, n int) bool {
	return pos >= 0 && n >= 0 && pos <= len(v.b) && n <= len(v.b)-pos
}

// slice returns the n bytes starting at pos.
// The returned slice shares memory with the underlying buffer and must not be modified.
func (v byteView) slice(pos, n int) ([]byte, error) {
	if !v.inBounds(pos, n) {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, size %d", errOverrun, n, pos, len(v.b))
	}
	return v.b[pos : pos+n], nil
}

func (v byteView) read1(pos int) (uint8, error) {
	b, err := v.slice(pos, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (v byteView) read2(pos int) (uint16, error) {
	b, err := v.slice(pos, 2)
	if err != nil {
		return 0, err
	}
	return v.order().Uint16(b), nil
}

func (v byteView) read4(pos int) (uint32, error) {
	b, err := v.slice(pos, 4)
	if err != nil {
		return 0, err
	}
	return v.order().Uint32(b), nil
}

func (v byteView) read8(pos int) (uint64, error) {
	b, err := v.slice(pos, 8)
	if err != nil {
		return 0, err
	}
	return v.order().Uint64(b), nil
}

func (v byteView) readFloat32(pos int) (float32, error) {
	u, err := v.read4(pos)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (v byteView) readFloat64(pos int) (float64, error) {
	u, err := v.read8(pos)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// index returns the absolute position of the first occurrence of sep in [from, to),
// or -1 if not present. The range is clamped to the buffer.
func (v byteView) index(sep []byte, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(v.b) {
		to = len(v.b)
	}
	if from >= to {
		return -1
	}
	i := bytes.Index(v.b[from:to], sep)
	if i < 0 {
		return -1
	}
	return from + i
}

// hasPrefixAt reports whether the bytes at pos start with prefix.
func (v byteView) hasPrefixAt(pos int, prefix []byte) bool {
	b, err := v.slice(pos, len(prefix))
	if err != nil {
		return false
	}
	return bytes.Equal(b, prefix)
}
