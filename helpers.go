// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"bytes"
	"encoding"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	_ encoding.TextUnmarshaler = (*Rat)(nil)
	_ encoding.TextMarshaler   = Rat{}
)

// Rat is a rational number as stored in RATIONAL and SRATIONAL tags.
// The numerator and denominator are kept exactly as recorded, no reduction is applied.
type Rat struct {
	Num int64
	Den int64
}

// Float64 returns the float64 representation of the rational number.
// A zero denominator is treated as 1.
func (r Rat) Float64() float64 {
	if r.Den == 0 {
		return float64(r.Num)
	}
	return float64(r.Num) / float64(r.Den)
}

// String returns "num/den".
// A zero denominator is rendered as "num/1".
func (r Rat) String() string {
	den := r.Den
	if den == 0 {
		den = 1
	}
	return fmt.Sprintf("%d/%d", r.Num, den)
}

func (r Rat) MarshalText() (text []byte, err error) {
	return []byte(r.String()), nil
}

func (r *Rat) UnmarshalText(text []byte) error {
	s := string(text)
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
	}
	d := int64(1)
	if found {
		d, err = strconv.ParseInt(den, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse %q as a rational number: %w", s, err)
		}
	}
	r.Num, r.Den = n, d
	return nil
}

// decodeText cuts b at the first NUL and decodes the rest as UTF-8,
// replacing invalid sequences with U+FFFD.
func decodeText(b []byte) string {
	b = cutNUL(b)
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := unicode.UTF8.NewDecoder().String(string(b))
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return s
}

func cutNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

func trimBytesNulls(b []byte) []byte {
	var lo, hi int
	for lo = 0; lo < len(b) && b[lo] == 0; lo++ {
	}
	for hi = len(b) - 1; hi >= 0 && b[hi] == 0; hi-- {
	}
	if lo > hi {
		return nil
	}
	return b[lo : hi+1]
}
