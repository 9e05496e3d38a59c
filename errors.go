// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"errors"
	"fmt"
)

var (
	errInvalidFormat = &InvalidFormatError{errors.New("imagehat: invalid format")}

	// ErrUnsupportedExtension is returned when a path does not carry one of the
	// supported file extensions (.jpg, .jpeg, .png).
	ErrUnsupportedExtension = errors.New("imagehat: unsupported file extension")

	// errOverrun is wrapped by every out of bounds read on a byteView.
	errOverrun = errors.New("read out of bounds")
)

// InvalidFormatError is used when the leading signature of the input does not
// match the requested image format.
type InvalidFormatError struct {
	Err error
}

func (e *InvalidFormatError) Error() string {
	return e.Err.Error()
}

// Is reports whether target is an *InvalidFormatError.
func (e *InvalidFormatError) Is(target error) bool {
	_, ok := target.(*InvalidFormatError)
	return ok
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// IsInvalidFormat reports whether err is an *InvalidFormatError.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, errInvalidFormat)
}

func newInvalidFormatErrorf(format string, args ...any) error {
	return &InvalidFormatError{fmt.Errorf(format, args...)}
}

func isOverrun(err error) bool {
	return errors.Is(err, errOverrun)
}
