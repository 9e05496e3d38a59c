// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

// Package imagehat extracts EXIF/TIFF, IPTC and JPEG segment metadata from
// JPEG and PNG images and scores how well the EXIF metadata conforms to the
// EXIF specification.
package imagehat

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// UnknownPrefix is used as prefix for unknown tags.
const UnknownPrefix = "UnknownTag_"

const (
	// EXIF is the EXIF/TIFF tag source.
	EXIF Source = 1 << iota
	// IPTC is the IPTC source (Photoshop APP13).
	IPTC
	// SEGMENTS is the JPEG marker segment table.
	SEGMENTS
	// FILEINFO is general file information.
	FILEINFO
)

const (
	// ModeEXIF reads the EXIF/TIFF metadata only.
	ModeEXIF = EXIF
	// ModeComplete reads all sources.
	ModeComplete = EXIF | IPTC | SEGMENTS | FILEINFO
)

const (
	// ImageFormatAuto signals that the image format should be detected from the leading signature.
	ImageFormatAuto ImageFormat = iota
	// JPEG is the JPEG image format.
	JPEG
	// PNG is the PNG image format. Only the eXIf chunk is read.
	PNG
)

// Supported file extensions, lower case.
var supportedExtensions = map[string]ImageFormat{
	".jpg":  JPEG,
	".jpeg": JPEG,
	".png":  PNG,
}

const (
	defaultLimitNumTags   = 5000
	defaultLimitTagSize   = 10000
	defaultDeferThreshold = 50
)

// ImageFormat is the image format.
type ImageFormat int

func (f ImageFormat) String() string {
	switch f {
	case ImageFormatAuto:
		return "ImageFormatAuto"
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	default:
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
}

func (f ImageFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Source is a bitmask and you may send multiple sources at once.
type Source uint32

// Remove removes the given source.
func (t Source) Remove(source Source) Source {
	t &= ^source
	return t
}

// Has returns true if the given source is set.
func (t Source) Has(source Source) bool {
	return t&source != 0
}

// IsZero returns true if the source is zero.
func (t Source) IsZero() bool {
	return t == 0
}

func (t Source) String() string {
	if t.IsZero() {
		return "Source(0)"
	}
	var parts []string
	for _, s := range []struct {
		src  Source
		name string
	}{{EXIF, "EXIF"}, {IPTC, "IPTC"}, {SEGMENTS, "SEGMENTS"}, {FILEINFO, "FILEINFO"}} {
		if t.Has(s.src) {
			parts = append(parts, s.name)
			t = t.Remove(s.src)
		}
	}
	if !t.IsZero() {
		parts = append(parts, fmt.Sprintf("Source(%d)", uint32(t)))
	}
	return strings.Join(parts, "|")
}

// Options contains the options for the parse functions.
type Options struct {
	// The image format. Detected from the leading signature if not set.
	ImageFormat ImageFormat

	// If set, only the given sources are read.
	// Note that this is a bitmask and you may send multiple sources at once.
	// Default is ModeComplete. ParseEXIF and ParseComplete override this.
	Sources Source

	// CompressionMode selects the support level column used by ScoreConformity.
	CompressionMode CompressionMode

	// Warnf will be called for each structural warning.
	// Warnings are also collected in Report.Warnings.
	Warnf func(string, ...any)

	// Timeout is the maximum time spent decoding one image.
	// If set to 0, decoding will not time out.
	Timeout time.Duration

	// BatchTimeout is the maximum time spent on a batch.
	// If set to 0, the batch will not time out.
	BatchTimeout time.Duration

	// Workers is the number of images decoded in parallel in a batch.
	// Default is runtime.GOMAXPROCS(0).
	Workers int

	// Range restricts a folder batch to the files [Start, End) in name order.
	Range Range

	// Limit is the maximum number of files in a folder batch, applied after Range.
	// If set to 0, there is no limit.
	Limit int

	// LimitNumTags is the maximum number of tags to read per EXIF segment.
	// Default value is 5000.
	LimitNumTags uint32

	// LimitTagSize is the maximum size in bytes of a tag value to materialize.
	// Larger values are reported as DeferredValue.
	// Default value is 10000.
	LimitTagSize uint32

	// DeferThreshold is the size in bytes above which UNDEFINED values are
	// reported as DeferredValue.
	// Default value is 50.
	DeferThreshold int
}

// Range is a half-open range of indices. An End of 0 means no upper bound.
type Range struct {
	Start int
	End   int
}

// IsZero reports whether r selects everything.
func (r Range) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

func (opts *Options) init() {
	if opts.Sources.IsZero() {
		opts.Sources = ModeComplete
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}
	if opts.LimitNumTags == 0 {
		opts.LimitNumTags = defaultLimitNumTags
	}
	if opts.LimitTagSize == 0 {
		opts.LimitTagSize = defaultLimitTagSize
	}
	if opts.DeferThreshold == 0 {
		opts.DeferThreshold = defaultDeferThreshold
	}
}

// FileInfo holds general information about the parsed file.
type FileInfo struct {
	Name string
	Ext  string
	Size int
}

// Report is the result of parsing one image.
type Report struct {
	Path     string
	Format   ImageFormat
	File     *FileInfo     `json:",omitempty"`
	Segments *SegmentTable `json:",omitempty"`
	EXIF     *EXIFData     `json:",omitempty"`
	IPTC     *IPTCData     `json:",omitempty"`

	// Warnings holds every structural warning, nil if there were none.
	// Use multierror to inspect the individual warnings.
	Warnings error `json:"-"`
}

// WarningMessages returns the structural warnings as strings.
func (r *Report) WarningMessages() []string {
	merr, ok := r.Warnings.(*multierror.Error)
	if !ok || merr == nil {
		return nil
	}
	msgs := make([]string, len(merr.Errors))
	for i, err := range merr.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}

// ParseEXIF reads the EXIF/TIFF metadata of the image at path.
func ParseEXIF(path string, opts Options) (*Report, error) {
	opts.Sources = ModeEXIF
	return ParseFile(path, opts)
}

// ParseComplete reads all metadata sources of the image at path.
func ParseComplete(path string, opts Options) (*Report, error) {
	opts.Sources = ModeComplete
	return ParseFile(path, opts)
}

// ParseFile reads the sources in opts.Sources of the image at path.
// Only access errors, unsupported extensions and invalid signatures are returned as errors;
// malformed metadata is reported in Report.Warnings.
func ParseFile(path string, opts Options) (*Report, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, found := supportedExtensions[ext]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("imagehat: %w", err)
	}
	if opts.ImageFormat == ImageFormatAuto {
		opts.ImageFormat = format
	}

	r, err := Decode(b, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.Path = path
	if r.File != nil {
		r.File.Name = filepath.Base(path)
		r.File.Ext = ext
	}
	return r, nil
}

// Decode reads metadata from the image in b.
func Decode(b []byte, opts Options) (*Report, error) {
	opts.init()

	format, err := detectFormat(b, opts.ImageFormat)
	if err != nil {
		return nil, err
	}
	opts.ImageFormat = format

	if opts.Timeout <= 0 {
		return decode(b, opts), nil
	}

	reportc := make(chan *Report, 1)
	go func() {
		reportc <- decode(b, opts)
	}()

	select {
	case <-time.After(opts.Timeout):
		return nil, fmt.Errorf("timed out after %s", opts.Timeout)
	case r := <-reportc:
		return r, nil
	}
}

func detectFormat(b []byte, want ImageFormat) (ImageFormat, error) {
	var got ImageFormat
	switch {
	case len(b) >= 2 && b[0] == 0xff && b[1] == markerSOI:
		got = JPEG
	case bytes.HasPrefix(b, pngSignature):
		got = PNG
	}

	if got == ImageFormatAuto {
		return got, newInvalidFormatErrorf("imagehat: unrecognized signature")
	}
	if want != ImageFormatAuto && want != got {
		return got, newInvalidFormatErrorf("imagehat: expected %s signature, got %s", want, got)
	}
	return got, nil
}

type decoder interface {
	decode() error
}

type baseDecoder struct {
	b      []byte
	opts   Options
	report *Report
	warnf  func(string, ...any)
}

// decode never fails; problems end up in the report's warnings.
// A panic, including one raised by opts.Warnf, is recovered and the partial report returned.
func decode(b []byte, opts Options) (r *Report) {
	var warnings *multierror.Error

	base := &baseDecoder{
		b:    b,
		opts: opts,
		report: &Report{
			Format: opts.ImageFormat,
		},
		warnf: func(format string, args ...any) {
			warnings = multierror.Append(warnings, fmt.Errorf(format, args...))
			opts.Warnf(format, args...)
		},
	}

	if opts.Sources.Has(FILEINFO) {
		base.report.File = &FileInfo{Size: len(b)}
	}

	defer func() {
		if p := recover(); p != nil {
			// Not through base.warnf, opts.Warnf may be what panicked.
			warnings = multierror.Append(warnings, fmt.Errorf("imagehat: unexpected panic: %v", p))
		}
		base.report.Warnings = warnings.ErrorOrNil()
		r = base.report
	}()

	var dec decoder
	switch opts.ImageFormat {
	case JPEG:
		dec = &imageDecoderJPEG{baseDecoder: base}
	case PNG:
		dec = &imageDecoderPNG{baseDecoder: base}
	}

	if err := dec.decode(); err != nil {
		base.warnf("imagehat: %v", err)
	}

	return base.report
}
