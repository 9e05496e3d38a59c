// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

// Command imagehat prints the metadata and EXIF conformity scores of JPEG and PNG images as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/imagehat/imagehat"
)

type config struct {
	mode         string
	compression  string
	workers      int
	limit        int
	start        int
	end          int
	timeout      time.Duration
	score        bool
	segmentsOnly bool
}

// output is one JSON document per input.
type output struct {
	Path       string                     `json:"path"`
	Report     *imagehat.Report           `json:"report,omitempty"`
	Conformity *imagehat.ConformityReport `json:"conformity,omitempty"`
	Warnings   []string                   `json:"warnings,omitempty"`
	Error      string                     `json:"error,omitempty"`
}

func main() {
	var cfg config

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file|folder>...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print image metadata and EXIF conformity scores as JSON\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.StringVar(&cfg.mode, "mode", "complete", "what to read: complete or exif")
	flag.StringVar(&cfg.compression, "compression", "compressed", "support level column used for scoring: compressed, chunky, planar or ycc")
	flag.IntVar(&cfg.workers, "workers", 0, "number of images parsed in parallel (default GOMAXPROCS)")
	flag.IntVar(&cfg.limit, "limit", 0, "maximum number of files per folder")
	flag.IntVar(&cfg.start, "start", 0, "index of the first file per folder")
	flag.IntVar(&cfg.end, "end", 0, "index after the last file per folder")
	flag.DurationVar(&cfg.timeout, "timeout", 0, "overall timeout")
	flag.BoolVar(&cfg.score, "score", true, "include conformity scores")
	flag.BoolVar(&cfg.segmentsOnly, "segments-only", false, "only print the JPEG segment table")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), os.Stdout, cfg, flag.Args()); err != nil {
		glog.Exit(err)
	}
	glog.Flush()
}

func (cfg config) options() (imagehat.Options, error) {
	opts := imagehat.Options{
		Workers:      cfg.workers,
		Limit:        cfg.limit,
		Range:        imagehat.Range{Start: cfg.start, End: cfg.end},
		BatchTimeout: cfg.timeout,
		Warnf: func(format string, args ...any) {
			glog.V(1).Infof(format, args...)
		},
	}

	switch cfg.mode {
	case "complete":
		opts.Sources = imagehat.ModeComplete
	case "exif":
		opts.Sources = imagehat.ModeEXIF
	default:
		return opts, fmt.Errorf("invalid mode %q", cfg.mode)
	}
	if cfg.segmentsOnly {
		opts.Sources = imagehat.SEGMENTS | imagehat.FILEINFO
	}

	mode, err := imagehat.ParseCompressionMode(cfg.compression)
	if err != nil {
		return opts, err
	}
	opts.CompressionMode = mode

	return opts, nil
}

func run(ctx context.Context, w io.Writer, cfg config, args []string) error {
	opts, err := cfg.options()
	if err != nil {
		return err
	}

	var results []imagehat.BatchResult
	var files []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			files = append(files, arg)
			continue
		}
		glog.V(1).Infof("parsing folder %s", arg)
		res, err := imagehat.ParseFolder(ctx, arg, opts)
		if err != nil {
			return err
		}
		results = append(results, res...)
	}
	if len(files) > 0 {
		results = append(results, imagehat.ParseBatch(ctx, files, opts)...)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	for _, res := range results {
		out := output{Path: res.Path}
		if res.Err != nil {
			glog.Warningf("%s: %v", res.Path, res.Err)
			out.Error = res.Err.Error()
		} else {
			out.Report = res.Report
			out.Warnings = res.Report.WarningMessages()
			if cfg.score && !cfg.segmentsOnly {
				out.Conformity = res.Conformity
			}
			glog.V(1).Infof("parsed %s with %d warnings", res.Path, len(out.Warnings))
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}

	if err := imagehat.BatchErrors(results); err != nil {
		glog.Errorf("%d of %d files failed", countFailed(results), len(results))
	}

	return nil
}

func countFailed(results []imagehat.BatchResult) int {
	var n int
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
