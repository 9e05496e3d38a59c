// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the result of parsing one image in a batch.
// Exactly one of Report and Err is set.
type BatchResult struct {
	Path       string
	Report     *Report
	Conformity *ConformityReport
	Err        error
}

// ParseBatch parses the images at paths in parallel.
// A failing image does not stop the batch; its error is stored in its result.
// Results are in the same order as paths.
func ParseBatch(ctx context.Context, paths []string, opts Options) []BatchResult {
	if opts.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.BatchTimeout)
		defer cancel()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			r, err := ParseFile(path, opts)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Report = r
			if r.EXIF != nil {
				c := ScoreConformityMode(r, opts.CompressionMode)
				results[i].Conformity = &c
			}
			return nil
		})
	}

	// Errors are kept per result.
	_ = g.Wait()

	return results
}

// ParseFolder parses the supported images in dir, sorted by name.
// opts.Range is applied before opts.Limit.
func ParseFolder(ctx context.Context, dir string, opts Options) ([]BatchResult, error) {
	paths, err := listImages(dir)
	if err != nil {
		return nil, err
	}
	paths = selectPaths(paths, opts.Range, opts.Limit)
	return ParseBatch(ctx, paths, opts), nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("imagehat: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, found := supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))]; found {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func selectPaths(paths []string, r Range, limit int) []string {
	if !r.IsZero() {
		start := min(max(r.Start, 0), len(paths))
		end := len(paths)
		if r.End > 0 {
			end = min(r.End, len(paths))
		}
		if start >= end {
			return nil
		}
		paths = paths[start:end]
	}
	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}
	return paths
}

// BatchErrors collects the errors of the failed results, nil if none failed.
func BatchErrors(results []BatchResult) error {
	var merr *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			merr = multierror.Append(merr, r.Err)
		}
	}
	return merr.ErrorOrNil()
}
