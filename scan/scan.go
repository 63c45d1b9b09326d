// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scan reads metadata from many PDF files concurrently, the way a
// library scan does: a file that cannot be read is reported and skipped.
package scan

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/ScriptRock/pdfmeta"
	"github.com/ScriptRock/pdfmeta/bookmeta"
)

// Options configures a scan.
type Options struct {
	// Workers is the number of files read at once (0 means runtime.NumCPU()).
	Workers int

	// Extract is passed to every extraction.
	Extract pdfmeta.Options

	// Logger receives failure reports (nil means slog.Default()).
	Logger *slog.Logger
}

// A MediaError records a file whose metadata could not be read.
type MediaError struct {
	Path string
	Kind string // malformed, unsupported, truncated or io
	Err  error
}

func (e MediaError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// A Report is the outcome of a scan.
type Report struct {
	Records map[string]bookmeta.Record // by path
	Raw     map[string]map[string]string
	Errors  []MediaError // sorted by path
}

type result struct {
	path string
	meta map[string]string
	err  error
}

// Scan extracts metadata from every path. Files that fail are logged and
// listed in Report.Errors; they never stop the rest of the scan.
// Cancelling ctx stops new files from being started.
func Scan(ctx context.Context, paths []string, opts Options) Report {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(min(workers, len(paths)), 1)
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	jobs := make(chan string, workers*2)
	results := make(chan result, workers)

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				if ctx.Err() != nil {
					return
				}
				meta, err := pdfmeta.ExtractWithOptions(p, opts.Extract)
				results <- result{path: p, meta: meta, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	rep := Report{
		Records: make(map[string]bookmeta.Record),
		Raw:     make(map[string]map[string]string),
	}
	for res := range results {
		if res.err != nil {
			me := MediaError{Path: res.path, Kind: Classify(res.err), Err: res.err}
			log.Warn("reading PDF metadata failed", slog.String("path", res.path), slog.String("kind", me.Kind), slog.Any("error", res.err))
			rep.Errors = append(rep.Errors, me)
			continue
		}
		rep.Raw[res.path] = res.meta
		rep.Records[res.path] = bookmeta.Translate(res.meta)
	}
	sort.Slice(rep.Errors, func(i, j int) bool { return rep.Errors[i].Path < rep.Errors[j].Path })
	return rep
}

// Classify names the kind of an extraction error.
func Classify(err error) string {
	switch {
	case errors.Is(err, pdfmeta.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, pdfmeta.ErrEndOfStream):
		return "truncated"
	case errors.Is(err, pdfmeta.ErrMalformed):
		return "malformed"
	}
	return "io"
}

// Walk returns the PDF files under root, sorted.
func Walk(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}
