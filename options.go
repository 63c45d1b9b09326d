// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

const (
	defaultMaxDepth     = 32
	defaultMaxRevisions = 1024

	// maxObjectNumber is the largest object number a PDF may use.
	maxObjectNumber = 8388607
)

// Options tunes an extraction. The zero value uses the defaults.
type Options struct {
	// BufferSize is the size of the read buffer. Values below 1024 are raised to 1024.
	BufferSize int

	// MaxDepth bounds the nesting of arrays and dictionaries that are skipped.
	MaxDepth int

	// MaxRevisions bounds the number of xref sections followed through
	// Prev and XRefStm links.
	MaxRevisions int
}

func (o Options) withDefaults() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = defaultBufferSize
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.MaxRevisions <= 0 {
		o.MaxRevisions = defaultMaxRevisions
	}
	return o
}
