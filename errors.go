// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMalformed is matched by every *SyntaxError.
	ErrMalformed = errors.New("malformed PDF")

	// ErrUnsupported is matched by every *UnsupportedError.
	ErrUnsupported = errors.New("unsupported PDF")

	// ErrEndOfStream reports that the input ended inside a token or object.
	// It also matches io.ErrUnexpectedEOF.
	ErrEndOfStream = fmt.Errorf("malformed PDF: unexpected end of stream: %w", io.ErrUnexpectedEOF)
)

// A SyntaxError describes an unexpected byte or token, a broken xref chain,
// or a missing required entry.
type SyntaxError struct {
	Offset int64 // file offset near the failure
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed PDF: %s (offset %d)", e.Msg, e.Offset)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformed
}

// An UnsupportedError reports a valid PDF feature this package does not read,
// such as encryption or a filter other than FlateDecode.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return "unsupported PDF: " + e.Feature
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// parseError carries an error through a panic from the lexer to the
// public entry point.
type parseError struct {
	err error
}

func recoverError(errp *error) {
	if r := recover(); r != nil {
		pe, ok := r.(parseError)
		if !ok {
			panic(r)
		}
		*errp = pe.err
	}
}
