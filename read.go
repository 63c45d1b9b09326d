// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdfmeta reads document metadata from PDF files.
//
// # Overview
//
// The package reads only as much of a PDF as is needed to find its
// metadata: the cross-reference sections and trailers of every revision,
// each revision's Info dictionary, and the XMP packet referenced by the
// document catalog's /Metadata entry. It does not render pages or give
// access to page content.
//
// Metadata is returned as a map from key to text. Info dictionary entries
// use their PDF key names (Title, Author, Subject, Keywords, Creator,
// Producer, CreationDate, ModDate). XMP fields are mapped to CreationDate,
// Summary, Publisher, Author, Title, Subject, Language, ISBN, UserRating,
// TitleSort, Series and Volume. When a document has been updated
// incrementally, the newest revision that sets a key wins.
//
// Extraction fails as a whole: a malformed file yields a *SyntaxError,
// an encrypted file or one using a filter other than FlateDecode yields an
// *UnsupportedError, and a file cut short yields ErrEndOfStream.
//
// A call to Extract holds one file and one buffer and shares nothing with
// other calls, so many files may be read concurrently.
package pdfmeta

// BUG(pdfmeta): Objects stored inside object streams are not located, so
// metadata kept only in compressed object streams is not found.

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ScriptRock/pdfmeta/internal/types"
)

// A reader is a single PDF file being read for metadata.
type reader struct {
	b       *buffer
	size    int64
	opts    Options
	offsets types.OffsetTable
	refs    types.RefStack
	visited map[int64]bool
}

// Extract reads the metadata of the PDF file at path.
func Extract(path string) (map[string]string, error) {
	return ExtractWithOptions(path, Options{})
}

// ExtractWithOptions is like Extract but uses the given options.
func ExtractWithOptions(path string, opts Options) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ExtractReader(f, fi.Size(), opts)
}

// ExtractReader reads the metadata of the PDF held in rs, which is size bytes long.
// On error the returned map is nil.
func ExtractReader(rs io.ReadSeeker, size int64, opts Options) (meta map[string]string, err error) {
	defer recoverError(&err)
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	r := &reader{
		b:       newBuffer(rs, opts.BufferSize),
		size:    size,
		opts:    opts,
		visited: make(map[int64]bool),
	}
	r.b.maxDepth = opts.MaxDepth

	r.checkHeader()
	start := r.b.locateStartXrefOffset(size)
	slog.Debug("found startxref", slog.Int64("offset", start))
	r.readXrefAndTrailer(start)
	slog.Debug("resolved xref chain", slog.Int("sections", len(r.visited)), slog.Int("objects", r.offsets.Len()), slog.Int("revisions", r.refs.Len()))
	return r.walk(), nil
}

func (r *reader) checkHeader() {
	if !bytes.HasPrefix(r.b.peek(8), []byte("%PDF-")) {
		r.b.errorf("not a PDF file: invalid header")
	}
}

// walk pops revisions newest first and merges their metadata.
// Keys already set by a newer revision are kept.
func (r *reader) walk() map[string]string {
	meta := make(map[string]string)
	for {
		ref, ok := r.refs.Pop()
		if !ok {
			return meta
		}
		if off, ok := r.offsets.Lookup(ref.Info); ok {
			r.readInfo(ref.Info, off, meta)
		}
		off, ok := r.offsets.Lookup(ref.Root)
		if !ok {
			continue
		}
		md, ok := r.readCatalog(ref.Root, off)
		if !ok {
			continue
		}
		if off, ok := r.offsets.Lookup(md.Num); ok {
			r.readXMP(md.Num, off, meta)
		}
	}
}

// readCatalog returns the /Metadata reference of the document catalog.
func (r *reader) readCatalog(num int, off int64) (md types.Objref, ok bool) {
	b := r.b
	b.seek(off)
	b.readObjectHeader(num)
	if tok := b.nextToken(false); !tok.is(tokDictStart) {
		b.errorf("document catalog %d is %v, not a dictionary", num, tok)
	}
	b.readDict(0, func(key string) bool {
		if key != "Metadata" {
			return false
		}
		md, ok = b.readRef(key), true
		return true
	})
	return md, ok
}

// resolveInt reads an indirect object holding a single integer.
func (r *reader) resolveInt(ref types.Objref) int64 {
	b := r.b
	off, ok := r.offsets.Lookup(ref.Num)
	if !ok {
		b.errorf("object %d not found", ref.Num)
	}
	b.seek(off)
	b.readObjectHeader(ref.Num)
	return b.readInt(fmt.Sprintf("object %d", ref.Num))
}

// setIfAbsent stores value under key unless key is already set.
func setIfAbsent(meta map[string]string, key, value string) {
	if _, ok := meta[key]; ok {
		return
	}
	meta[key] = value
}
