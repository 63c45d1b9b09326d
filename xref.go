// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

import (
	"log/slog"

	"github.com/ScriptRock/pdfmeta/internal/types"
)

// readXrefAndTrailer reads the xref section at offset, then the sections it
// links to, and pushes the revision's Root/Info pairs after those of the
// older revisions.
//
// A hybrid file's XRefStm stream is read before Prev so its offsets take
// precedence, and its pair is pushed after the Prev chain's pairs because it
// belongs to the newer revision.
func (r *reader) readXrefAndTrailer(offset int64) {
	ref, xrefStm, prev := r.readSection(offset)
	stmRef := types.NoRef
	if xrefStm > 0 {
		var stmPrev int64
		stmRef, _, stmPrev = r.readSection(xrefStm)
		if prev <= 0 {
			prev = stmPrev
		}
	}
	if prev > 0 {
		r.readXrefAndTrailer(prev)
	}
	r.pushRef(xrefStm, stmRef)
	r.pushRef(offset, ref)
}

// readSection reads one classic table or xref stream and its dictionary.
func (r *reader) readSection(offset int64) (ref types.MetadataRef, xrefStm, prev int64) {
	b := r.b
	if offset <= 0 || offset >= r.size {
		b.errorf("xref offset %d outside file of %d bytes", offset, r.size)
	}
	if r.visited[offset] {
		b.errorf("xref chain loops back to offset %d", offset)
	}
	if len(r.visited) >= r.opts.MaxRevisions {
		b.errorf("more than %d xref sections", r.opts.MaxRevisions)
	}
	r.visited[offset] = true

	b.seek(offset)
	if b.testByte('x') {
		return r.readXrefTable()
	}
	ref, prev = r.readXrefStream()
	return ref, 0, prev
}

func (r *reader) pushRef(offset int64, ref types.MetadataRef) {
	if ref == types.NoRef {
		return
	}
	if r.refs.Push(ref) {
		slog.Debug("pushed revision", slog.Int64("xref", offset), slog.Int("root", ref.Root), slog.Int("info", ref.Info))
	}
}

// readXrefTable reads a classic xref table and its trailer dictionary.
func (r *reader) readXrefTable() (ref types.MetadataRef, xrefStm, prev int64) {
	b := r.b
	if tok := b.nextToken(false); !tok.isKeyword("xref") {
		b.errorf("expected xref, found %v", tok)
	}
	for {
		tok := b.nextToken(false)
		if tok.isKeyword("trailer") {
			break
		}
		if !tok.is(tokInt) {
			b.errorf("malformed xref subsection header %v", tok)
		}
		first := tok.i
		count := b.readInt("xref count")
		if first < 0 || count < 0 || first+count > maxObjectNumber+1 {
			b.errorf("xref subsection %d %d out of range", first, count)
		}
		if tok := b.nextToken(true); !tok.is(tokNewline) {
			b.errorf("xref subsection header not followed by newline: %v", tok)
		}
		n := 0
		for i := 0; i < int(count); i++ {
			off, _, inUse := b.readClassicXrefRow()
			if inUse && r.offsets.Set(int(first)+i, off) {
				n++
			}
		}
		slog.Debug("read xref subsection", slog.Int64("first", first), slog.Int64("count", count), slog.Int("recorded", n))
	}

	b.expect(tokDictStart)
	ref = types.NoRef
	b.readDict(0, func(key string) bool {
		switch key {
		case "Root":
			ref.Root = b.readRef(key).Num
		case "Info":
			ref.Info = b.readRef(key).Num
		case "Prev":
			prev = b.readInt(key)
		case "XRefStm":
			xrefStm = b.readInt(key)
		case "Encrypt":
			b.unsupported("encrypted document")
		default:
			return false
		}
		return true
	})
	if ref.Root < 0 {
		b.errorf("trailer missing /Root")
	}
	return ref, xrefStm, prev
}

// readXrefStream reads a cross-reference stream object.
func (r *reader) readXrefStream() (ref types.MetadataRef, prev int64) {
	b := r.b
	b.expect(tokObjStart)
	b.expect(tokDictStart)

	var (
		typ    string
		length int64 = -1
		size   int64 = -1
		index  []int64
		w      []int64
		filter string
		parms  = defaultParms
	)
	ref = types.NoRef
	b.readDict(0, func(key string) bool {
		switch key {
		case "Type":
			typ = b.readNameValue(key)
		case "Length":
			length = b.readInt(key)
		case "Size":
			size = b.readInt(key)
		case "Prev":
			prev = b.readInt(key)
		case "Index":
			index = b.readIntArray(key)
		case "W":
			w = b.readIntArray(key)
		case "Filter":
			filter = b.readFilter()
		case "DecodeParms":
			parms = b.readDecodeParms()
		case "Root":
			ref.Root = b.readRef(key).Num
		case "Info":
			ref.Info = b.readRef(key).Num
		case "Encrypt":
			b.unsupported("encrypted document")
		default:
			return false
		}
		return true
	})

	switch {
	case typ != "XRef":
		b.errorf("xref stream has type %q, not XRef", typ)
	case size < 0 || size > maxObjectNumber+1:
		b.errorf("xref stream has invalid /Size %d", size)
	case length < 0 || length > r.size:
		b.errorf("xref stream has invalid /Length %d", length)
	case len(w) != 3:
		b.errorf("xref stream /W has %d entries, want 3", len(w))
	case len(index)%2 != 0:
		b.errorf("xref stream /Index has odd length %d", len(index))
	}
	for _, x := range w {
		if x < 0 || x > 8 {
			b.errorf("invalid xref stream /W %v", w)
		}
	}
	sections := []types.Section{{First: 0, Count: int(size)}}
	if index != nil {
		sections = sections[:0]
		for i := 0; i < len(index); i += 2 {
			first, count := index[i], index[i+1]
			if first < 0 || count < 0 || first+count > maxObjectNumber+1 {
				b.errorf("xref stream /Index section %d %d out of range", first, count)
			}
			sections = append(sections, types.Section{First: int(first), Count: int(count)})
		}
	}

	b.expect(tokStreamStart)
	data := b.decodeStream(b.readRawSubStream(length), filter, parms)
	r.readXrefStreamRows(data, sections, [3]int{int(w[0]), int(w[1]), int(w[2])})
	return ref, prev
}

// readXrefStreamRows records the in-use objects described by decoded xref
// stream data. Rows of type 0 (free) and 2 (inside an object stream) are
// read and ignored.
func (r *reader) readXrefStreamRows(data []byte, sections []types.Section, w [3]int) {
	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		r.b.errorf("xref stream /W describes empty rows")
	}
	var recorded, compressed int
	for _, sec := range sections {
		for i := 0; i < sec.Count; i++ {
			if len(data) < rowLen {
				r.b.errorf("xref stream data ends inside section %d %d", sec.First, sec.Count)
			}
			row := data[:rowLen]
			data = data[rowLen:]
			typ := int64(1)
			if w[0] > 0 {
				typ = decodeInt(row[:w[0]])
			}
			off := decodeInt(row[w[0] : w[0]+w[1]])
			switch typ {
			case 1:
				if r.offsets.Set(sec.First+i, off) {
					recorded++
				}
			case 2:
				compressed++
			}
		}
	}
	slog.Debug("read xref stream", slog.Int("sections", len(sections)), slog.Int("recorded", recorded), slog.Int("compressed", compressed))
}

// decodeInt decodes a big-endian unsigned integer.
func decodeInt(b []byte) int64 {
	var x int64
	for _, c := range b {
		x = x<<8 | int64(c)
	}
	return x
}
