// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

import (
	"github.com/ScriptRock/pdfmeta/internal/types"
)

// A dictHandler is called for each key of a dictionary. It either reads the
// value itself and returns true, or returns false to have the value skipped.
type dictHandler func(key string) bool

// expect reads the next token and fails unless it has the given kind.
func (b *buffer) expect(kind tokenKind) token {
	tok := b.nextToken(false)
	if !tok.is(kind) {
		b.errorf("expected %v, found %v", kind, tok)
	}
	return tok
}

// readObjectHeader reads "num gen obj" and checks the object number.
func (b *buffer) readObjectHeader(num int) {
	tok := b.expect(tokObjStart)
	if tok.ref.Num != num {
		b.errorf("loading object %d: found object %d", num, tok.ref.Num)
	}
}

// readDict reads the entries of a dictionary whose << has been consumed,
// through the closing >>. Values handle declines are skipped.
func (b *buffer) readDict(depth int, handle dictHandler) {
	if depth > b.maxDepth {
		b.errorf("objects nested more than %d deep", b.maxDepth)
	}
	for {
		tok := b.nextToken(false)
		if tok.is(tokDictEnd) {
			return
		}
		if !tok.is(tokName) {
			b.errorf("unexpected non-name key %v parsing dictionary", tok)
		}
		if handle != nil && handle(tok.s) {
			continue
		}
		b.skipValue(b.nextToken(false), depth)
	}
}

// skipValue discards the object that starts with tok.
func (b *buffer) skipValue(tok token, depth int) {
	switch tok.kind {
	case tokArrayStart:
		if depth >= b.maxDepth {
			b.errorf("objects nested more than %d deep", b.maxDepth)
		}
		for {
			t := b.nextToken(false)
			if t.is(tokArrayEnd) {
				return
			}
			b.skipValue(t, depth+1)
		}
	case tokDictStart:
		b.readDict(depth+1, nil)
	case tokArrayEnd, tokDictEnd, tokStreamStart, tokStreamEnd, tokObjStart, tokObjEnd, tokNewline:
		b.errorf("unexpected %v parsing object", tok)
	}
}

func (b *buffer) readInt(key string) int64 {
	tok := b.nextToken(false)
	if !tok.is(tokInt) {
		b.errorf("/%s is not an integer: %v", key, tok)
	}
	return tok.i
}

func (b *buffer) readRef(key string) types.Objref {
	tok := b.nextToken(false)
	if !tok.is(tokObjRef) {
		b.errorf("/%s is not an indirect reference: %v", key, tok)
	}
	return tok.ref
}

func (b *buffer) readNameValue(key string) string {
	tok := b.nextToken(false)
	if !tok.is(tokName) {
		b.errorf("/%s is not a name: %v", key, tok)
	}
	return tok.s
}

// readIntOrRef reads a value that is either a direct integer or a reference
// to one, as /Length may be.
func (b *buffer) readIntOrRef(key string) (int64, types.Objref, bool) {
	tok := b.nextToken(false)
	switch tok.kind {
	case tokInt:
		return tok.i, types.Objref{}, true
	case tokObjRef:
		return 0, tok.ref, false
	}
	b.errorf("/%s is not an integer: %v", key, tok)
	return 0, types.Objref{}, false
}

func (b *buffer) readIntArray(key string) []int64 {
	b.expect(tokArrayStart)
	var x []int64
	for {
		tok := b.nextToken(false)
		if tok.is(tokArrayEnd) {
			return x
		}
		if !tok.is(tokInt) {
			b.errorf("/%s array holds non-integer %v", key, tok)
		}
		x = append(x, tok.i)
	}
}
