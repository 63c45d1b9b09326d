// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

var infoKeys = map[string]bool{
	"Title":        true,
	"Author":       true,
	"Subject":      true,
	"Keywords":     true,
	"Creator":      true,
	"Producer":     true,
	"CreationDate": true,
	"ModDate":      true,
}

// readInfo merges the text entries of the Info dictionary at off into meta.
// Values are strings or a reference to an object holding a string.
func (r *reader) readInfo(num int, off int64, meta map[string]string) {
	b := r.b
	b.seek(off)
	b.readObjectHeader(num)
	if tok := b.nextToken(false); !tok.is(tokDictStart) {
		b.errorf("Info object %d is %v, not a dictionary", num, tok)
	}

	type indirect struct {
		key string
		num int
	}
	var refs []indirect
	b.readDict(0, func(key string) bool {
		if !infoKeys[key] {
			return false
		}
		tok := b.nextToken(false)
		switch {
		case tok.is(tokString):
			setIfAbsent(meta, key, tok.s)
		case tok.is(tokObjRef):
			refs = append(refs, indirect{key, tok.ref.Num})
		case tok.isKeyword("null"):
			// absent
		default:
			b.errorf("Info /%s is %v, not a string", key, tok)
		}
		return true
	})

	for _, ref := range refs {
		off, ok := r.offsets.Lookup(ref.num)
		if !ok {
			continue
		}
		b.seek(off)
		b.readObjectHeader(ref.num)
		tok := b.nextToken(false)
		if !tok.is(tokString) {
			b.errorf("Info /%s refers to %v, not a string", ref.key, tok)
		}
		setIfAbsent(meta, ref.key, tok.s)
	}
}
