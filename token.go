// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

import (
	"fmt"
	"strconv"

	"github.com/ScriptRock/pdfmeta/internal/types"
)

// A tokenKind identifies the kind of a token.
type tokenKind int

const (
	tokBool tokenKind = iota
	tokInt
	tokReal
	tokName
	tokString
	tokArrayStart
	tokArrayEnd
	tokDictStart
	tokDictEnd
	tokStreamStart
	tokStreamEnd
	tokObjStart
	tokObjEnd
	tokObjRef
	tokKeyword
	tokNewline
)

var tokenNames = [...]string{
	tokBool:        "bool",
	tokInt:         "integer",
	tokReal:        "real",
	tokName:        "name",
	tokString:      "string",
	tokArrayStart:  "[",
	tokArrayEnd:    "]",
	tokDictStart:   "<<",
	tokDictEnd:     ">>",
	tokStreamStart: "stream",
	tokStreamEnd:   "endstream",
	tokObjStart:    "obj",
	tokObjEnd:      "endobj",
	tokObjRef:      "reference",
	tokKeyword:     "keyword",
	tokNewline:     "newline",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

// A token is one lexical unit of PDF syntax.
// Only the field matching kind is meaningful:
//
//	tokBool              b
//	tokInt               i
//	tokReal              f
//	tokName, tokString   s (name without the slash, string decoded to UTF-8)
//	tokKeyword           s
//	tokObjStart, tokObjRef  ref
type token struct {
	kind tokenKind
	b    bool
	i    int64
	f    float64
	s    string
	ref  types.Objref
}

func (t token) is(kind tokenKind) bool {
	return t.kind == kind
}

func (t token) isKeyword(kw string) bool {
	return t.kind == tokKeyword && t.s == kw
}

func (t token) String() string {
	switch t.kind {
	case tokBool:
		return strconv.FormatBool(t.b)
	case tokInt:
		return strconv.FormatInt(t.i, 10)
	case tokReal:
		return strconv.FormatFloat(t.f, 'f', -1, 64)
	case tokName:
		return "/" + t.s
	case tokString:
		return strconv.Quote(t.s)
	case tokKeyword:
		return t.s
	case tokObjStart:
		return fmt.Sprintf("%d %d obj", t.ref.Num, t.ref.Gen)
	case tokObjRef:
		return fmt.Sprintf("%d %d R", t.ref.Num, t.ref.Gen)
	}
	return t.kind.String()
}
