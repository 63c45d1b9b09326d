// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encoding decodes PDF text strings.
package encoding

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// NoRune is returned for byte values PDFDocEncoding leaves undefined.
const NoRune = '�'

// PDFDocEncoding differs from Latin-1 only in these two ranges.
var (
	lowRange = [...]rune{
		0x18: '˘', // breve
		0x19: 'ˇ', // caron
		0x1a: 'ˆ', // circumflex
		0x1b: '˙', // dotaccent
		0x1c: '˝', // hungarumlaut
		0x1d: '˛', // ogonek
		0x1e: '˚', // ring
		0x1f: '˜', // tilde
	}
	highRange = [...]rune{
		0x80 - 0x80: '•', // bullet
		0x81 - 0x80: '†', // dagger
		0x82 - 0x80: '‡', // daggerdbl
		0x83 - 0x80: '…', // ellipsis
		0x84 - 0x80: '—', // emdash
		0x85 - 0x80: '–', // endash
		0x86 - 0x80: 'ƒ', // florin
		0x87 - 0x80: '⁄', // fraction
		0x88 - 0x80: '‹', // guilsinglleft
		0x89 - 0x80: '›', // guilsinglright
		0x8a - 0x80: '−', // minus
		0x8b - 0x80: '‰', // perthousand
		0x8c - 0x80: '„', // quotedblbase
		0x8d - 0x80: '“', // quotedblleft
		0x8e - 0x80: '”', // quotedblright
		0x8f - 0x80: '‘', // quoteleft
		0x90 - 0x80: '’', // quoteright
		0x91 - 0x80: '‚', // quotesinglbase
		0x92 - 0x80: '™', // trademark
		0x93 - 0x80: 'ﬁ', // fi
		0x94 - 0x80: 'ﬂ', // fl
		0x95 - 0x80: 'Ł', // Lslash
		0x96 - 0x80: 'Œ', // OE
		0x97 - 0x80: 'Š', // Scaron
		0x98 - 0x80: 'Ÿ', // Ydieresis
		0x99 - 0x80: 'Ž', // Zcaron
		0x9a - 0x80: 'ı', // dotlessi
		0x9b - 0x80: 'ł', // lslash
		0x9c - 0x80: 'œ', // oe
		0x9d - 0x80: 'š', // scaron
		0x9e - 0x80: 'ž', // zcaron
		0x9f - 0x80: NoRune,
		0xa0 - 0x80: '€', // Euro
	}
)

// PDFDocRune maps a single PDFDocEncoding byte to its Unicode character.
func PDFDocRune(b byte) rune {
	switch {
	case b >= 0x18 && b <= 0x1f:
		return lowRange[b]
	case b >= 0x80 && b <= 0xa0:
		return highRange[b-0x80]
	}
	return charmap.ISO8859_1.DecodeByte(b)
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// UTF16Decode decodes big-endian UTF-16 without a byte order mark.
// A trailing odd byte is dropped.
func UTF16Decode(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	out, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}
