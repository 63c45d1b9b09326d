// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

import (
	"strings"

	"github.com/ScriptRock/pdfmeta/internal/encoding"
)

type decodeState int

const (
	undecided decodeState = iota // nothing seen yet
	maybeBOM                     // first byte was 0xFE
	pdfDoc
	utf16
)

// A stringDecoder accumulates the bytes of one PDF string and decides,
// as they arrive, whether the string is PDFDocEncoding or UTF-16BE.
type stringDecoder struct {
	state decodeState
	text  strings.Builder
	wide  []byte
}

func (d *stringDecoder) reset() {
	d.state = undecided
	d.text.Reset()
	d.wide = d.wide[:0]
}

func (d *stringDecoder) writeByte(c byte) {
	switch d.state {
	case undecided:
		if c == 0xfe {
			d.state = maybeBOM
			return
		}
		d.state = pdfDoc
	case maybeBOM:
		if c == 0xff {
			d.state = utf16
			return
		}
		d.state = pdfDoc
		d.text.WriteRune(encoding.PDFDocRune(0xfe))
	case utf16:
		d.wide = append(d.wide, c)
		return
	}
	d.text.WriteRune(encoding.PDFDocRune(c))
}

// String finishes the string and returns it as UTF-8.
func (d *stringDecoder) String() string {
	switch d.state {
	case maybeBOM:
		d.state = pdfDoc
		d.text.WriteRune(encoding.PDFDocRune(0xfe))
	case utf16:
		return encoding.UTF16Decode(d.wide)
	}
	return d.text.String()
}
