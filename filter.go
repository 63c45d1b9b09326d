// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

const (
	flateDecode = "FlateDecode"

	// maxDecodedSize caps the output of a single inflated stream.
	maxDecodedSize = 64 << 20
)

// decodeParms holds the /DecodeParms entries FlateDecode understands.
type decodeParms struct {
	predictor int64
	colors    int64
	bpc       int64
	columns   int64
}

var defaultParms = decodeParms{predictor: 1, colors: 1, bpc: 8, columns: 1}

// readFilter reads a /Filter value. Only FlateDecode, alone or as the single
// element of an array, is accepted.
func (b *buffer) readFilter() string {
	tok := b.nextToken(false)
	switch tok.kind {
	case tokName:
		if tok.s != flateDecode {
			b.unsupported("filter %s", tok.s)
		}
		return tok.s
	case tokArrayStart:
		var names []string
		for {
			t := b.nextToken(false)
			if t.is(tokArrayEnd) {
				break
			}
			if !t.is(tokName) {
				b.errorf("/Filter array holds non-name %v", t)
			}
			names = append(names, t.s)
		}
		switch {
		case len(names) == 0:
			return ""
		case len(names) > 1 || names[0] != flateDecode:
			b.unsupported("filter chain %v", names)
		}
		return flateDecode
	}
	b.errorf("/Filter is not a name: %v", tok)
	return ""
}

// readDecodeParms reads a /DecodeParms dictionary, or a one element array
// holding one, or null.
func (b *buffer) readDecodeParms() decodeParms {
	p := defaultParms
	tok := b.nextToken(false)
	inArray := tok.is(tokArrayStart)
	if inArray {
		tok = b.nextToken(false)
		if tok.is(tokArrayEnd) {
			return p
		}
	}
	switch {
	case tok.isKeyword("null"):
	case tok.is(tokDictStart):
		b.readDict(1, p.handler(b))
	default:
		b.errorf("/DecodeParms is not a dictionary: %v", tok)
	}
	if inArray {
		b.expect(tokArrayEnd)
	}
	return p
}

func (p *decodeParms) handler(b *buffer) dictHandler {
	return func(key string) bool {
		switch key {
		case "Predictor":
			p.predictor = b.readInt(key)
		case "Colors":
			p.colors = b.readInt(key)
		case "BitsPerComponent":
			p.bpc = b.readInt(key)
		case "Columns":
			p.columns = b.readInt(key)
		default:
			return false
		}
		return true
	}
}

// decodeStream applies filter to raw stream data.
func (b *buffer) decodeStream(raw []byte, filter string, parms decodeParms) []byte {
	if filter == "" {
		return raw
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		b.errorf("flate: %v", err)
	}
	defer zr.Close()
	var rd io.Reader = zr
	switch {
	case parms.predictor == 1:
		// none
	case parms.predictor == 2:
		b.unsupported("TIFF predictor")
	case parms.predictor >= 10 && parms.predictor <= 15:
		rd, err = newPNGReader(zr, parms)
		if err != nil {
			b.errorf("flate: %v", err)
		}
	default:
		b.errorf("flate: unknown predictor %d", parms.predictor)
	}
	out, err := io.ReadAll(io.LimitReader(rd, maxDecodedSize+1))
	if err != nil {
		b.errorf("flate: %v", err)
	}
	if len(out) > maxDecodedSize {
		b.errorf("flate: stream inflates past %d bytes", maxDecodedSize)
	}
	return out
}

// A pngReader undoes the PNG row filters applied before deflate.
type pngReader struct {
	r    io.Reader
	bpp  int    // bytes per complete pixel, at least 1
	prev []byte // previous decoded row
	row  []byte // filter type byte followed by the row
	pend []byte
}

func newPNGReader(r io.Reader, p decodeParms) (*pngReader, error) {
	bitsPerPixel := p.colors * p.bpc
	if p.colors < 1 || p.bpc < 1 || p.columns < 1 || bitsPerPixel > 64 {
		return nil, fmt.Errorf("invalid predictor parameters %+v", p)
	}
	rowLen := (bitsPerPixel*p.columns + 7) / 8
	if rowLen > maxDecodedSize {
		return nil, fmt.Errorf("predictor row too long: %d", rowLen)
	}
	return &pngReader{
		r:    r,
		bpp:  int(max((bitsPerPixel+7)/8, 1)),
		prev: make([]byte, rowLen),
		row:  make([]byte, 1+rowLen),
	}, nil
}

func (r *pngReader) Read(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if len(r.pend) > 0 {
			m := copy(b, r.pend)
			n += m
			b = b[m:]
			r.pend = r.pend[m:]
			continue
		}
		if _, err := io.ReadFull(r.r, r.row); err != nil {
			if err == io.ErrUnexpectedEOF {
				err = fmt.Errorf("truncated predictor row")
			}
			return n, err
		}
		if err := r.unfilter(); err != nil {
			return n, err
		}
		r.pend = r.prev
	}
	return n, nil
}

func (r *pngReader) unfilter() error {
	cur, prev, bpp := r.row[1:], r.prev, r.bpp
	switch r.row[0] {
	case 0: // None
	case 1: // Sub
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case 2: // Up
		for i := range cur {
			cur[i] += prev[i]
		}
	case 3: // Average
		for i := range cur {
			var left int
			if i >= bpp {
				left = int(cur[i-bpp])
			}
			cur[i] += byte((left + int(prev[i])) / 2)
		}
	case 4: // Paeth
		for i := range cur {
			var left, upLeft byte
			if i >= bpp {
				left, upLeft = cur[i-bpp], prev[i-bpp]
			}
			cur[i] += paeth(left, prev[i], upLeft)
		}
	default:
		return fmt.Errorf("malformed PNG predictor row type %d", r.row[0])
	}
	copy(r.prev, cur)
	return nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
