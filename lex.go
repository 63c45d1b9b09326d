// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Reading of PDF tokens from a raw byte stream.

package pdfmeta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ScriptRock/pdfmeta/internal/types"
)

const (
	defaultBufferSize = 4096
	minBufferSize     = startxrefTail

	// refLookahead bounds the scan that tells "n", "n g R" and "n g obj" apart.
	refLookahead = 32

	// startxrefTail is how far from the end of the file startxref is searched for.
	startxrefTail = 1024

	xrefRowSize = 20
)

// A buffer holds buffered input bytes from the PDF file.
// The file position of the underlying reader is always base+end.
type buffer struct {
	r    io.ReadSeeker // source of data
	buf  []byte        // fixed-size window, len(buf) == cap(buf)
	pos  int           // read index in buf
	end  int           // number of valid bytes in buf
	base int64         // file offset of buf[0]
	tmp  []byte        // scratch space for accumulating token
	dec  stringDecoder

	maxDepth int // bound on nested arrays and dictionaries while skipping
}

// newBuffer returns a new buffer reading from r, which is positioned at offset 0.
func newBuffer(r io.ReadSeeker, size int) *buffer {
	if size <= 0 {
		size = defaultBufferSize
	}
	if size < minBufferSize {
		size = minBufferSize
	}
	return &buffer{r: r, buf: make([]byte, size), maxDepth: defaultMaxDepth}
}

func (b *buffer) errorf(format string, args ...any) {
	panic(parseError{&SyntaxError{Offset: b.offset(), Msg: fmt.Sprintf(format, args...)}})
}

func (b *buffer) unsupported(format string, args ...any) {
	panic(parseError{&UnsupportedError{Feature: fmt.Sprintf(format, args...)}})
}

func (b *buffer) endOfStream() {
	panic(parseError{ErrEndOfStream})
}

func (b *buffer) ioError(err error) {
	panic(parseError{fmt.Errorf("reading PDF at offset %d: %w", b.base+int64(b.end), err)})
}

// offset returns the file offset of the next byte to be read.
func (b *buffer) offset() int64 {
	return b.base + int64(b.pos)
}

// read appends at least one byte to buf[end:] and reports how many it got.
// It returns 0 only at end of file.
func (b *buffer) read() int {
	for {
		n, err := b.r.Read(b.buf[b.end:])
		b.end += n
		if n > 0 {
			return n
		}
		if err == io.EOF {
			return 0
		}
		if err != nil {
			b.ioError(err)
		}
	}
}

// more reports whether at least one byte is available, refilling if needed.
func (b *buffer) more() bool {
	if b.pos < b.end {
		return true
	}
	b.base += int64(b.end)
	b.pos, b.end = 0, 0
	return b.read() > 0
}

func (b *buffer) nextByte() byte {
	if !b.more() {
		b.endOfStream()
	}
	c := b.buf[b.pos]
	b.pos++
	return c
}

// putBack rewinds exactly one byte.
func (b *buffer) putBack() {
	if b.pos == 0 {
		b.errorf("internal error: put back past start of buffer")
	}
	b.pos--
}

// testByte reports whether the next byte is want, without consuming it.
func (b *buffer) testByte(want byte) bool {
	return b.more() && b.buf[b.pos] == want
}

// wantLookahead tries to buffer at least n bytes past pos, sliding the unread
// bytes to the start of buf. It returns the number of bytes available,
// which is less than n only near end of file.
func (b *buffer) wantLookahead(n int) int {
	if n > len(b.buf) {
		n = len(b.buf)
	}
	if b.end-b.pos < n {
		copy(b.buf, b.buf[b.pos:b.end])
		b.base += int64(b.pos)
		b.end -= b.pos
		b.pos = 0
		for b.end < n && b.read() > 0 {
		}
	}
	return min(n, b.end-b.pos)
}

// peek returns up to n buffered bytes without consuming them.
func (b *buffer) peek(n int) []byte {
	n = b.wantLookahead(n)
	return b.buf[b.pos : b.pos+n]
}

// resetBuffer discards buffered bytes. It must follow any seek on r.
func (b *buffer) resetBuffer() {
	b.pos, b.end = 0, 0
}

func (b *buffer) seek(offset int64) {
	if _, err := b.r.Seek(offset, io.SeekStart); err != nil {
		b.ioError(err)
	}
	b.base = offset
	b.resetBuffer()
}

// readRawSubStream returns the next length bytes, taking already buffered
// bytes first and reading the rest directly from the file.
func (b *buffer) readRawSubStream(length int64) []byte {
	if length < 0 {
		b.errorf("negative stream length %d", length)
	}
	out := make([]byte, length)
	n := copy(out, b.buf[b.pos:b.end])
	b.pos += n
	if n < len(out) {
		start := b.base + int64(b.end)
		if _, err := io.ReadFull(b.r, out[n:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				b.endOfStream()
			}
			b.ioError(err)
		}
		b.base = start + int64(len(out)-n)
		b.resetBuffer()
	}
	return out
}

// nextToken returns the next token, skipping white space and comments.
// If reportNewlines is set, an end of line is returned as a tokNewline.
func (b *buffer) nextToken(reportNewlines bool) token {
	for {
		c := b.nextByte()
		switch {
		case c == '\r' || c == '\n':
			if reportNewlines {
				if c == '\r' && b.testByte('\n') {
					b.pos++
				}
				return token{kind: tokNewline}
			}
		case isSpace(c):
			// skip
		case c == '%':
			b.skipComment()
		default:
			return b.dispatch(c)
		}
	}
}

func (b *buffer) skipComment() {
	for b.more() {
		c := b.buf[b.pos]
		if c == '\r' || c == '\n' {
			return
		}
		b.pos++
	}
}

func (b *buffer) dispatch(c byte) token {
	switch {
	case c == '+' || c == '-' || c == '.' || isDigit(c):
		return b.readNumber(c)
	case c == '/':
		return b.readName()
	case c == '(':
		return b.readLiteralString()
	case c == '<':
		if b.testByte('<') {
			b.pos++
			return token{kind: tokDictStart}
		}
		return b.readHexString()
	case c == '>':
		if b.testByte('>') {
			b.pos++
			return token{kind: tokDictEnd}
		}
		b.errorf("unexpected delimiter %#q", rune(c))
	case c == '[':
		return token{kind: tokArrayStart}
	case c == ']':
		return token{kind: tokArrayEnd}
	case isDelim(c):
		b.errorf("unexpected delimiter %#q", rune(c))
	}
	return b.readKeyword(c)
}

func (b *buffer) readNumber(first byte) token {
	tmp := append(b.tmp[:0], first)
	real := first == '.'
	for b.more() {
		c := b.nextByte()
		if c == '.' && !real {
			real = true
		} else if !isDigit(c) {
			b.putBack()
			break
		}
		tmp = append(tmp, c)
	}
	b.tmp = tmp
	s := string(tmp)
	if real {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			b.errorf("invalid real %s", s)
		}
		return token{kind: tokReal, f: x}
	}
	x, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		b.errorf("invalid integer %s", s)
	}
	if isDigit(first) && b.more() && isSpace(b.buf[b.pos]) {
		if t, ok := b.readReference(x); ok {
			return t
		}
	}
	return token{kind: tokInt, i: x}
}

// readReference looks past an unsigned integer for "gen R" or "gen obj".
// Nothing is consumed unless one of them matches. The lookahead window
// grows while the text it holds is too short to decide.
func (b *buffer) readReference(num int64) (token, bool) {
	if num > int64(maxObjectNumber) {
		return token{}, false
	}
	for n := refLookahead; ; n *= 2 {
		look := b.peek(n)
		atEOF := len(look) < n
		tok, used, short := matchReference(look, atEOF, num)
		if short && !atEOF && n < len(b.buf) {
			continue
		}
		if used == 0 {
			return token{}, false
		}
		b.pos += used
		return tok, true
	}
}

// matchReference matches "gen R" or "gen obj" after leading white space in
// look and returns the number of bytes it spans. It reports short when look
// ends before the match is decided.
func matchReference(look []byte, atEOF bool, num int64) (tok token, used int, short bool) {
	i := skipSpace(look, 0)
	j := i
	for j < len(look) && isDigit(look[j]) {
		j++
	}
	k := skipSpace(look, j)
	if k == len(look) && !atEOF {
		return token{}, 0, true
	}
	if j == i || j-i > 5 || k == j {
		return token{}, 0, false
	}
	gen, _ := strconv.Atoi(string(look[i:j]))
	ref := types.Objref{Num: int(num), Gen: gen}
	for _, kw := range [...]struct {
		word string
		kind tokenKind
	}{{"R", tokObjRef}, {"obj", tokObjStart}} {
		end := k + len(kw.word)
		if end > len(look) {
			if !atEOF && strings.HasPrefix(kw.word, string(look[k:])) {
				return token{}, 0, true
			}
			continue
		}
		if string(look[k:end]) != kw.word {
			continue
		}
		switch {
		case end < len(look) && (isSpace(look[end]) || isDelim(look[end])):
			return token{kind: kw.kind, ref: ref}, end, false
		case end == len(look) && atEOF:
			return token{kind: kw.kind, ref: ref}, end, false
		case end == len(look):
			return token{}, 0, true
		}
	}
	return token{}, 0, false
}

func (b *buffer) readName() token {
	tmp := b.tmp[:0]
	for b.more() {
		c := b.nextByte()
		if isDelim(c) || isSpace(c) {
			b.putBack()
			break
		}
		if c == '#' {
			x := unhex(b.nextByte())<<4 | unhex(b.nextByte())
			if x < 0 {
				b.errorf("malformed name")
			}
			tmp = append(tmp, byte(x))
			continue
		}
		tmp = append(tmp, c)
	}
	b.tmp = tmp
	return token{kind: tokName, s: string(tmp)}
}

func (b *buffer) readLiteralString() token {
	d := &b.dec
	d.reset()
	depth := 1
	for {
		c := b.nextByte()
		switch c {
		default:
			d.writeByte(c)
		case '(':
			depth++
			d.writeByte(c)
		case ')':
			if depth--; depth == 0 {
				return token{kind: tokString, s: d.String()}
			}
			d.writeByte(c)
		case '\\':
			switch c = b.nextByte(); c {
			default:
				// An unknown escape drops the backslash.
				d.writeByte(c)
			case 'n':
				d.writeByte('\n')
			case 'r':
				d.writeByte('\r')
			case 'b':
				d.writeByte('\b')
			case 't':
				d.writeByte('\t')
			case 'f':
				d.writeByte('\f')
			case '\r':
				if !b.testByte('\n') {
					break
				}
				b.pos++
			case '\n':
				// line continuation
			case '0', '1', '2', '3', '4', '5', '6', '7':
				x := int(c - '0')
				for i := 0; i < 2; i++ {
					c = b.nextByte()
					if c < '0' || c > '7' {
						b.putBack()
						break
					}
					x = x*8 + int(c-'0')
				}
				if x > 255 {
					b.errorf("invalid octal escape \\%03o", x)
				}
				d.writeByte(byte(x))
			}
		}
	}
}

func (b *buffer) readHexString() token {
	d := &b.dec
	d.reset()
	hi := -1
	for {
		c := b.nextByte()
		if c == '>' {
			break
		}
		if isSpace(c) {
			continue
		}
		x := unhex(c)
		if x < 0 {
			b.errorf("malformed hex string %#q", rune(c))
		}
		if hi < 0 {
			hi = x
			continue
		}
		d.writeByte(byte(hi<<4 | x))
		hi = -1
	}
	if hi >= 0 {
		d.writeByte(byte(hi << 4))
	}
	return token{kind: tokString, s: d.String()}
}

func (b *buffer) readKeyword(first byte) token {
	tmp := append(b.tmp[:0], first)
	for b.more() {
		c := b.nextByte()
		if isDelim(c) || isSpace(c) {
			b.putBack()
			break
		}
		tmp = append(tmp, c)
	}
	b.tmp = tmp
	switch s := string(tmp); s {
	case "true":
		return token{kind: tokBool, b: true}
	case "false":
		return token{kind: tokBool, b: false}
	case "stream":
		b.skipStreamEOL()
		return token{kind: tokStreamStart}
	case "endstream":
		return token{kind: tokStreamEnd}
	case "endobj":
		return token{kind: tokObjEnd}
	default:
		return token{kind: tokKeyword, s: s}
	}
}

// skipStreamEOL consumes the end of line that must follow the stream keyword.
func (b *buffer) skipStreamEOL() {
	switch b.nextByte() {
	case '\r':
		if b.testByte('\n') {
			b.pos++
		}
	case '\n':
		// ok
	default:
		b.errorf("stream keyword not followed by newline")
	}
}

// locateStartXrefOffset finds the last startxref line near the end of a
// file of the given size and returns the offset that follows it.
func (b *buffer) locateStartXrefOffset(size int64) int64 {
	start := max(size-startxrefTail, 0)
	b.seek(start)
	if start > 0 {
		// skip the partial line we landed in
		for c := b.nextByte(); c != '\r' && c != '\n'; c = b.nextByte() {
		}
	}
	tail := b.peek(len(b.buf))
	i := findLastLine(tail, "startxref")
	if i < 0 {
		b.errorf("missing final startxref")
	}
	b.pos += i
	if tok := b.nextToken(false); !tok.isKeyword("startxref") {
		b.errorf("missing startxref, found %v", tok)
	}
	tok := b.nextToken(false)
	if !tok.is(tokInt) {
		b.errorf("startxref not followed by integer: %v", tok)
	}
	return tok.i
}

// findLastLine returns the index of the last occurrence of s in buf that
// starts a line and is followed by white space.
func findLastLine(buf []byte, s string) int {
	bs := []byte(s)
	max := len(buf)
	for {
		i := bytes.LastIndex(buf[:max], bs)
		if i < 0 || i+len(bs) >= len(buf) {
			return -1
		}
		if (i == 0 || buf[i-1] == '\n' || buf[i-1] == '\r') && isSpace(buf[i+len(bs)]) {
			return i
		}
		max = i
	}
}

// readClassicXrefRow reads one fixed-width row of a classic xref table:
// ten digit offset, space, five digit generation, space, n or f, end of line.
func (b *buffer) readClassicXrefRow() (offset int64, gen int, inUse bool) {
	row := b.peek(xrefRowSize)
	if len(row) < xrefRowSize-2 {
		b.endOfStream()
	}
	off, ok1 := parseDigits(row[0:10])
	g, ok2 := parseDigits(row[11:16])
	if !ok1 || !ok2 || row[10] != ' ' || row[16] != ' ' {
		b.errorf("malformed xref table row %q", row)
	}
	switch row[17] {
	case 'n':
		inUse = true
	case 'f':
	default:
		b.errorf("malformed xref table row %q", row)
	}
	b.pos += xrefRowSize - 2
	for i := 0; i < 2 && b.more() && isSpace(b.buf[b.pos]); i++ {
		b.pos++
	}
	return off, int(g), inUse
}

func parseDigits(s []byte) (int64, bool) {
	var x int64
	for _, c := range s {
		if !isDigit(c) {
			return 0, false
		}
		x = x*10 + int64(c-'0')
	}
	return x, true
}

func skipSpace(buf []byte, i int) int {
	for i < len(buf) && isSpace(buf[i]) {
		i++
	}
	return i
}

func unhex(b byte) int {
	switch {
	case '0' <= b && b <= '9':
		return int(b) - '0'
	case 'a' <= b && b <= 'f':
		return int(b) - 'a' + 10
	case 'A' <= b && b <= 'F':
		return int(b) - 'A' + 10
	}
	return -1
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isSpace(b byte) bool {
	switch b {
	case '\x00', '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '<', '>', '(', ')', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
