// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bookmeta

import "strings"

// CleanISBN strips an ISBN down to its digits (and a final X check digit)
// and returns it if the checksum is valid for ISBN-10 or ISBN-13.
func CleanISBN(s string) (string, bool) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "urn:isbn:")
	s = strings.TrimPrefix(s, "isbn")
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == 'x':
			b.WriteByte('X')
		case c == '-' || c == ' ' || c == ':':
		default:
			return "", false
		}
	}
	isbn := b.String()
	if len(isbn) == 10 && validISBN10(isbn) || len(isbn) == 13 && validISBN13(isbn) {
		return isbn, true
	}
	return "", false
}

func validISBN10(s string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		var d int
		switch c := s[i]; {
		case c == 'X' && i == 9:
			d = 10
		case c >= '0' && c <= '9':
			d = int(c - '0')
		default:
			return false
		}
		sum += (10 - i) * d
	}
	return sum%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}
