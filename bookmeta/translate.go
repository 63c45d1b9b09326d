// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bookmeta turns the key/value metadata read from a PDF into a
// book record for a library catalogue.
package bookmeta

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// A Record is the library's view of one file's metadata.
type Record struct {
	Title       string
	TitleSort   string
	Summary     string
	Publisher   string
	Language    string
	Writers     []string
	Tags        []string
	ISBN        string // empty unless it carries a valid checksum
	Series      string
	Volume      float64
	HasVolume   bool
	Complete    bool // a stand-alone book, not a volume of a series
	Rating      float64
	ReleaseDate time.Time
}

// Translate builds a Record from extracted metadata.
func Translate(meta map[string]string) Record {
	rec := Record{
		Title:     text(meta["Title"]),
		TitleSort: text(meta["TitleSort"]),
		Summary:   text(meta["Summary"]),
		Publisher: text(meta["Publisher"]),
		Language:  text(meta["Language"]),
		Series:    text(meta["Series"]),
		Writers:   splitList(meta["Author"]),
		Tags:      splitList(meta["Subject"], meta["Keywords"]),
	}
	if isbn, ok := CleanISBN(meta["ISBN"]); ok {
		rec.ISBN = isbn
	}
	explicitSeries := rec.Series != ""
	if !explicitSeries {
		rec.Series = rec.TitleSort
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(meta["Volume"]), 64); err == nil {
		rec.Volume, rec.HasVolume = v, true
	}
	rec.Complete = !rec.HasVolume && !explicitSeries
	if v, err := strconv.ParseFloat(strings.TrimSpace(meta["UserRating"]), 64); err == nil {
		rec.Rating = v
	}
	if t, err := ParseDate(meta["CreationDate"]); err == nil {
		rec.ReleaseDate = t
	}
	return rec
}

func text(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// splitList splits comma or semicolon separated lists, dropping empty and
// repeated entries.
func splitList(lists ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, f := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ';' }) {
			f = text(f)
			if f == "" || seen[f] {
				continue
			}
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
