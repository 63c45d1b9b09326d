// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bookmeta

import (
	"fmt"
	"strings"
	"time"
)

// ISO 8601 layouts, tried before the PDF date forms.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
}

// PDF date layouts after normalisation, most specific first.
// Normalisation turns ' into : and Z into +, so "+05'00'" becomes
// "+05:00:" and a bare "Z" becomes "+".
var pdfLayouts = []string{
	"D:20060102150405-07:00:",
	"D:20060102150405-07:00",
	"D:20060102150405-0700",
	"D:20060102150405-07",
	"D:20060102150405+",
	"D:20060102150405",
	"D:200601021504-07:00",
	"D:200601021504",
	"D:2006010215",
	"D:20060102",
	"D:200601",
	"D:2006",
}

// ParseDate parses an ISO 8601 date or a PDF date string
// (D:YYYYMMDDHHmmSSOHH'mm').
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	n := s
	if !strings.HasPrefix(n, "D:") {
		n = "D:" + n
	}
	n = strings.ReplaceAll(n, "'", ":")
	n = strings.ReplaceAll(n, "Z", "+")
	for _, layout := range pdfLayouts {
		if t, err := time.Parse(layout, n); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
