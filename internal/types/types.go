// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types holds the small value types shared by the metadata reader.
package types

// An Objref is an indirect object reference, num gen R.
type Objref struct {
	Num int
	Gen int
}

// A MetadataRef is one revision's pair of Root and Info object numbers.
// A missing entry is -1.
type MetadataRef struct {
	Root int
	Info int
}

// NoRef is a MetadataRef with neither entry present.
var NoRef = MetadataRef{Root: -1, Info: -1}

// A Section is a contiguous run of object numbers in an xref stream.
type Section struct {
	First int
	Count int
}

// An OffsetTable maps object numbers to byte offsets in the file.
// Index 0 is never used and an offset of 0 means the object is free or missing.
type OffsetTable struct {
	offsets []int64
}

// Grow makes room for object numbers below n. It never shrinks the table.
func (t *OffsetTable) Grow(n int) {
	if n <= len(t.offsets) {
		return
	}
	if n <= cap(t.offsets) {
		t.offsets = t.offsets[:n]
		return
	}
	grown := make([]int64, n, n+n/4)
	copy(grown, t.offsets)
	t.offsets = grown
}

// Set records off for object num unless an offset is already known for it.
// The first writer wins, so the newest revision must be read first.
func (t *OffsetTable) Set(num int, off int64) bool {
	if num <= 0 || off <= 0 {
		return false
	}
	t.Grow(num + 1)
	if t.offsets[num] != 0 {
		return false
	}
	t.offsets[num] = off
	return true
}

// Lookup returns the offset of object num.
// Out-of-range numbers and free entries report ok == false.
func (t *OffsetTable) Lookup(num int) (off int64, ok bool) {
	if num <= 0 || num >= len(t.offsets) {
		return 0, false
	}
	off = t.offsets[num]
	return off, off != 0
}

// Len returns one more than the largest object number the table can hold.
func (t *OffsetTable) Len() int {
	return len(t.offsets)
}

// A RefStack collects MetadataRefs while walking the revision chain.
// Pairs are pushed oldest first so that Pop yields the newest revision first.
type RefStack struct {
	refs []MetadataRef
}

// Push adds r unless it is identical to the current top of the stack.
// Identical pairs that are not adjacent are kept.
func (s *RefStack) Push(r MetadataRef) bool {
	if n := len(s.refs); n > 0 && s.refs[n-1] == r {
		return false
	}
	s.refs = append(s.refs, r)
	return true
}

// Pop removes and returns the top of the stack.
func (s *RefStack) Pop() (MetadataRef, bool) {
	n := len(s.refs)
	if n == 0 {
		return NoRef, false
	}
	r := s.refs[n-1]
	s.refs = s.refs[:n-1]
	return r, true
}

// Len returns the number of pairs on the stack.
func (s *RefStack) Len() int {
	return len(s.refs)
}
