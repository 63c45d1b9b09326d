// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfmeta

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/ScriptRock/pdfmeta/internal/types"
)

// XMP namespace prefixes and the URIs they stand for.
var xmpNamespaces = map[string][]string{
	"rdf":       {"http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	"dc":        {"http://purl.org/dc/elements/1.1/"},
	"calibreSI": {"http://calibre-ebook.com/xmp-namespace-series-index"},
	"calibre":   {"http://calibre-ebook.com/xmp-namespace"},
	"pdfx":      {"http://ns.adobe.com/pdfx/1.3/"},
	"prism": {
		"http://prismstandard.org/namespaces/basic/2.0/",
		"http://prismstandard.org/namespaces/basic/3.0/",
	},
	"xmp": {"http://ns.adobe.com/xap/1.0/"},
}

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// An xmpField maps one metadata key to the XMP paths that can supply it,
// tried in order. A list field joins every rdf:li item.
type xmpField struct {
	key   string
	list  bool
	paths []string
}

var xmpFields = []xmpField{
	{key: "CreationDate", paths: []string{"dc:date", "xmp:CreateDate"}},
	{key: "Summary", paths: []string{"dc:description"}},
	{key: "Publisher", paths: []string{"dc:publisher"}},
	{key: "Author", list: true, paths: []string{"dc:creator"}},
	{key: "Title", paths: []string{"dc:title"}},
	{key: "Subject", list: true, paths: []string{"dc:subject"}},
	{key: "Language", paths: []string{"dc:language"}},
	{key: "ISBN", paths: []string{"pdfx:isbn", "prism:isbn"}},
	{key: "UserRating", paths: []string{"calibre:rating"}},
	{key: "TitleSort", paths: []string{"calibre:title_sort"}},
	{key: "Series", paths: []string{"calibre:series/rdf:value"}},
	{key: "Volume", paths: []string{"calibreSI:series_index"}},
}

// readXMP reads the metadata stream at off and merges its fields into meta.
func (r *reader) readXMP(num int, off int64, meta map[string]string) {
	b := r.b
	b.seek(off)
	b.readObjectHeader(num)
	b.expect(tokDictStart)

	var (
		typ, subtype, filter string
		length               int64 = -1
		lengthRef            types.Objref
		indirect             bool
		parms                = defaultParms
	)
	b.readDict(0, func(key string) bool {
		switch key {
		case "Type":
			typ = b.readNameValue(key)
		case "Subtype":
			subtype = b.readNameValue(key)
		case "Filter":
			filter = b.readFilter()
		case "DecodeParms":
			parms = b.readDecodeParms()
		case "Length":
			var direct bool
			length, lengthRef, direct = b.readIntOrRef(key)
			indirect = !direct
		default:
			return false
		}
		return true
	})
	if typ != "" && typ != "Metadata" {
		b.errorf("metadata stream %d has type %q", num, typ)
	}
	if subtype != "" && subtype != "XML" {
		b.errorf("metadata stream %d has subtype %q", num, subtype)
	}
	if indirect {
		resume := b.offset()
		length = r.resolveInt(lengthRef)
		b.seek(resume)
	}
	if length < 0 || length > r.size {
		b.errorf("metadata stream %d has invalid /Length %d", num, length)
	}
	b.expect(tokStreamStart)
	data := b.decodeStream(b.readRawSubStream(length), filter, parms)

	root, err := parseXMLTree(skipXMLDecl(data))
	if err != nil {
		b.errorf("metadata stream %d: %v", num, err)
	}
	for _, f := range xmpFields {
		if v, ok := root.field(f); ok {
			setIfAbsent(meta, f.key, v)
		}
	}
}

// skipXMLDecl drops a leading byte order mark and <?...?> declaration.
func skipXMLDecl(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(data, []byte("<?xml")) {
		if i := bytes.Index(data, []byte("?>")); i >= 0 {
			data = data[i+2:]
		}
	}
	return data
}

// An xmlNode is an element of a parsed XMP packet.
type xmlNode struct {
	name     xml.Name
	attr     []xml.Attr
	text     strings.Builder
	children []*xmlNode
}

func parseXMLTree(data []byte) (*xmlNode, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = false
	root := &xmlNode{}
	stack := []*xmlNode{root}
	for {
		t, err := d.Token()
		if errors.Is(err, io.EOF) {
			return root, nil
		}
		if err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		switch t := t.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name, attr: t.Attr}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			top.text.Write(t)
		}
	}
}

func (n *xmlNode) is(qname string) bool {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok || n.name.Local != local {
		return false
	}
	for _, uri := range xmpNamespaces[prefix] {
		if n.name.Space == uri {
			return true
		}
	}
	return false
}

// find returns the first element below n, depth first, named qname.
func (n *xmlNode) find(qname string) *xmlNode {
	for _, c := range n.children {
		if c.is(qname) {
			return c
		}
		if m := c.find(qname); m != nil {
			return m
		}
	}
	return nil
}

// findAttr returns the first attribute named qname on n or its descendants.
func (n *xmlNode) findAttr(qname string) (string, bool) {
	prefix, local, _ := strings.Cut(qname, ":")
	for _, a := range n.attr {
		if a.Name.Local != local {
			continue
		}
		for _, uri := range xmpNamespaces[prefix] {
			if a.Name.Space == uri {
				return a.Value, true
			}
		}
	}
	for _, c := range n.children {
		if v, ok := c.findAttr(qname); ok {
			return v, ok
		}
	}
	return "", false
}

// lookup follows a slash separated path of qualified names.
func (n *xmlNode) lookup(path string) *xmlNode {
	for _, qname := range strings.Split(path, "/") {
		if n = n.find(qname); n == nil {
			return nil
		}
	}
	return n
}

func (n *xmlNode) items() []*xmlNode {
	var items []*xmlNode
	var walk func(*xmlNode)
	walk = func(m *xmlNode) {
		for _, c := range m.children {
			if c.is("rdf:li") {
				items = append(items, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return items
}

func (n *xmlNode) value() string {
	return strings.TrimSpace(n.text.String())
}

// field returns the value of f, preferring element form over attribute form.
func (n *xmlNode) field(f xmpField) (string, bool) {
	for _, path := range f.paths {
		node := n.lookup(path)
		if node == nil {
			if strings.Contains(path, "/") {
				continue
			}
			if v, ok := n.findAttr(path); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), true
			}
			continue
		}
		var v string
		if items := node.items(); len(items) > 0 {
			v = joinItems(items, f.list)
		} else {
			v = node.value()
		}
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// joinItems flattens rdf:li items. Lists are joined with commas; scalars
// take the x-default language alternative, or else the first item.
func joinItems(items []*xmlNode, list bool) string {
	if list {
		var vals []string
		for _, it := range items {
			if v := it.value(); v != "" {
				vals = append(vals, v)
			}
		}
		return strings.Join(vals, ", ")
	}
	for _, it := range items {
		for _, a := range it.attr {
			if a.Name.Space == xmlNamespace && a.Name.Local == "lang" && a.Value == "x-default" {
				return it.value()
			}
		}
	}
	return items[0].value()
}
