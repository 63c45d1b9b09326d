package pdfmeta

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePDF() *pdfBuilder {
	p := newPDFBuilder()
	p.obj(1, catalog)
	p.obj(2, "<< /Title (Sample) /Author (Jane Doe) >>")
	p.obj(3, pages)
	return p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)
}

func TestExtract_InfoDictionary(t *testing.T) {
	got, err := samplePDF().extract()
	require.NoError(t, err)

	want := map[string]string{"Title": "Sample", "Author": "Jane Doe"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, samplePDF().bytes(), 0o644))

	first, err := Extract(path)
	require.NoError(t, err)
	second, err := Extract(path)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Error("repeated extraction differs:", diff)
	}

	_, err = Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_InfoValues(t *testing.T) {
	testCases := map[string]struct {
		info string
		want map[string]string
	}{
		"all keys": {
			info: "<< /Title (T) /Author (A) /Subject (S) /Keywords (K) /Creator (C) /Producer (P) /CreationDate (D:20230115123045+05'00') /ModDate (D:2024) >>",
			want: map[string]string{
				"Title": "T", "Author": "A", "Subject": "S", "Keywords": "K", "Creator": "C",
				"Producer": "P", "CreationDate": "D:20230115123045+05'00'", "ModDate": "D:2024",
			},
		},
		"unknown keys skipped": {
			info: "<< /Custom << /Nested [1 2 [3 << /X (y) >>]] >> /Trapped /False /Title (Kept) >>",
			want: map[string]string{"Title": "Kept"},
		},
		"utf-16 and pdfdoc strings": {
			info: "<< /Title <FEFF004800E9> /Author (\x80 Bullet) >>",
			want: map[string]string{"Title": "Hé", "Author": "• Bullet"},
		},
		"null treated as absent": {
			info: "<< /Title null /Author (A) >>",
			want: map[string]string{"Author": "A"},
		},
		"first duplicate wins": {
			info: "<< /Title (First) /Title (Second) >>",
			want: map[string]string{"Title": "First"},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			p := newPDFBuilder()
			p.obj(1, catalog).obj(2, tc.info).obj(3, pages)
			p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)

			got, err := p.extract()
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Error("metadata did not match expectation:", diff)
			}
		})
	}
}

func TestExtract_IndirectInfoValue(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog)
	p.obj(2, "<< /Title 4 0 R /Author (Direct) >>")
	p.obj(3, pages)
	p.obj(4, "(Indirect Title)")
	p.xrefTable("/Size 5 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3, 4)

	got, err := p.extract()
	require.NoError(t, err)
	want := map[string]string{"Title": "Indirect Title", "Author": "Direct"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_InfoWrongType(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog).obj(2, "<< /Title 42 >>").obj(3, pages)
	p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)

	got, err := p.extract()
	assert.Nil(t, got)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExtract_NoInfo(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog).obj(3, pages)
	p.xrefTable("/Size 4 /Root 1 0 R", 0, 1, 3)

	got, err := p.extract()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtract_InfoObjectMissingFromTable(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog).obj(3, pages)
	p.xrefTable("/Size 10 /Root 1 0 R /Info 9 0 R", 0, 1, 3)

	got, err := p.extract()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtract_RevisionPrecedence(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog)
	p.obj(2, "<< /Title (Old Title) /Subject (Only in old) >>")
	p.obj(3, pages)
	p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)

	p.obj(4, "<< /Title (New Title) /Producer (Updater) >>")
	p.xrefTable(fmt.Sprintf("/Size 5 /Root 1 0 R /Info 4 0 R /Prev %d", p.lastXref), 4)

	got, err := p.extract()
	require.NoError(t, err)
	want := map[string]string{
		"Title":    "New Title",
		"Subject":  "Only in old",
		"Producer": "Updater",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_RevisionReplacesObject(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog)
	p.obj(2, "<< /Title (Old) /Subject (Old subject) >>")
	p.obj(3, pages)
	p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)

	// The update rewrites object 2 in place, so the old version is unreachable.
	p.obj(2, "<< /Title (New) >>")
	p.xrefTable(fmt.Sprintf("/Size 4 /Root 1 0 R /Info 2 0 R /Prev %d", p.lastXref), 2)

	got, err := p.extract()
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]string{"Title": "New"}, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_XrefStream(t *testing.T) {
	for _, predictor := range []bool{false, true} {
		t.Run(fmt.Sprintf("predictor=%v", predictor), func(t *testing.T) {
			p := newPDFBuilder()
			p.obj(1, catalog)
			p.obj(2, "<< /Title (Sample) /Author (Jane Doe) >>")
			p.obj(3, pages)
			off := p.xrefStreamObj(4, "/Root 1 0 R /Info 2 0 R", predictor, 0, 1, 2, 3)
			p.startxref(off)

			got, err := p.extract()
			require.NoError(t, err)
			want := map[string]string{"Title": "Sample", "Author": "Jane Doe"}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Error("metadata did not match expectation:", diff)
			}
		})
	}
}

func TestExtract_MixedRevisions(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog)
	p.obj(2, "<< /Title (Classic) /Author (Original Author) >>")
	p.obj(3, pages)
	p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)

	p.obj(5, "<< /Title (Streamed) >>")
	off := p.xrefStreamObj(6, fmt.Sprintf("/Root 1 0 R /Info 5 0 R /Prev %d", p.lastXref), true, 5)
	p.startxref(off)

	got, err := p.extract()
	require.NoError(t, err)
	want := map[string]string{"Title": "Streamed", "Author": "Original Author"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_HybridReference(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog)
	p.obj(3, pages)
	p.obj(5, "<< /Title (Only in XRefStm) >>")
	stm := p.xrefStreamObj(6, "", false, 5)
	p.xrefTable(fmt.Sprintf("/Size 7 /Root 1 0 R /Info 5 0 R /XRefStm %d", stm), 0, 1, 3)

	got, err := p.extract()
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]string{"Title": "Only in XRefStm"}, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_HybridStreamInfoIsNewer(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog)
	p.obj(2, "<< /Title (Old) /Author (Old Author) >>")
	p.obj(3, pages)
	p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)
	old := p.lastXref

	p.obj(5, "<< /Title (Newest) >>")
	stm := p.xrefStreamObj(6, "/Info 5 0 R", false, 5)
	p.xrefTable(fmt.Sprintf("/Size 7 /Root 1 0 R /XRefStm %d /Prev %d", stm, old), 1)

	got, err := p.extract()
	require.NoError(t, err)
	want := map[string]string{"Title": "Newest", "Author": "Old Author"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

const calibreXMP = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
 <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about="" xmlns:dc="http://purl.org/dc/elements/1.1/">
   <dc:title><rdf:Alt><rdf:li xml:lang="fr">Le Titre</rdf:li><rdf:li xml:lang="x-default">The Title</rdf:li></rdf:Alt></dc:title>
   <dc:creator><rdf:Seq><rdf:li>Ann Author</rdf:li><rdf:li>Bob Writer</rdf:li></rdf:Seq></dc:creator>
   <dc:description><rdf:Alt><rdf:li xml:lang="x-default">A summary.</rdf:li></rdf:Alt></dc:description>
   <dc:publisher><rdf:Bag><rdf:li>Pub House</rdf:li></rdf:Bag></dc:publisher>
   <dc:subject><rdf:Bag><rdf:li>Fiction</rdf:li><rdf:li>Space</rdf:li></rdf:Bag></dc:subject>
   <dc:language><rdf:Bag><rdf:li>en</rdf:li></rdf:Bag></dc:language>
   <dc:date><rdf:Seq><rdf:li>2023-01-15T12:30:45+05:00</rdf:li></rdf:Seq></dc:date>
  </rdf:Description>
  <rdf:Description rdf:about="" xmlns:calibre="http://calibre-ebook.com/xmp-namespace" xmlns:calibreSI="http://calibre-ebook.com/xmp-namespace-series-index">
   <calibre:series rdf:parseType="Resource"><rdf:value>The Saga</rdf:value><calibreSI:series_index>2.00</calibreSI:series_index></calibre:series>
   <calibre:rating>8</calibre:rating>
   <calibre:title_sort>Title, The</calibre:title_sort>
  </rdf:Description>
  <rdf:Description rdf:about="" xmlns:prism="http://prismstandard.org/namespaces/basic/3.0/" prism:isbn="9780306406157"/>
 </rdf:RDF>
</x:xmpmeta>
<?xpacket end="w"?>`

var calibreWant = map[string]string{
	"CreationDate": "2023-01-15T12:30:45+05:00",
	"Summary":      "A summary.",
	"Publisher":    "Pub House",
	"Author":       "Ann Author, Bob Writer",
	"Title":        "The Title",
	"Subject":      "Fiction, Space",
	"Language":     "en",
	"ISBN":         "9780306406157",
	"UserRating":   "8",
	"TitleSort":    "Title, The",
	"Series":       "The Saga",
	"Volume":       "2.00",
}

func TestExtract_XMP(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, "<< /Type /Catalog /Pages 3 0 R /Metadata 4 0 R >>")
	p.obj(3, pages)
	p.stream(4, "/Type /Metadata /Subtype /XML /Filter /FlateDecode", deflate([]byte(calibreXMP)))
	p.xrefTable("/Size 5 /Root 1 0 R", 0, 1, 3, 4)

	got, err := p.extract()
	require.NoError(t, err)
	if diff := cmp.Diff(calibreWant, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_XMPIndirectLength(t *testing.T) {
	xmp := `<?xml version="1.0" encoding="UTF-8"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmlns:pdfx="http://ns.adobe.com/pdfx/1.3/" xmp:CreateDate="2020-05-01T10:00:00Z">
<pdfx:isbn>0-306-40615-2</pdfx:isbn>
</rdf:Description></rdf:RDF></x:xmpmeta>`

	p := newPDFBuilder()
	p.obj(1, "<< /Type /Catalog /Pages 3 0 R /Metadata 4 0 R >>")
	p.obj(2, "<< /Title (From Info) >>")
	p.obj(3, pages)
	p.streamLengthRef(4, 5, "/Type /Metadata /Subtype /XML", []byte(xmp))
	p.xrefTable("/Size 6 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3, 4, 5)

	got, err := p.extract()
	require.NoError(t, err)
	want := map[string]string{
		"Title":        "From Info",
		"CreationDate": "2020-05-01T10:00:00Z",
		"ISBN":         "0-306-40615-2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestExtract_InfoWinsOverXMPInSameRevision(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, "<< /Type /Catalog /Pages 3 0 R /Metadata 4 0 R >>")
	p.obj(2, "<< /Title (Info Title) >>")
	p.obj(3, pages)
	p.stream(4, "/Type /Metadata /Subtype /XML /Filter [/FlateDecode]", deflate([]byte(calibreXMP)))
	p.xrefTable("/Size 5 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3, 4)

	got, err := p.extract()
	require.NoError(t, err)
	assert.Equal(t, "Info Title", got["Title"])
	assert.Equal(t, "The Saga", got["Series"])
}

func TestExtract_Failures(t *testing.T) {
	testCases := map[string]struct {
		build func() *pdfBuilder
		want  error
	}{
		"encrypted": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog).obj(2, "<< /Title (Secret) >>").obj(3, pages).obj(4, "<< /Filter /Standard /V 2 >>")
				return p.xrefTable("/Size 5 /Root 1 0 R /Info 2 0 R /Encrypt 4 0 R", 0, 1, 2, 3, 4)
			},
			want: ErrUnsupported,
		},
		"encrypted xref stream": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog).obj(3, pages).obj(4, "<< /Filter /Standard >>")
				return p.startxref(p.xrefStreamObj(5, "/Root 1 0 R /Encrypt 4 0 R", false, 0, 1, 3, 4))
			},
			want: ErrUnsupported,
		},
		"LZW metadata stream": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, "<< /Type /Catalog /Pages 3 0 R /Metadata 4 0 R >>").obj(3, pages)
				p.stream(4, "/Type /Metadata /Subtype /XML /Filter /LZWDecode", []byte("\x80\x0b\x60\x50\x22\x0c\x0c\x85\x01"))
				return p.xrefTable("/Size 5 /Root 1 0 R", 0, 1, 3, 4)
			},
			want: ErrUnsupported,
		},
		"LZW xref stream": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog).obj(3, pages)
				off := int64(p.buf.Len())
				p.stream(4, "/Type /XRef /Size 5 /W [1 4 1] /Root 1 0 R /Filter /LZWDecode", []byte("\x80\x0b\x60\x50"))
				return p.startxref(off)
			},
			want: ErrUnsupported,
		},
		"xref chain loop": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog).obj(3, pages)
				off := p.buf.Len()
				return p.xrefTable(fmt.Sprintf("/Size 4 /Root 1 0 R /Prev %d", off), 0, 1, 3)
			},
			want: ErrMalformed,
		},
		"trailer without root": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(2, "<< /Title (x) >>")
				return p.xrefTable("/Size 3 /Info 2 0 R", 0, 2)
			},
			want: ErrMalformed,
		},
		"startxref out of range": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog)
				return p.startxref(1 << 20)
			},
			want: ErrMalformed,
		},
		"wrong object at offset": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog).obj(2, "<< /Title (x) >>").obj(3, pages)
				p.offsets[2] = p.offsets[3]
				return p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)
			},
			want: ErrMalformed,
		},
		"xref stream not XRef": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog).obj(3, pages)
				off := int64(p.buf.Len())
				p.stream(4, "/Type /ObjStm /Size 5 /W [1 4 1]", nil)
				return p.startxref(off)
			},
			want: ErrMalformed,
		},
		"nesting too deep": {
			build: func() *pdfBuilder {
				return nestedInfo(100)
			},
			want: ErrMalformed,
		},
		"unterminated string": {
			build: func() *pdfBuilder {
				p := newPDFBuilder()
				p.obj(1, catalog).obj(2, "<< /Title (never closed >>").obj(3, pages)
				return p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)
			},
			want: ErrEndOfStream,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := tc.build().extract()
			assert.Nil(t, got)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExtract_NotPDF(t *testing.T) {
	data := []byte("GIF89a not a pdf at all\nstartxref\n0\n%%EOF\n")
	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)), Options{})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExtract_Truncated(t *testing.T) {
	data := samplePDF().bytes()
	data = data[:len(data)/2]
	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)), Options{})
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed) || errors.Is(err, ErrEndOfStream), "unexpected error %v", err)
}

func TestExtract_MaxRevisions(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog).obj(3, pages)
	p.xrefTable("/Size 4 /Root 1 0 R", 0, 1, 3)
	for i := 0; i < 3; i++ {
		p.obj(10+i, fmt.Sprintf("<< /Title (Rev %d) >>", i))
		p.xrefTable(fmt.Sprintf("/Size 20 /Root 1 0 R /Info %d 0 R /Prev %d", 10+i, p.lastXref), 10+i)
	}
	data := p.bytes()

	_, err := ExtractReader(bytes.NewReader(data), int64(len(data)), Options{MaxRevisions: 2})
	assert.ErrorIs(t, err, ErrMalformed)

	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Title": "Rev 2"}, got)
}

func TestExtract_SmallBuffer(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, "<< /Type /Catalog /Pages 3 0 R /Metadata 4 0 R >>")
	p.obj(3, pages)
	p.stream(4, "/Type /Metadata /Subtype /XML", []byte(calibreXMP))
	p.xrefTable("/Size 5 /Root 1 0 R", 0, 1, 3, 4)
	data := p.bytes()
	require.Greater(t, len(data), minBufferSize)

	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)), Options{BufferSize: 1})
	require.NoError(t, err)
	if diff := cmp.Diff(calibreWant, got); diff != "" {
		t.Error("metadata did not match expectation:", diff)
	}
}

func TestReadXref_ClassicAndStreamAgree(t *testing.T) {
	build := func() *pdfBuilder {
		p := newPDFBuilder()
		return p.obj(1, catalog).obj(2, "<< /Title (T) >>").obj(3, pages)
	}
	classic := build().xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)
	stream := build()
	stream.startxref(stream.xrefStreamObj(4, "/Root 1 0 R /Info 2 0 R", true, 0, 1, 2, 3))

	rc, err := readXref(classic.bytes())
	require.NoError(t, err)
	rs, err := readXref(stream.bytes())
	require.NoError(t, err)

	for num := 0; num <= 3; num++ {
		offC, okC := rc.offsets.Lookup(num)
		offS, okS := rs.offsets.Lookup(num)
		assert.Equal(t, okC, okS, "object %d", num)
		assert.Equal(t, offC, offS, "object %d", num)
		if num > 0 {
			assert.Equal(t, classic.offsets[num], offC, "object %d", num)
		}
	}
	assert.Equal(t, 1, rc.refs.Len())
	assert.Equal(t, 1, rs.refs.Len())
	ref, _ := rs.refs.Pop()
	assert.Equal(t, 2, ref.Info)
}

// nestedInfo returns a file whose Info dictionary holds an unknown key with
// depth nested arrays before its Title.
func nestedInfo(depth int) *pdfBuilder {
	deep := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	p := newPDFBuilder()
	p.obj(1, catalog).obj(2, "<< /Deep "+deep+" /Title (Deep) >>").obj(3, pages)
	return p.xrefTable("/Size 4 /Root 1 0 R /Info 2 0 R", 0, 1, 2, 3)
}

func TestExtract_MaxDepth(t *testing.T) {
	data := nestedInfo(40).bytes()

	_, err := ExtractReader(bytes.NewReader(data), int64(len(data)), Options{})
	assert.ErrorIs(t, err, ErrMalformed)

	got, err := ExtractReader(bytes.NewReader(data), int64(len(data)), Options{MaxDepth: 64})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Title": "Deep"}, got)
}

func TestReadXref_HugeSubsectionHeader(t *testing.T) {
	p := newPDFBuilder()
	p.obj(1, catalog)
	off := int64(p.buf.Len())
	fmt.Fprintf(&p.buf, "xref\n0 8388607\n0000000000 65535 f\r\n%010d 00000 n\r\n", p.offsets[1])
	p.startxref(off)

	r, err := readXref(p.bytes())
	assert.ErrorIs(t, err, ErrMalformed)
	require.NotNil(t, r)
	assert.Less(t, r.offsets.Len(), 16)
}
