package pdfmeta

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"sort"
	"strings"
)

// A pdfBuilder writes small PDF files with correct offsets for tests.
type pdfBuilder struct {
	buf      bytes.Buffer
	offsets  map[int]int64
	lastXref int64
}

func newPDFBuilder() *pdfBuilder {
	p := &pdfBuilder{offsets: make(map[int]int64)}
	p.buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	return p
}

func (p *pdfBuilder) obj(num int, body string) *pdfBuilder {
	p.offsets[num] = int64(p.buf.Len())
	fmt.Fprintf(&p.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	return p
}

func (p *pdfBuilder) stream(num int, dict string, data []byte) *pdfBuilder {
	p.offsets[num] = int64(p.buf.Len())
	fmt.Fprintf(&p.buf, "%d 0 obj\n<< %s /Length %d >>\nstream\n", num, dict, len(data))
	p.buf.Write(data)
	p.buf.WriteString("\nendstream\nendobj\n")
	return p
}

// streamLengthRef writes a stream whose /Length is held in object lenNum.
func (p *pdfBuilder) streamLengthRef(num, lenNum int, dict string, data []byte) *pdfBuilder {
	p.offsets[num] = int64(p.buf.Len())
	fmt.Fprintf(&p.buf, "%d 0 obj\n<< %s /Length %d 0 R >>\nstream\r\n", num, dict, lenNum)
	p.buf.Write(data)
	p.buf.WriteString("\r\nendstream\nendobj\n")
	return p.obj(lenNum, fmt.Sprint(len(data)))
}

// runs groups sorted object numbers into contiguous runs.
func runs(nums []int) [][]int {
	nums = append([]int(nil), nums...)
	sort.Ints(nums)
	var out [][]int
	for i := 0; i < len(nums); {
		j := i + 1
		for j < len(nums) && nums[j] == nums[j-1]+1 {
			j++
		}
		out = append(out, nums[i:j])
		i = j
	}
	return out
}

// xrefTable writes a classic xref table listing nums, followed by the
// trailer and startxref. Object 0 is written as the free list head.
func (p *pdfBuilder) xrefTable(trailer string, nums ...int) *pdfBuilder {
	off := int64(p.buf.Len())
	p.buf.WriteString("xref\n")
	for _, run := range runs(nums) {
		fmt.Fprintf(&p.buf, "%d %d\n", run[0], len(run))
		for _, n := range run {
			if n == 0 {
				p.buf.WriteString("0000000000 65535 f\r\n")
				continue
			}
			fmt.Fprintf(&p.buf, "%010d 00000 n\r\n", p.offsets[n])
		}
	}
	fmt.Fprintf(&p.buf, "trailer\n<< %s >>\n", trailer)
	return p.startxref(off)
}

func (p *pdfBuilder) startxref(off int64) *pdfBuilder {
	fmt.Fprintf(&p.buf, "startxref\n%d\n%%%%EOF\n", off)
	p.lastXref = off
	return p
}

// xrefStreamObj writes xref stream object num listing nums and itself,
// and returns its offset. Rows use /W [1 4 1]; with predictor set they are
// PNG Up filtered.
func (p *pdfBuilder) xrefStreamObj(num int, dict string, predictor bool, nums ...int) int64 {
	off := int64(p.buf.Len())
	p.offsets[num] = off
	nums = append(nums, num)

	var index []string
	var rows [][]byte
	size := 0
	for _, run := range runs(nums) {
		index = append(index, fmt.Sprintf("%d %d", run[0], len(run)))
		for _, n := range run {
			size = max(size, n+1)
			if n == 0 {
				rows = append(rows, []byte{0, 0, 0, 0, 0, 255})
				continue
			}
			o := p.offsets[n]
			rows = append(rows, []byte{1, byte(o >> 24), byte(o >> 16), byte(o >> 8), byte(o), 0})
		}
	}

	var data []byte
	parms := ""
	if predictor {
		prev := make([]byte, 6)
		for _, row := range rows {
			data = append(data, 2)
			for i := range row {
				data = append(data, row[i]-prev[i])
			}
			prev = row
		}
		parms = "/DecodeParms << /Columns 6 /Predictor 12 >>"
	} else {
		data = bytes.Join(rows, nil)
	}
	p.stream(num, fmt.Sprintf("/Type /XRef /Size %d /W [1 4 1] /Index [%s] /Filter /FlateDecode %s %s",
		size, strings.Join(index, " "), parms, dict), deflate(data))
	return off
}

func (p *pdfBuilder) bytes() []byte {
	return p.buf.Bytes()
}

func (p *pdfBuilder) extract() (map[string]string, error) {
	data := p.buf.Bytes()
	return ExtractReader(bytes.NewReader(data), int64(len(data)), Options{})
}

func deflate(data []byte) []byte {
	var b bytes.Buffer
	zw := zlib.NewWriter(&b)
	zw.Write(data)
	zw.Close()
	return b.Bytes()
}

// readXref runs only the cross-reference resolver over data.
func readXref(data []byte) (r *reader, err error) {
	defer recoverError(&err)
	opts := Options{}.withDefaults()
	r = &reader{
		b:       newBuffer(bytes.NewReader(data), opts.BufferSize),
		size:    int64(len(data)),
		opts:    opts,
		visited: make(map[int64]bool),
	}
	r.readXrefAndTrailer(r.b.locateStartXrefOffset(r.size))
	return r, nil
}

// catch runs f and returns the error it panics with, if any.
func catch(f func()) (err error) {
	defer recoverError(&err)
	f()
	return nil
}

const (
	catalog = "<< /Type /Catalog /Pages 3 0 R >>"
	pages   = "<< /Type /Pages /Kids [] /Count 0 >>"
)
