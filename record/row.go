// row.go - Compact record decoding against a column layout
//
// A compact record is laid out as
//
//	[variable-length array | null bitmap | 5-byte header | user data ->]
//
// with the two prefix parts written backwards from the header. Decoding
// therefore starts at the user-data position and walks toward lower
// addresses first, then extracts the column bytes forward.
package record

import (
	"fmt"
	"strings"

	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/schema"
)

// ColValue is one decoded column slot: its type, the byte range it occupies
// within the record's user data, and the null/overflow flags from the
// record prefix. A null column has Len 0 and occupies no data bytes.
type ColValue struct {
	Type     schema.DataType
	Offset   int
	Len      int
	Overflow bool
	Null     bool
}

// Row is one record: the raw bytes from the start of its prefix to the end
// of its user data, plus the decoded per-column slots. The buffer is a view
// into the page, not a copy.
type Row struct {
	PageNo  uint32
	cols    []ColValue
	dataOff int
	buf     []byte
}

// NewRow wraps an already-parsed record. dataOff is the user-data start
// within buf; buf must begin at the record's prefix start.
func NewRow(pageNo uint32, cols []ColValue, dataOff int, buf []byte) Row {
	return Row{PageNo: pageNo, cols: cols, dataOff: dataOff, buf: buf}
}

// ParseRowPrefix decodes the null bitmap and variable-length array that
// precede the record header. dataPos is the absolute user-data position in
// page; columns is the physical layout for this page level. It returns the
// absolute start of the prefix and one ColValue per column with offsets
// assigned in storage order.
func ParseRowPrefix(columns []schema.Column, dataPos int, page []byte) (int, []ColValue, error) {
	pos := dataPos - format.RecordHeaderSize
	if pos < 0 || dataPos > len(page) {
		return 0, nil, fmt.Errorf("record prefix at %d: %w", dataPos, format.ErrBadLength)
	}

	cols := make([]ColValue, 0, len(columns))

	// Null bitmap, one bit per nullable column, bit 0 of the byte just
	// before the header first.
	nullNum := 0
	for _, column := range columns {
		cv := ColValue{Type: column.Type}
		if column.Nullable {
			byteIdx := pos - nullNum/8 - 1
			if byteIdx < 0 {
				return 0, nil, fmt.Errorf("null bitmap at %d: %w", byteIdx, format.ErrBadLength)
			}
			if page[byteIdx]>>(nullNum%8)&0x01 == 0x01 {
				cv.Null = true
			} else {
				cv.Len = column.Type.Len()
			}
			nullNum++
		} else {
			cv.Len = column.Type.Len()
		}
		cols = append(cols, cv)
	}
	pos -= (nullNum + 7) / 8

	// Variable-length array, stored in reverse column order: scanning
	// backwards yields the columns in storage order. The 2-byte form puts
	// the high 6 bits and the flags in the byte read first, the low 8 bits
	// in the byte further back.
	for i := range cols {
		if !cols[i].Type.IsVariable() || cols[i].Null {
			continue
		}
		pos--
		if pos < 0 {
			return 0, nil, fmt.Errorf("variable-length array at %d: %w", pos, format.ErrBadLength)
		}
		b := int(page[pos])
		if b&0x80 == 0 {
			cols[i].Len = b
			continue
		}
		pos--
		if pos < 0 {
			return 0, nil, fmt.Errorf("variable-length array at %d: %w", pos, format.ErrBadLength)
		}
		cols[i].Len = int(page[pos]) | (b&0x3F)<<8
		if b&0x40 == 0x40 {
			cols[i].Overflow = true
		}
	}

	off := 0
	for i := range cols {
		cols[i].Offset = off
		off += cols[i].Len
	}
	return pos, cols, nil
}

// Header re-reads the 5-byte header immediately before the user data.
func (r Row) Header() RecordHeader {
	h, _ := ParseRecordHeader(r.buf, r.dataOff-format.RecordHeaderSize)
	return h
}

// ColCount is the number of column slots in this record.
func (r Row) ColCount() int { return len(r.cols) }

// Cols returns the decoded column slots in storage order.
func (r Row) Cols() []ColValue { return r.cols }

// Col returns the on-page bytes of column i and, when the column overflowed,
// the external pointer decoded from the trailing 20 bytes; the returned
// slice is then only the locally stored prefix.
func (r Row) Col(i int) ([]byte, *OverflowPointer) {
	cv := r.cols[i]
	data := r.buf[r.dataOff+cv.Offset : r.dataOff+cv.Offset+cv.Len]
	if !cv.Overflow || cv.Len < OverflowPointerSize {
		return data, nil
	}
	ptr, err := ParseOverflowPointer(data[cv.Len-OverflowPointerSize:])
	if err != nil {
		return data, nil
	}
	return data[:cv.Len-OverflowPointerSize], &ptr
}

// Bytes is the whole record: prefix, header and user data.
func (r Row) Bytes() []byte { return r.buf }

// Data is the user-data section of the record.
func (r Row) Data() []byte { return r.buf[r.dataOff:] }

// DataLen is the total user-data length, the sum of all column lengths.
func (r Row) DataLen() int {
	n := 0
	for _, cv := range r.cols {
		n += cv.Len
	}
	return n
}

func (r Row) String() string {
	if len(r.buf) == 0 {
		return "<empty>"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "% x ", r.buf[:r.dataOff-format.RecordHeaderSize])
	fmt.Fprintf(&sb, "[%s]", r.Header())
	for i := range r.cols {
		data, ptr := r.Col(i)
		if r.cols[i].Null {
			sb.WriteString(" NULL")
			continue
		}
		fmt.Fprintf(&sb, " [% x]", data)
		if ptr != nil {
			fmt.Fprintf(&sb, "(overflow %s)", ptr)
		}
	}
	return sb.String()
}
