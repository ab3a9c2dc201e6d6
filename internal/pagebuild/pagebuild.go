// Package pagebuild constructs synthetic InnoDB pages for tests: index
// pages with compact records, FSP headers, inode pages and SDI blob
// fragments. It is the encode-side inverse of the page and record decoders
// and lives outside the shipped API on purpose.
package pagebuild

import (
	"encoding/binary"

	"github.com/vnt-dev/ibd-viewer/format"
)

// Col is one column slot of a record under construction. Data is the
// on-page bytes (for an overflowed column: local prefix plus the 20-byte
// pointer). Nullable columns count toward the null bitmap whether or not
// this record stores NULL in them.
type Col struct {
	Data     []byte
	Nullable bool
	Null     bool
	Var      bool
	Overflow bool
}

// Rec is one record to append to an index page, in key order.
type Rec struct {
	Cols    []Col
	Type    format.RecordType
	Deleted bool
	MinRec  bool
}

// Builder assembles one 16 KiB index or SDI page.
type Builder struct {
	buf     []byte
	heapTop int
	dataPos []int
	deleted []bool
	indexID uint64
	level   uint16
	nRecs   uint16
}

// NewIndex starts an index-family page. pt is PageTypeIndex or PageTypeSDI.
func NewIndex(pageNo uint32, pt format.PageType, indexID uint64, level uint16) *Builder {
	b := &Builder{
		buf:     make([]byte, format.PageSize),
		heapTop: format.RecordHeapOff,
		indexID: indexID,
		level:   level,
	}
	writeFil(b.buf, pageNo, pt)

	// System record headers; next_record fields are linked in Build.
	copy(b.buf[format.InfimumDataOff:], format.LitInfimum)
	copy(b.buf[format.SupremumDataOff:], format.LitSupremum)
	be16(b.buf, format.InfimumHeaderOff+1, 0<<3|uint16(format.RecInfimum))
	be16(b.buf, format.SupremumHeaderOff+1, 1<<3|uint16(format.RecSupremum))
	return b
}

// SetSiblings links the page into a leaf chain.
func (b *Builder) SetSiblings(prev, next uint32) {
	be32(b.buf, 8, prev)
	be32(b.buf, 12, next)
}

// Add appends one record to the heap and to the record list, returning its
// user-data position.
func (b *Builder) Add(r Rec) int {
	var prefix []byte

	// Variable-length array: one unit per non-null variable column,
	// prepended so that a backward scan meets the columns in order.
	for _, c := range r.Cols {
		if !c.Var || c.Null {
			continue
		}
		prefix = append(EncodeVarLen(len(c.Data), c.Overflow), prefix...)
	}

	// Null bitmap, byte 0 nearest the header.
	nullable := 0
	for _, c := range r.Cols {
		if c.Nullable {
			nullable++
		}
	}
	if nullable > 0 {
		bitmap := make([]byte, (nullable+7)/8)
		bit := 0
		for _, c := range r.Cols {
			if !c.Nullable {
				continue
			}
			if c.Null {
				bitmap[bit/8] |= 1 << (bit % 8)
			}
			bit++
		}
		// Byte 0 of the bitmap sits nearest the header, so the bytes go
		// down in reverse.
		for i := len(bitmap) - 1; i >= 0; i-- {
			prefix = append(prefix, bitmap[i])
		}
	}

	headerPos := b.heapTop + len(prefix)
	dataPos := headerPos + format.RecordHeaderSize

	copy(b.buf[b.heapTop:], prefix)

	heapNo := uint16(2 + len(b.dataPos))
	var b1 byte
	if r.Deleted {
		b1 |= 0x20
	}
	if r.MinRec {
		b1 |= 0x10
	}
	b.buf[headerPos] = b1
	be16(b.buf, headerPos+1, heapNo<<3|uint16(r.Type))

	pos := dataPos
	for _, c := range r.Cols {
		if c.Null {
			continue
		}
		copy(b.buf[pos:], c.Data)
		pos += len(c.Data)
	}

	b.heapTop = pos
	b.dataPos = append(b.dataPos, dataPos)
	b.deleted = append(b.deleted, r.Deleted)
	if !r.Deleted {
		b.nRecs++
	}
	return dataPos
}

// Build links the record list, writes the index header and the two-slot
// page directory, and returns the page bytes. Delete-marked records are
// left in the heap but not linked.
func (b *Builder) Build() []byte {
	var linked []int
	for i, pos := range b.dataPos {
		if !b.deleted[i] {
			linked = append(linked, pos)
		}
	}

	next := format.SupremumDataOff
	if len(linked) > 0 {
		next = linked[0]
	}
	be16(b.buf, format.InfimumHeaderOff+3, uint16(next-format.InfimumDataOff))
	for i, pos := range linked {
		target := format.SupremumDataOff
		if i+1 < len(linked) {
			target = linked[i+1]
		}
		be16(b.buf, pos-format.RecordHeaderSize+3, uint16(target-pos))
	}
	be16(b.buf, format.SupremumHeaderOff+3, 0)

	// Slot owners: infimum owns itself, supremum owns itself plus every
	// linked record, with n_owned capped at 8.
	b.buf[format.InfimumHeaderOff] |= 1
	owned := len(linked) + 1
	if owned > 8 {
		owned = 8
	}
	b.buf[format.SupremumHeaderOff] |= byte(owned)

	off := format.FilHeaderSize
	heapNum := uint16(2 + len(b.dataPos))
	be16(b.buf, off+0, 2)                       // slots
	be16(b.buf, off+2, uint16(b.heapTop))       // heap top
	be16(b.buf, off+4, heapNum|0x8000)          // heap count, compact flag
	be16(b.buf, off+12, uint16(format.DirNoDirection))
	be16(b.buf, off+16, b.nRecs)
	be16(b.buf, off+26, b.level)
	be64(b.buf, off+28, b.indexID)

	dirStart := format.PageSize - format.FilTrailerSize - 2*format.PageDirSlotSize
	be16(b.buf, dirStart, uint16(format.SupremumDataOff))
	be16(b.buf, dirStart+2, uint16(format.InfimumDataOff))
	return b.buf
}

// EncodeVarLen emits a variable-length prefix unit in ascending byte order:
// the 1-byte form for short non-overflowed lengths, otherwise the 2-byte
// form with the low bits first and the flag byte second.
func EncodeVarLen(length int, overflow bool) []byte {
	if length < 128 && !overflow {
		return []byte{byte(length)}
	}
	high := byte(0x80 | (length>>8)&0x3F)
	if overflow {
		high |= 0x40
	}
	return []byte{byte(length), high}
}

// DecodeVarLen is the scan-order inverse of EncodeVarLen, reading the unit
// backwards from its end the way the record prefix parser does.
func DecodeVarLen(unit []byte) (length int, overflow bool) {
	b := int(unit[len(unit)-1])
	if b&0x80 == 0 {
		return b, false
	}
	return int(unit[len(unit)-2]) | (b&0x3F)<<8, b&0x40 == 0x40
}

// Fsp builds a minimal FSP_HDR page: space id, size in pages, empty lists.
func Fsp(pageNo, spaceID, size uint32) []byte {
	buf := make([]byte, format.PageSize)
	writeFil(buf, pageNo, format.PageTypeFspHdr)
	be32(buf, 34, spaceID)
	off := format.FilHeaderSize
	be32(buf, off+0, spaceID)
	be32(buf, off+8, size)
	return buf
}

// SdiBlob builds one overflow-chain fragment. next is NullPageNo on the
// terminal fragment.
func SdiBlob(pageNo uint32, data []byte, next uint32) []byte {
	buf := make([]byte, format.PageSize)
	writeFil(buf, pageNo, format.PageTypeSdiBlob)
	off := format.FilHeaderSize
	be32(buf, off, uint32(len(data)))
	be32(buf, off+4, next)
	copy(buf[off+8:], data)
	return buf
}

// Raw builds an empty page of an arbitrary type.
func Raw(pageNo uint32, pt format.PageType) []byte {
	buf := make([]byte, format.PageSize)
	writeFil(buf, pageNo, pt)
	return buf
}

// OverflowPointer encodes the 20-byte external pointer trailing an
// overflowed column.
func OverflowPointer(spaceID, blobPage uint32, length uint64) []byte {
	buf := make([]byte, 20)
	be32(buf, 0, spaceID)
	be32(buf, 4, blobPage)
	be64(buf, 12, length)
	return buf
}

func writeFil(buf []byte, pageNo uint32, pt format.PageType) {
	be32(buf, 4, pageNo)
	be32(buf, 8, format.NullPageNo)
	be32(buf, 12, format.NullPageNo)
	be16(buf, 24, uint16(pt))
}

func be16(b []byte, off int, v uint16) { binary.BigEndian.PutUint16(b[off:], v) }
func be32(b []byte, off int, v uint32) { binary.BigEndian.PutUint32(b[off:], v) }
func be64(b []byte, off int, v uint64) { binary.BigEndian.PutUint64(b[off:], v) }
