// header.go - Compact record format header (5 bytes)
package record

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

// RecordHeader is the 5-byte prelude of every compact record. NextOffset is
// a signed relative offset: added to the absolute position just past this
// header it yields the next record's user-data start.
type RecordHeader struct {
	Deleted    bool
	MinRec     bool
	NumOwned   uint8
	HeapNumber uint16
	Type       format.RecordType
	NextOffset int
}

// ParseRecordHeader reads the header whose first byte is at p[off].
func ParseRecordHeader(p []byte, off int) (RecordHeader, error) {
	if off < 0 || off+format.RecordHeaderSize > len(p) {
		return RecordHeader{}, fmt.Errorf("record header at %d: %w", off, format.ErrBadLength)
	}
	b1 := p[off]
	b2, _ := format.Be16(p, off+1)
	next, _ := format.Be16(p, off+3)
	return RecordHeader{
		Deleted:    b1&0x20 != 0,
		MinRec:     b1&0x10 != 0,
		NumOwned:   b1 & 0x0F,
		HeapNumber: b2 >> 3,
		Type:       format.RecordType(b2 & 0x07),
		NextOffset: int(int16(next)),
	}, nil
}

func (h RecordHeader) String() string {
	return fmt.Sprintf("del:%v min:%v owned:%d heap:%d type:%s next:%d",
		h.Deleted, h.MinRec, h.NumOwned, h.HeapNumber, h.Type, h.NextOffset)
}
