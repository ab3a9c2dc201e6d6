// overflow.go - External-storage pointer trailing an overflowed column
package record

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

// OverflowPointerSize is the trailing pointer fragment of a column whose
// value continues on blob pages.
const OverflowPointerSize = 20

// OverflowPointer locates the off-page remainder of a column value.
type OverflowPointer struct {
	SpaceID  uint32
	PageNo   uint32
	Reserved uint32
	Length   uint64
}

// ParseOverflowPointer decodes the 20-byte pointer.
func ParseOverflowPointer(b []byte) (OverflowPointer, error) {
	if len(b) != OverflowPointerSize {
		return OverflowPointer{}, fmt.Errorf("overflow pointer: %w", format.ErrBadLength)
	}
	space, _ := format.Be32(b, 0)
	pageNo, _ := format.Be32(b, 4)
	reserved, _ := format.Be32(b, 8)
	length, _ := format.Be64(b, 12)
	return OverflowPointer{SpaceID: space, PageNo: pageNo, Reserved: reserved, Length: length}, nil
}

func (p OverflowPointer) String() string {
	return fmt.Sprintf("space:%d page:%d len:%d", p.SpaceID, p.PageNo, p.Length)
}
