// fil.go - FIL header and trailer parsing for InnoDB pages
package page

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

// FilHeader is the 38-byte prelude common to every page. Prev and Next are
// nil when the on-disk sibling is 0xFFFFFFFF.
type FilHeader struct {
	Checksum   uint32
	PageNumber uint32
	Prev       *uint32
	Next       *uint32
	LSN        uint64
	PageType   format.PageType
	FlushLSN   uint64
	SpaceID    uint32
}

// ParseFilHeader reads the header from the start of a full page buffer.
func ParseFilHeader(p []byte) (FilHeader, error) {
	if len(p) < format.FilHeaderSize {
		return FilHeader{}, fmt.Errorf("fil header: %w", format.ErrBadLength)
	}
	chk, _ := format.Be32(p, 0)
	pg, _ := format.Be32(p, 4)
	prev, _ := format.Be32(p, 8)
	next, _ := format.Be32(p, 12)
	lsn, _ := format.Be64(p, 16)
	pt, _ := format.Be16(p, 24)
	flush, _ := format.Be64(p, 26)
	space, _ := format.Be32(p, 34)
	var prevPtr, nextPtr *uint32
	if prev != format.NullPageNo {
		prevPtr = &prev
	}
	if next != format.NullPageNo {
		nextPtr = &next
	}
	return FilHeader{
		Checksum: chk, PageNumber: pg, Prev: prevPtr, Next: nextPtr,
		LSN: lsn, PageType: format.PageType(pt), FlushLSN: flush, SpaceID: space,
	}, nil
}

// FilTrailer is the 8-byte postlude. Low32LSN holds the low 32 bits of the
// page LSN; matching it against the header is the server's business, not
// this decoder's.
type FilTrailer struct {
	Checksum uint32
	Low32LSN uint32
}

// ParseFilTrailer reads the trailer from the end of a full page buffer.
func ParseFilTrailer(p []byte) (FilTrailer, error) {
	if len(p) < format.FilTrailerSize {
		return FilTrailer{}, fmt.Errorf("fil trailer: %w", format.ErrBadLength)
	}
	off := len(p) - format.FilTrailerSize
	chk, _ := format.Be32(p, off+0)
	lsn, _ := format.Be32(p, off+4)
	return FilTrailer{Checksum: chk, Low32LSN: lsn}, nil
}

func (h FilHeader) String() string {
	sibling := func(p *uint32) string {
		if p == nil {
			return "NULL"
		}
		return fmt.Sprintf("%d", *p)
	}
	return fmt.Sprintf(
		"FileHeader\n checksum:   0x%08x\n offset:     %d\n prev:       %s\n next:       %s\n lsn:        %d\n page_type:  %s (%d)\n flush_lsn:  %d\n space_id:   %d",
		h.Checksum, h.PageNumber, sibling(h.Prev), sibling(h.Next),
		h.LSN, h.PageType, uint16(h.PageType), h.FlushLSN, h.SpaceID)
}

func (t FilTrailer) String() string {
	return fmt.Sprintf("FileTrailer\n checksum:   0x%08x\n low32_lsn:  0x%08x", t.Checksum, t.Low32LSN)
}
