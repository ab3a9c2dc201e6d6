// index_header.go - Index-specific header parsing within a page
package page

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

// IndexHeader is the 36-byte header following the FIL header on index and
// SDI pages. The row format flag lives in the top bit of PAGE_N_HEAP.
type IndexHeader struct {
	NumDirSlots           uint16
	HeapTop               uint16
	NumHeapRecs           uint16 // low 15 bits
	Format                format.PageFormat
	FirstGarbageOff       uint16
	GarbageSpace          uint16
	LastInsertPos         uint16
	Direction             format.PageDirection
	NumInsertsInDirection uint16
	NumUserRecs           uint16
	MaxTrxID              uint64
	PageLevel             uint16
	IndexID               uint64
}

// ParseIndexHeader reads the header starting at p[off].
func ParseIndexHeader(p []byte, off int) (IndexHeader, error) {
	if off < 0 || off+format.IndexHeaderSize > len(p) {
		return IndexHeader{}, fmt.Errorf("index header: %w", format.ErrBadLength)
	}
	nSlots, _ := format.Be16(p, off+0)
	heapTop, _ := format.Be16(p, off+2)
	flag, _ := format.Be16(p, off+4)
	firstGarbage, _ := format.Be16(p, off+6)
	garbage, _ := format.Be16(p, off+8)
	lastIns, _ := format.Be16(p, off+10)
	dir, _ := format.Be16(p, off+12)
	nDir, _ := format.Be16(p, off+14)
	nRecs, _ := format.Be16(p, off+16)
	maxTrx, _ := format.Be64(p, off+18)
	level, _ := format.Be16(p, off+26)
	indexID, _ := format.Be64(p, off+28)

	pf := format.FormatRedundant
	if flag&0x8000 != 0 {
		pf = format.FormatCompact
	}

	return IndexHeader{
		NumDirSlots:           nSlots,
		HeapTop:               heapTop,
		NumHeapRecs:           flag & 0x7FFF,
		Format:                pf,
		FirstGarbageOff:       firstGarbage,
		GarbageSpace:          garbage,
		LastInsertPos:         lastIns,
		Direction:             format.PageDirection(dir),
		NumInsertsInDirection: nDir,
		NumUserRecs:           nRecs,
		MaxTrxID:              maxTrx,
		PageLevel:             level,
		IndexID:               indexID,
	}, nil
}

func (h IndexHeader) String() string {
	return fmt.Sprintf(
		"IndexHeader\n slots:      %d\n heap_top:   %d\n heap_num:   %d\n format:     %s\n free:       %d\n garbage:    %d\n last_ins:   %d\n direction:  %s\n n_direction:%d\n n_recs:     %d\n max_trx_id: %d\n level:      %d\n index_id:   %d",
		h.NumDirSlots, h.HeapTop, h.NumHeapRecs, h.Format, h.FirstGarbageOff,
		h.GarbageSpace, h.LastInsertPos, h.Direction, h.NumInsertsInDirection,
		h.NumUserRecs, h.MaxTrxID, h.PageLevel, h.IndexID)
}
