// fsp.go - File-space header and extent descriptor (XDES) pages
package page

import (
	"fmt"
	"strings"

	"github.com/vnt-dev/ibd-viewer/format"
)

// FspHeader is the 112-byte file-space header. Only page 0 carries live
// values; on XDES pages the slot exists but is mostly zero.
type FspHeader struct {
	SpaceID       uint32
	Unused        uint32
	Size          uint32 // tablespace size in pages
	FreeLimit     uint32
	Flags         uint32
	FragNUsed     uint32
	Free          ListBaseNode
	FreeFrag      ListBaseNode
	FullFrag      ListBaseNode
	NextSegID     uint64
	SegInodesFull ListBaseNode
	SegInodesFree ListBaseNode
}

// ParseFspHeader reads the header at p[off].
func ParseFspHeader(p []byte, off int) (FspHeader, error) {
	if off < 0 || off+format.FspHeaderSize > len(p) {
		return FspHeader{}, fmt.Errorf("fsp header: %w", format.ErrBadLength)
	}
	space, _ := format.Be32(p, off+0)
	unused, _ := format.Be32(p, off+4)
	size, _ := format.Be32(p, off+8)
	freeLimit, _ := format.Be32(p, off+12)
	flags, _ := format.Be32(p, off+16)
	fragUsed, _ := format.Be32(p, off+20)
	free, _ := ParseListBaseNode(p, off+24)
	freeFrag, _ := ParseListBaseNode(p, off+40)
	fullFrag, _ := ParseListBaseNode(p, off+56)
	segID, _ := format.Be64(p, off+72)
	inodesFull, _ := ParseListBaseNode(p, off+80)
	inodesFree, _ := ParseListBaseNode(p, off+96)
	return FspHeader{
		SpaceID: space, Unused: unused, Size: size, FreeLimit: freeLimit,
		Flags: flags, FragNUsed: fragUsed,
		Free: free, FreeFrag: freeFrag, FullFrag: fullFrag,
		NextSegID: segID, SegInodesFull: inodesFull, SegInodesFree: inodesFree,
	}, nil
}

// XdesEntry is one 40-byte extent descriptor: owner segment, list linkage,
// allocation state and the 2-bits-per-page usage bitmap over 64 pages.
type XdesEntry struct {
	SegmentID uint64
	FlstNode  ListNode
	State     format.XdesState
	Bitmap    [16]byte
}

// ParseXdesEntry reads the descriptor at p[off].
func ParseXdesEntry(p []byte, off int) (XdesEntry, error) {
	if off < 0 || off+format.XdesEntrySize > len(p) {
		return XdesEntry{}, fmt.Errorf("xdes entry: %w", format.ErrBadLength)
	}
	segID, _ := format.Be64(p, off)
	node, _ := ParseListNode(p, off+8)
	state, _ := format.Be32(p, off+20)
	e := XdesEntry{SegmentID: segID, FlstNode: node, State: format.XdesState(state)}
	copy(e.Bitmap[:], p[off+24:off+40])
	return e, nil
}

// PageBits returns the (allocated, clean) bits for page i of the extent.
func (e XdesEntry) PageBits(i int) (bool, bool) {
	b := e.Bitmap[i/4] >> (uint(i%4) * 2)
	return b&0x01 != 0, b&0x02 != 0
}

// FspPage is a decoded FSP_HDR or XDES page. The number of descriptors
// iterated is the sum of the five base-node list lengths; the rest of the
// page is free space.
type FspPage struct {
	Inner   *InnerPage
	Header  FspHeader
	Entries []XdesEntry
}

// ParseFsp decodes an FSP_HDR or XDES page.
func ParseFsp(ip *InnerPage) (*FspPage, error) {
	hdr, err := ParseFspHeader(ip.Data, format.FilHeaderSize)
	if err != nil {
		return nil, err
	}
	n := int(hdr.Free.Len + hdr.FreeFrag.Len + hdr.FullFrag.Len +
		hdr.SegInodesFree.Len + hdr.SegInodesFull.Len)
	first := format.FilHeaderSize + format.FspHeaderSize
	if first+n*format.XdesEntrySize > format.PageSize-format.FilTrailerSize {
		return nil, fmt.Errorf("page %d: %d xdes entries: %w", ip.PageNo, n, format.ErrBadLength)
	}
	entries := make([]XdesEntry, 0, n)
	for i := 0; i < n; i++ {
		e, err := ParseXdesEntry(ip.Data, first+i*format.XdesEntrySize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return &FspPage{Inner: ip, Header: hdr, Entries: entries}, nil
}

func (p *FspPage) PageType() format.PageType { return p.Inner.FIL.PageType }

func (p *FspPage) String() string {
	var sb strings.Builder
	h := p.Header
	fmt.Fprintf(&sb, "FspHeader\n space_id:   %d\n size:       %d pages\n free_limit: %d\n flags:      0x%x\n frag_used:  %d\n", h.SpaceID, h.Size, h.FreeLimit, h.Flags, h.FragNUsed)
	fmt.Fprintf(&sb, " free:            %s\n free_frag:       %s\n full_frag:       %s\n", h.Free, h.FreeFrag, h.FullFrag)
	fmt.Fprintf(&sb, " next_seg_id:     %d\n seg_inodes_full: %s\n seg_inodes_free: %s\n", h.NextSegID, h.SegInodesFull, h.SegInodesFree)
	fmt.Fprintf(&sb, "xdes_entries: %d\n", len(p.Entries))
	for i, e := range p.Entries {
		fmt.Fprintf(&sb, " [%d] seg:%d state:%s %s bitmap:% x\n", i, e.SegmentID, e.State, e.FlstNode, e.Bitmap)
	}
	return strings.TrimRight(sb.String(), "\n")
}
