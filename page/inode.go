// inode.go - Segment inode pages
package page

import (
	"fmt"
	"strings"

	"github.com/vnt-dev/ibd-viewer/format"
)

// InodeEntry is one 192-byte segment inode: the segment's extent lists plus
// the fragment array of individually allocated pages.
type InodeEntry struct {
	SegmentID   uint64
	NotFullUsed uint32
	Free        ListBaseNode
	NotFull     ListBaseNode
	Full        ListBaseNode
	Magic       uint32
	Fragments   [32]uint32
}

// ParseInodeEntry reads the entry at p[off].
func ParseInodeEntry(p []byte, off int) (InodeEntry, error) {
	if off < 0 || off+format.InodeEntrySize > len(p) {
		return InodeEntry{}, fmt.Errorf("inode entry: %w", format.ErrBadLength)
	}
	segID, _ := format.Be64(p, off)
	notFullUsed, _ := format.Be32(p, off+8)
	free, _ := ParseListBaseNode(p, off+12)
	notFull, _ := ParseListBaseNode(p, off+28)
	full, _ := ParseListBaseNode(p, off+44)
	magic, _ := format.Be32(p, off+60)
	e := InodeEntry{
		SegmentID: segID, NotFullUsed: notFullUsed,
		Free: free, NotFull: notFull, Full: full, Magic: magic,
	}
	for i := 0; i < 32; i++ {
		e.Fragments[i], _ = format.Be32(p, off+64+i*4)
	}
	return e, nil
}

// InUse reports whether this inode slot holds a live segment.
func (e InodeEntry) InUse() bool {
	return e.Magic == format.InodeMagic && e.SegmentID != 0
}

// InodePage is a decoded INODE page: the page's position in the inode page
// list plus its fixed 85 entry slots.
type InodePage struct {
	Inner    *InnerPage
	ListNode ListNode
	Entries  []InodeEntry
}

// ParseInode decodes an INODE page.
func ParseInode(ip *InnerPage) (*InodePage, error) {
	node, err := ParseListNode(ip.Data, format.FilHeaderSize)
	if err != nil {
		return nil, err
	}
	first := format.FilHeaderSize + format.InodeListNodeSize
	entries := make([]InodeEntry, 0, format.InodeEntriesMax)
	for i := 0; i < format.InodeEntriesMax; i++ {
		e, err := ParseInodeEntry(ip.Data, first+i*format.InodeEntrySize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return &InodePage{Inner: ip, ListNode: node, Entries: entries}, nil
}

func (p *InodePage) PageType() format.PageType { return p.Inner.FIL.PageType }

func (p *InodePage) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "InodePage\n list_node: %s\n", p.ListNode)
	for i, e := range p.Entries {
		if !e.InUse() {
			continue
		}
		fmt.Fprintf(&sb, " [%d] seg:%d not_full_used:%d free:{%s} not_full:{%s} full:{%s}\n",
			i, e.SegmentID, e.NotFullUsed, e.Free, e.NotFull, e.Full)
		frags := make([]uint32, 0, 32)
		for _, f := range e.Fragments {
			if f != format.NullPageNo {
				frags = append(frags, f)
			}
		}
		fmt.Fprintf(&sb, "     fragments: %v\n", frags)
	}
	return strings.TrimRight(sb.String(), "\n")
}
