// fseg.go - File segment header parsing
package page

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

// FsegHeader locates the inode entries of the index's two segments (leaf
// and non-leaf). Only meaningful on the root page; zero-filled elsewhere.
type FsegHeader struct {
	LeafSpaceID    uint32
	Leaf           FilePointer
	NonLeafSpaceID uint32
	NonLeaf        FilePointer
}

// ParseFsegHeader reads the 20-byte header at p[off].
func ParseFsegHeader(p []byte, off int) (FsegHeader, error) {
	if off < 0 || off+format.FsegHeaderSize > len(p) {
		return FsegHeader{}, fmt.Errorf("fseg header: %w", format.ErrBadLength)
	}
	lsp, _ := format.Be32(p, off+0)
	leaf, _ := ParseFilePointer(p, off+4)
	nsp, _ := format.Be32(p, off+10)
	nonLeaf, _ := ParseFilePointer(p, off+14)
	return FsegHeader{
		LeafSpaceID: lsp, Leaf: leaf,
		NonLeafSpaceID: nsp, NonLeaf: nonLeaf,
	}, nil
}

func (h FsegHeader) String() string {
	return fmt.Sprintf(
		"FsegHeader\n leaf:       space:%d {%s}\n non-leaf:   space:%d {%s}",
		h.LeafSpaceID, h.Leaf, h.NonLeafSpaceID, h.NonLeaf)
}
