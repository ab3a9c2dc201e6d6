// pointers.go - Intra-tablespace link primitives (FLST nodes and pointers)
package page

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

const (
	FilePointerSize  = 6
	ListNodeSize     = 12
	ListBaseNodeSize = 16
)

// FilePointer addresses a byte position in the tablespace: page number plus
// offset within the page.
type FilePointer struct {
	PageNo uint32
	Offset uint16
}

// ParseFilePointer reads the 6-byte pointer at p[off].
func ParseFilePointer(p []byte, off int) (FilePointer, error) {
	if off < 0 || off+FilePointerSize > len(p) {
		return FilePointer{}, fmt.Errorf("file pointer: %w", format.ErrBadLength)
	}
	pageNo, _ := format.Be32(p, off)
	offset, _ := format.Be16(p, off+4)
	return FilePointer{PageNo: pageNo, Offset: offset}, nil
}

// IsNull reports the (0xFFFFFFFF, 0) sentinel.
func (fp FilePointer) IsNull() bool {
	return fp.PageNo == format.NullPageNo && fp.Offset == 0
}

func (fp FilePointer) String() string {
	if fp.IsNull() {
		return "NULL"
	}
	return fmt.Sprintf("page:%d off:%d", fp.PageNo, fp.Offset)
}

// ListNode is one FLST_NODE: the prev/next pointers of a doubly linked
// on-disk list.
type ListNode struct {
	Prev FilePointer
	Next FilePointer
}

func ParseListNode(p []byte, off int) (ListNode, error) {
	if off < 0 || off+ListNodeSize > len(p) {
		return ListNode{}, fmt.Errorf("list node: %w", format.ErrBadLength)
	}
	prev, _ := ParseFilePointer(p, off)
	next, _ := ParseFilePointer(p, off+FilePointerSize)
	return ListNode{Prev: prev, Next: next}, nil
}

func (n ListNode) String() string {
	return fmt.Sprintf("prev:{%s} next:{%s}", n.Prev, n.Next)
}

// ListBaseNode is one FLST_BASE_NODE: list length plus both endpoints.
type ListBaseNode struct {
	Len   uint32
	First FilePointer
	Last  FilePointer
}

func ParseListBaseNode(p []byte, off int) (ListBaseNode, error) {
	if off < 0 || off+ListBaseNodeSize > len(p) {
		return ListBaseNode{}, fmt.Errorf("list base node: %w", format.ErrBadLength)
	}
	length, _ := format.Be32(p, off)
	first, _ := ParseFilePointer(p, off+4)
	last, _ := ParseFilePointer(p, off+10)
	return ListBaseNode{Len: length, First: first, Last: last}, nil
}

func (n ListBaseNode) String() string {
	return fmt.Sprintf("len:%d first:{%s} last:{%s}", n.Len, n.First, n.Last)
}
