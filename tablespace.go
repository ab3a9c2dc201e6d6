// tablespace.go - A whole .ibd file: page access plus the bootstrapped schema
package ibdviewer

import (
	"fmt"
	"sort"

	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/page"
	"github.com/vnt-dev/ibd-viewer/schema"
)

// Tablespace is one opened .ibd file. Info is the table schema bootstrapped
// from the file's own SDI index (or supplied externally); page decoding for
// index pages resolves record layouts through it.
type Tablespace struct {
	src  PageSource
	Info *schema.TableInfo
}

// Open opens path and bootstraps the table schema from its SDI index.
func Open(path string) (*Tablespace, error) {
	src, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	ts, err := NewTablespace(src)
	if err != nil {
		src.Close()
		return nil, err
	}
	return ts, nil
}

// NewTablespace bootstraps the schema through src.
func NewTablespace(src PageSource) (*Tablespace, error) {
	info, err := ReadTableInfo(src, SdiRootPage)
	if err != nil {
		return nil, err
	}
	return &Tablespace{src: src, Info: info}, nil
}

// NewTablespaceWithInfo skips the SDI bootstrap and uses an externally
// supplied schema, e.g. one parsed from a CREATE TABLE statement.
func NewTablespaceWithInfo(src PageSource, info *schema.TableInfo) *Tablespace {
	return &Tablespace{src: src, Info: info}
}

// InnerPage reads page pageNo and decodes its FIL envelope.
func (ts *Tablespace) InnerPage(pageNo uint32) (*page.InnerPage, error) {
	buf, err := ts.src.ReadPage(pageNo)
	if err != nil {
		return nil, err
	}
	return page.NewInnerPage(pageNo, buf)
}

// Page reads page pageNo and decodes it into its typed variant.
func (ts *Tablespace) Page(pageNo uint32) (page.Page, error) {
	ip, err := ts.InnerPage(pageNo)
	if err != nil {
		return nil, err
	}
	return page.Classify(ip, ts.Info)
}

// FspPage decodes page 0.
func (ts *Tablespace) FspPage() (*page.FspPage, error) {
	ip, err := ts.InnerPage(0)
	if err != nil {
		return nil, err
	}
	return page.ParseFsp(ip)
}

// IndexRoot is one index of the table and its root page.
type IndexRoot struct {
	Name     string
	RootPage uint32
}

// IndexRoots lists the table's indexes in name order.
func (ts *Tablespace) IndexRoots() []IndexRoot {
	if ts.Info == nil {
		return nil
	}
	roots := make([]IndexRoot, 0, len(ts.Info.Indexes))
	for _, ix := range ts.Info.Indexes {
		roots = append(roots, IndexRoot{Name: ix.Name, RootPage: ix.RootPage})
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })
	return roots
}

// ReadOverflowChain concatenates an overflow chain's fragments starting at
// startPage, in traversal order, until the terminal fragment.
func (ts *Tablespace) ReadOverflowChain(startPage uint32) ([]byte, error) {
	return readOverflowChain(ts.src, startPage)
}

// Close releases the underlying source if this tablespace owns one.
func (ts *Tablespace) Close() error {
	if c, ok := ts.src.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func readOverflowChain(src PageSource, startPage uint32) ([]byte, error) {
	var out []byte
	next := startPage
	for next != format.NullPageNo {
		buf, err := src.ReadPage(next)
		if err != nil {
			return nil, err
		}
		ip, err := page.NewInnerPage(next, buf)
		if err != nil {
			return nil, err
		}
		blob, err := page.ParseSdiBlob(ip)
		if err != nil {
			return nil, err
		}
		out = append(out, blob.Data...)
		if blob.NextPage == next {
			return nil, fmt.Errorf("overflow chain loops at page %d", next)
		}
		next = blob.NextPage
	}
	return out, nil
}
