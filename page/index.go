// index.go - INDEX page parsing: header, system records, record list walk,
// page directory
package page

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/record"
	"github.com/vnt-dev/ibd-viewer/schema"
)

var (
	// ErrRedundantFormat marks a page in the pre-5.0 Redundant row format.
	// The page header view is still returned; records are not decoded.
	ErrRedundantFormat = errors.New("redundant row format not supported")

	// ErrUnknownIndexID marks an index page whose id is absent from the
	// bootstrapped table schema.
	ErrUnknownIndexID = errors.New("index id not in table schema")

	// ErrRecordList marks a page whose record list disagrees with its
	// record heap count.
	ErrRecordList = errors.New("record list does not match record heap")
)

// IndexPage is a decoded B+-tree page. UserRecords holds the records in
// list (logical key) order, walked from infimum; heap order is not
// reconstructed. Directory is in ascending byte order within the page, so
// Directory[0] is the supremum-owning slot.
type IndexPage struct {
	Inner       *InnerPage
	Index       schema.Index
	Hdr         IndexHeader
	Fseg        FsegHeader
	Infimum     record.Row
	Supremum    record.Row
	UserRecords []record.Row
	FreeStart   int
	FreeEnd     int
	Directory   []uint16
}

// ParseIndex decodes an index page, resolving its record layout through the
// table schema by index id. On ErrRedundantFormat or ErrUnknownIndexID the
// returned page still carries the header-level view.
func ParseIndex(ip *InnerPage, info *schema.TableInfo) (*IndexPage, error) {
	hdr, err := ParseIndexHeader(ip.Data, format.FilHeaderSize)
	if err != nil {
		return nil, err
	}
	if info != nil {
		if ix, ok := info.Indexes[hdr.IndexID]; ok {
			return ParseIndexAs(ip, ix)
		}
	}
	p := headerView(ip, hdr)
	return p, fmt.Errorf("page %d: index id %d: %w", ip.PageNo, hdr.IndexID, ErrUnknownIndexID)
}

// ParseIndexAs decodes an index page against an explicitly supplied index
// layout. The SDI bootstrap uses it with the hard-coded pseudo-schema.
func ParseIndexAs(ip *InnerPage, ix schema.Index) (*IndexPage, error) {
	hdr, err := ParseIndexHeader(ip.Data, format.FilHeaderSize)
	if err != nil {
		return nil, err
	}
	if hdr.Format != format.FormatCompact {
		p := headerView(ip, hdr)
		p.Index = ix
		return p, fmt.Errorf("page %d: %w", ip.PageNo, ErrRedundantFormat)
	}

	p := headerView(ip, hdr)
	p.Index = ix

	inf, err := systemRecord(ip, format.InfimumHeaderOff, format.LitInfimum)
	if err != nil {
		return p, err
	}
	sup, err := systemRecord(ip, format.SupremumHeaderOff, format.LitSupremum)
	if err != nil {
		return p, err
	}
	p.Infimum, p.Supremum = inf, sup

	num := int(hdr.NumHeapRecs) - 2
	if num < 0 {
		return p, fmt.Errorf("page %d: heap count %d: %w", ip.PageNo, hdr.NumHeapRecs, ErrRecordList)
	}
	columns := ix.ColumnsFor(hdr.PageLevel)
	rows := make([]record.Row, 0, num)

	// Follow the singly linked record list from infimum. Each next_record
	// is signed and relative to the end of the current record's header,
	// which is also the record's user-data start.
	next := format.InfimumDataOff + inf.Header().NextOffset
	for i := 0; i < num; i++ {
		if next == format.SupremumDataOff {
			return p, fmt.Errorf("page %d: %d of %d records linked: %w", ip.PageNo, i, num, ErrRecordList)
		}
		if next < format.PageDataOff || next >= format.PageSize-format.FilTrailerSize {
			return p, fmt.Errorf("page %d: record position %d out of bounds", ip.PageNo, next)
		}
		start, cols, err := record.ParseRowPrefix(columns, next, ip.Data)
		if err != nil {
			return p, fmt.Errorf("page %d: %w", ip.PageNo, err)
		}
		recLen := 0
		for _, cv := range cols {
			recLen += cv.Len
		}
		if next+recLen > format.PageSize-format.FilTrailerSize {
			return p, fmt.Errorf("page %d: record at %d overruns page", ip.PageNo, next)
		}
		row := record.NewRow(ip.PageNo, cols, next-start, ip.Data[start:next+recLen])
		rows = append(rows, row)
		next += row.Header().NextOffset
	}
	if next != format.SupremumDataOff {
		return p, fmt.Errorf("page %d: list continues past %d records: %w", ip.PageNo, num, ErrRecordList)
	}
	p.UserRecords = rows
	return p, nil
}

// headerView decodes everything that needs no record layout: the headers,
// free-space bounds and the page directory.
func headerView(ip *InnerPage, hdr IndexHeader) *IndexPage {
	fseg, _ := ParseFsegHeader(ip.Data, format.FilHeaderSize+format.IndexHeaderSize)

	slots := int(hdr.NumDirSlots)
	dirStart := format.PageSize - format.FilTrailerSize - slots*format.PageDirSlotSize
	var dir []uint16
	if dirStart >= format.PageDataOff {
		dir = make([]uint16, slots)
		for i := 0; i < slots; i++ {
			dir[i], _ = format.Be16(ip.Data, dirStart+i*format.PageDirSlotSize)
		}
	}

	return &IndexPage{
		Inner:     ip,
		Hdr:       hdr,
		Fseg:      fseg,
		FreeStart: int(hdr.HeapTop),
		FreeEnd:   dirStart,
		Directory: dir,
	}
}

// systemRecord wraps one of the 13-byte infimum/supremum records, checking
// its ASCII tag.
func systemRecord(ip *InnerPage, headerOff int, lit []byte) (record.Row, error) {
	dataOff := headerOff + format.RecordHeaderSize
	if !bytes.Equal(ip.Data[dataOff:dataOff+format.SystemRecordBytes], lit) {
		return record.Row{}, fmt.Errorf("page %d: %q literal missing at %d", ip.PageNo, lit, dataOff)
	}
	cols := []record.ColValue{{
		Type: schema.DataType{Code: schema.TypeChar, CharLen: format.SystemRecordBytes},
		Len:  format.SystemRecordBytes,
	}}
	buf := ip.Data[headerOff : dataOff+format.SystemRecordBytes]
	return record.NewRow(ip.PageNo, cols, format.RecordHeaderSize, buf), nil
}

func (p *IndexPage) PageType() format.PageType { return p.Inner.FIL.PageType }

func (p *IndexPage) IsLeaf() bool { return p.Hdr.PageLevel == 0 }

func (p *IndexPage) IsRoot() bool { return p.Inner.FIL.Prev == nil && p.Inner.FIL.Next == nil }

// UsedBytes is the occupied portion of the page: heap top plus trailer and
// directory, minus garbage.
func (p *IndexPage) UsedBytes() int {
	return int(p.Hdr.HeapTop) + format.FilTrailerSize +
		int(p.Hdr.NumDirSlots)*format.PageDirSlotSize - int(p.Hdr.GarbageSpace)
}

func (p *IndexPage) String() string {
	var sb strings.Builder
	sb.WriteString(p.Hdr.String())
	sb.WriteByte('\n')
	sb.WriteString(p.Fseg.String())
	sb.WriteByte('\n')
	if p.Infimum.Bytes() != nil {
		fmt.Fprintln(&sb, color.GreenString("rows:"))
		fmt.Fprintf(&sb, " infimum : %s\n", p.Infimum)
		fmt.Fprintf(&sb, " supremum: %s\n", p.Supremum)
		fmt.Fprintln(&sb, color.GreenString(" user_records:"))
		sb.WriteString("  columns:")
		for _, col := range p.Index.ColumnsFor(p.Hdr.PageLevel) {
			fmt.Fprintf(&sb, " %s", color.YellowString(col.Name))
		}
		sb.WriteByte('\n')
		for _, row := range p.UserRecords {
			fmt.Fprintf(&sb, "  %s\n", row)
		}
	}
	fmt.Fprintf(&sb, "free_space: [%d, %d)\n", p.FreeStart, p.FreeEnd)
	fmt.Fprintf(&sb, "page_directory: %v", p.Directory)
	return sb.String()
}
