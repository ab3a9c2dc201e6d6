// sdi_blob.go - One fragment of an SDI overflow chain
package page

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

// SdiBlobPage carries one fragment of an oversized SDI value. NextPage is
// 0xFFFFFFFF on the terminal fragment.
type SdiBlobPage struct {
	Inner    *InnerPage
	PartLen  uint32
	NextPage uint32
	Data     []byte
}

// ParseSdiBlob decodes an SDI_BLOB page.
func ParseSdiBlob(ip *InnerPage) (*SdiBlobPage, error) {
	partLen, _ := format.Be32(ip.Data, format.FilHeaderSize)
	nextPage, _ := format.Be32(ip.Data, format.FilHeaderSize+4)
	dataOff := format.FilHeaderSize + 8
	if dataOff+int(partLen) > format.PageSize-format.FilTrailerSize {
		return nil, fmt.Errorf("page %d: blob part length %d: %w", ip.PageNo, partLen, format.ErrBadLength)
	}
	return &SdiBlobPage{
		Inner:    ip,
		PartLen:  partLen,
		NextPage: nextPage,
		Data:     ip.Data[dataOff : dataOff+int(partLen)],
	}, nil
}

// HasNext reports whether another fragment follows.
func (p *SdiBlobPage) HasNext() bool { return p.NextPage != format.NullPageNo }

func (p *SdiBlobPage) PageType() format.PageType { return p.Inner.FIL.PageType }

func (p *SdiBlobPage) String() string {
	next := "NULL"
	if p.HasNext() {
		next = fmt.Sprintf("%d", p.NextPage)
	}
	return fmt.Sprintf("SdiBlobPage\n part_len:   %d\n next_page:  %s", p.PartLen, next)
}
