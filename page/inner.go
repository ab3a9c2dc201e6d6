// inner.go - Base page structure (16KB page with FIL header/trailer)
package page

import (
	"fmt"

	"github.com/vnt-dev/ibd-viewer/format"
)

// InnerPage is the raw 16 KiB page with its FIL envelope decoded. All typed
// page variants borrow Data; nothing is copied out of it.
type InnerPage struct {
	PageNo  uint32
	FIL     FilHeader
	Trailer FilTrailer
	Data    []byte
}

// NewInnerPage wraps a full page buffer read as page pageNo.
func NewInnerPage(pageNo uint32, p []byte) (*InnerPage, error) {
	if len(p) != format.PageSize {
		return nil, fmt.Errorf("page %d: got %d bytes: %w", pageNo, len(p), format.ErrBadLength)
	}
	h, err := ParseFilHeader(p)
	if err != nil {
		return nil, err
	}
	t, err := ParseFilTrailer(p)
	if err != nil {
		return nil, err
	}
	return &InnerPage{PageNo: pageNo, FIL: h, Trailer: t, Data: p}, nil
}

func (ip *InnerPage) PageType() format.PageType { return ip.FIL.PageType }

func (ip *InnerPage) String() string {
	return fmt.Sprintf("%s\n%s", ip.FIL, ip.Trailer)
}
