// page.go - Dispatch from the FIL page type to the right decoder
package page

import (
	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/schema"
)

// Page is one decoded page variant. The set is closed: FspPage (FSP_HDR and
// XDES), InodePage, IndexPage, SdiPage, SdiBlobPage and UnknownPage.
type Page interface {
	PageType() format.PageType
	String() string
}

// UnknownPage wraps a page this decoder has no layout for. Its FIL envelope
// is still readable.
type UnknownPage struct {
	Inner *InnerPage
}

func (p *UnknownPage) PageType() format.PageType { return p.Inner.FIL.PageType }

func (p *UnknownPage) String() string { return p.Inner.String() }

// Classify decodes ip into its typed variant. Index pages resolve their
// record layout through info; every other variant is schema-free. A non-nil
// Page may come back together with an error (redundant format, unknown
// index id) and is then a header-level view.
func Classify(ip *InnerPage, info *schema.TableInfo) (Page, error) {
	switch ip.FIL.PageType {
	case format.PageTypeFspHdr, format.PageTypeXdes:
		p, err := ParseFsp(ip)
		if err != nil {
			return nil, err
		}
		return p, nil
	case format.PageTypeInode:
		p, err := ParseInode(ip)
		if err != nil {
			return nil, err
		}
		return p, nil
	case format.PageTypeIndex:
		p, err := ParseIndex(ip, info)
		if p == nil {
			return nil, err
		}
		return p, err
	case format.PageTypeSDI:
		p, err := ParseSdi(ip)
		if err != nil {
			return nil, err
		}
		return p, nil
	case format.PageTypeSdiBlob:
		p, err := ParseSdiBlob(ip)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return &UnknownPage{Inner: ip}, nil
}
