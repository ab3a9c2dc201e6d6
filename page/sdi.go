// sdi.go - SDI index pages
package page

import (
	"github.com/vnt-dev/ibd-viewer/schema"
)

// SdiPage is an index page whose record layout is the hard-coded SDI
// pseudo-schema instead of a dictionary-derived one. That is what breaks
// the cycle between "decoding records needs a schema" and "the schema is
// stored in records".
type SdiPage struct {
	*IndexPage
}

// ParseSdi decodes an SDI page.
func ParseSdi(ip *InnerPage) (*SdiPage, error) {
	idx, err := ParseIndexAs(ip, schema.SdiIndex(ip.PageNo))
	if err != nil {
		return nil, err
	}
	return &SdiPage{IndexPage: idx}, nil
}
