package pagebuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnt-dev/ibd-viewer/format"
)

func TestVarLenRoundTrip(t *testing.T) {
	cases := []struct {
		length   int
		overflow bool
	}{
		{0, false},
		{1, false},
		{2, false},
		{13, false},
		{127, false},
		{128, false},
		{255, false},
		{256, false},
		{788, false},
		{16383, false},
		{20, true},
		{788, true},
	}
	for _, c := range cases {
		unit := EncodeVarLen(c.length, c.overflow)
		length, overflow := DecodeVarLen(unit)
		assert.Equal(t, c.length, length, "length %d", c.length)
		assert.Equal(t, c.overflow, overflow, "length %d overflow", c.length)
		if c.length < 128 && !c.overflow {
			assert.Len(t, unit, 1)
		} else {
			assert.Len(t, unit, 2)
		}
	}
}

func TestEmptyIndexPageBytes(t *testing.T) {
	buf := NewIndex(4, format.PageTypeIndex, 66, 0).Build()
	require.Len(t, buf, format.PageSize)

	pt, _ := format.Be16(buf, 24)
	assert.Equal(t, uint16(format.PageTypeIndex), pt)

	// Record list: infimum links straight to supremum, supremum ends.
	infNext, _ := format.Be16(buf, format.InfimumHeaderOff+3)
	assert.Equal(t, uint16(13), infNext)
	supNext, _ := format.Be16(buf, format.SupremumHeaderOff+3)
	assert.Equal(t, uint16(0), supNext)

	// Two directory slots before the trailer: supremum then infimum.
	s0, _ := format.Be16(buf, format.PageSize-format.FilTrailerSize-4)
	s1, _ := format.Be16(buf, format.PageSize-format.FilTrailerSize-2)
	assert.Equal(t, uint16(format.SupremumDataOff), s0)
	assert.Equal(t, uint16(format.InfimumDataOff), s1)
}
