package page

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/internal/pagebuild"
)

func put32(b []byte, off int, v uint32) { binary.BigEndian.PutUint32(b[off:], v) }
func put64(b []byte, off int, v uint64) { binary.BigEndian.PutUint64(b[off:], v) }

func buildFspPage(t *testing.T) []byte {
	t.Helper()
	buf := pagebuild.Fsp(0, 7, 8)
	off := format.FilHeaderSize
	put32(buf, off+12, 8)  // free limit
	put32(buf, off+20, 5)  // frag pages in use
	put32(buf, off+24, 1)  // free list len
	put32(buf, off+40, 1)  // free_frag list len
	put64(buf, off+72, 3)  // next segment id

	// Two extent descriptors after the 112-byte header.
	e0 := off + format.FspHeaderSize
	put64(buf, e0, 0)
	put32(buf, e0+20, uint32(format.XdesFree))
	e1 := e0 + format.XdesEntrySize
	put64(buf, e1, 2)
	put32(buf, e1+20, uint32(format.XdesFreeFrag))
	buf[e1+24] = 0x07 // pages 0 allocated+clean, page 1 allocated
	return buf
}

func TestParseFsp(t *testing.T) {
	ip, err := NewInnerPage(0, buildFspPage(t))
	require.NoError(t, err)
	p, err := ParseFsp(ip)
	require.NoError(t, err)

	assert.Equal(t, uint32(7), p.Header.SpaceID)
	assert.Equal(t, uint32(8), p.Header.Size)
	assert.Equal(t, uint32(8), p.Header.FreeLimit)
	assert.Equal(t, uint32(5), p.Header.FragNUsed)
	assert.Equal(t, uint64(3), p.Header.NextSegID)

	// Entry count is the sum of the five list lengths.
	require.Len(t, p.Entries, 2)
	assert.Equal(t, format.XdesFree, p.Entries[0].State)
	assert.Equal(t, format.XdesFreeFrag, p.Entries[1].State)
	assert.Equal(t, uint64(2), p.Entries[1].SegmentID)

	alloc, clean := p.Entries[1].PageBits(0)
	assert.True(t, alloc)
	assert.True(t, clean)
	alloc, clean = p.Entries[1].PageBits(1)
	assert.True(t, alloc)
	assert.False(t, clean)
	alloc, _ = p.Entries[1].PageBits(2)
	assert.False(t, alloc)
}

func TestParseFspEntryOverrun(t *testing.T) {
	buf := pagebuild.Fsp(0, 7, 8)
	put32(buf, format.FilHeaderSize+24, 100000)
	ip, err := NewInnerPage(0, buf)
	require.NoError(t, err)
	_, err = ParseFsp(ip)
	assert.ErrorIs(t, err, format.ErrBadLength)
}
