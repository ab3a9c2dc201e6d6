package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnt-dev/ibd-viewer/format"
)

func TestParseRecordHeader(t *testing.T) {
	// deleted, n_owned=4, heap_no=5, node pointer, next=-32
	buf := []byte{0x24, 0x00, 5<<3 | 0x01, 0xFF, 0xE0}
	h, err := ParseRecordHeader(buf, 0)
	require.NoError(t, err)
	assert.True(t, h.Deleted)
	assert.False(t, h.MinRec)
	assert.Equal(t, uint8(4), h.NumOwned)
	assert.Equal(t, uint16(5), h.HeapNumber)
	assert.Equal(t, format.RecNodePointer, h.Type)
	assert.Equal(t, -32, h.NextOffset)
}

func TestParseRecordHeaderMinRec(t *testing.T) {
	buf := []byte{0x10, 0x7F, 0xFB, 0x00, 0x0D}
	h, err := ParseRecordHeader(buf, 0)
	require.NoError(t, err)
	assert.False(t, h.Deleted)
	assert.True(t, h.MinRec)
	assert.Equal(t, uint16(0x7FFB>>3), h.HeapNumber)
	assert.Equal(t, format.RecSupremum, h.Type)
	assert.Equal(t, 13, h.NextOffset)
}

func TestParseRecordHeaderShort(t *testing.T) {
	_, err := ParseRecordHeader(make([]byte, 4), 0)
	assert.ErrorIs(t, err, format.ErrBadLength)
	_, err = ParseRecordHeader(make([]byte, 10), 8)
	assert.ErrorIs(t, err, format.ErrBadLength)
}

func TestParseOverflowPointer(t *testing.T) {
	buf := []byte{
		0x00, 0x00, 0x00, 0x07, // space
		0x00, 0x00, 0x00, 0x2A, // page
		0x00, 0x00, 0x00, 0x01, // reserved
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x50, 0x00, // len = 20480
	}
	ptr, err := ParseOverflowPointer(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), ptr.SpaceID)
	assert.Equal(t, uint32(42), ptr.PageNo)
	assert.Equal(t, uint64(20480), ptr.Length)

	_, err = ParseOverflowPointer(buf[:19])
	assert.ErrorIs(t, err, format.ErrBadLength)
}
