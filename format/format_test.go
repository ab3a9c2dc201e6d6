package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigEndianReads(t *testing.T) {
	buf := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}

	v16, err := Be16(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)

	v32, err := Be32(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x56789ABC), v32)

	v64, err := Be64(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x123456789ABCDEF0), v64)
}

func TestBigEndianBounds(t *testing.T) {
	buf := make([]byte, 4)
	_, err := Be16(buf, 3)
	assert.Error(t, err)
	_, err = Be32(buf, 1)
	assert.Error(t, err)
	_, err = Be64(buf, 0)
	assert.Error(t, err)
	_, err = Be16(buf, -1)
	assert.Error(t, err)
}

func TestPageTypeNames(t *testing.T) {
	tests := []struct {
		code uint16
		name string
	}{
		{0, "ALLOCATED"},
		{3, "INODE"},
		{8, "FSP_HDR"},
		{9, "XDES"},
		{18, "SDI_BLOB"},
		{17853, "SDI"},
		{17855, "INDEX"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, PageType(tt.code).String())
		assert.True(t, PageType(tt.code).Known())
	}
	assert.False(t, PageType(1234).Known())
	assert.Equal(t, "UNKNOWN(1234)", PageType(1234).String())
}

func TestSystemRecordOffsets(t *testing.T) {
	// The fixed layout every index page shares.
	assert.Equal(t, 94, InfimumHeaderOff)
	assert.Equal(t, 99, InfimumDataOff)
	assert.Equal(t, 107, SupremumHeaderOff)
	assert.Equal(t, 112, SupremumDataOff)
	assert.Equal(t, 120, RecordHeapOff)
}
