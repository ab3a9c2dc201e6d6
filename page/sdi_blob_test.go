package page

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/internal/pagebuild"
)

func TestParseSdiBlob(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 1000)
	buf := pagebuild.SdiBlob(9, payload, 10)

	ip, err := NewInnerPage(9, buf)
	require.NoError(t, err)
	p, err := ParseSdiBlob(ip)
	require.NoError(t, err)

	assert.Equal(t, uint32(1000), p.PartLen)
	assert.Equal(t, payload, p.Data)
	assert.Equal(t, uint32(10), p.NextPage)
	assert.True(t, p.HasNext())
}

func TestParseSdiBlobTerminal(t *testing.T) {
	buf := pagebuild.SdiBlob(10, []byte("tail"), format.NullPageNo)
	ip, err := NewInnerPage(10, buf)
	require.NoError(t, err)
	p, err := ParseSdiBlob(ip)
	require.NoError(t, err)
	assert.False(t, p.HasNext())
	assert.Equal(t, []byte("tail"), p.Data)
}

func TestParseSdiBlobOverrun(t *testing.T) {
	buf := pagebuild.Raw(9, format.PageTypeSdiBlob)
	put32(buf, format.FilHeaderSize, 17000) // part_len past the trailer
	ip, err := NewInnerPage(9, buf)
	require.NoError(t, err)
	_, err = ParseSdiBlob(ip)
	assert.ErrorIs(t, err, format.ErrBadLength)
}
