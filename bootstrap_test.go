package ibdviewer

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnt-dev/ibd-viewer/format"
	"github.com/vnt-dev/ibd-viewer/internal/pagebuild"
)

// mapSource serves pages from memory.
type mapSource map[uint32][]byte

func (m mapSource) ReadPage(pageNo uint32) ([]byte, error) {
	buf, ok := m[pageNo]
	if !ok {
		return nil, fmt.Errorf("read page %d: %w", pageNo, os.ErrNotExist)
	}
	return buf, nil
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func ddColumn(name string, typeCode uint8, hidden int, nullable bool, ordinal int) map[string]any {
	return map[string]any{
		"name":             name,
		"type":             typeCode,
		"is_nullable":      nullable,
		"hidden":           hidden,
		"char_length":      0,
		"ordinal_position": ordinal,
	}
}

// ddObjectJSON is the dictionary blob for table t(id INT PK, v INT) with
// clustered index id 66 rooted at page 4.
func ddObjectJSON(t *testing.T, sePrivateData string) []byte {
	t.Helper()
	const lenMax = uint64(0xFFFFFFFF)
	doc := map[string]any{
		"dd_object": map[string]any{
			"name": "t",
			"columns": []any{
				ddColumn("id", 4, 1, false, 1),
				ddColumn("v", 4, 1, false, 2),
				ddColumn("DB_TRX_ID", 0, 2, false, 3),
				ddColumn("DB_ROLL_PTR", 0, 2, false, 4),
			},
			"indexes": []any{
				map[string]any{
					"name":            "PRIMARY",
					"type":            1,
					"se_private_data": sePrivateData,
					"elements": []any{
						map[string]any{"length": 4, "column_opx": 0},
						map[string]any{"length": lenMax, "column_opx": 2},
						map[string]any{"length": lenMax, "column_opx": 3},
						map[string]any{"length": lenMax, "column_opx": 1},
					},
				},
			},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return raw
}

// sdiRecord builds one SDI leaf record. value carries the on-page bytes of
// sdi_value; for an overflowed value that is the 20-byte pointer.
func sdiRecord(sdiType uint32, value []byte, overflow bool) pagebuild.Rec {
	return pagebuild.Rec{Cols: []pagebuild.Col{
		{Data: be32(sdiType)},
		{Data: make([]byte, 8)},
		{Data: make([]byte, 6)},
		{Data: make([]byte, 7)},
		{Data: be32(0)},
		{Data: be32(uint32(len(value)))},
		{Data: value, Var: true, Overflow: overflow},
	}}
}

func sdiLeaf(pageNo uint32, recs ...pagebuild.Rec) *pagebuild.Builder {
	b := pagebuild.NewIndex(pageNo, format.PageTypeSDI, 1, 0)
	for _, r := range recs {
		b.Add(r)
	}
	return b
}

func assertBootstrappedInfo(t *testing.T, info *TableInfo) {
	t.Helper()
	assert.Equal(t, "t", info.Name)
	ix, ok := info.PrimaryIndex()
	require.True(t, ok)
	assert.Equal(t, uint64(66), ix.ID)
	assert.Equal(t, uint32(4), ix.RootPage)

	var leaf []string
	for _, c := range ix.LeafColumns {
		leaf = append(leaf, c.Name)
	}
	// The hidden transaction columns follow the primary key.
	assert.Equal(t, []string{"id", "DB_TRX_ID", "DB_ROLL_PTR", "v"}, leaf)

	var key []string
	for _, c := range ix.KeyColumns {
		key = append(key, c.Name)
	}
	assert.Equal(t, []string{"id", "child_page_num"}, key)
}

func TestReadTableInfoInlineValue(t *testing.T) {
	value := deflate(t, ddObjectJSON(t, "id=66;root=4;"))
	src := mapSource{
		3: sdiLeaf(3,
			sdiRecord(2, deflate(t, []byte(`{}`)), false), // tablespace SDI, skipped
			sdiRecord(1, value, false),
		).Build(),
	}
	info, err := ReadTableInfo(src, 3)
	require.NoError(t, err)
	assertBootstrappedInfo(t, info)
}

// Schema bootstrap across a node page, a leaf chain, and an overflow chain.
func TestReadTableInfoDescentAndOverflow(t *testing.T) {
	value := deflate(t, ddObjectJSON(t, "id=66;root=4;"))
	half := len(value) / 2

	root := pagebuild.NewIndex(3, format.PageTypeSDI, 1, 1)
	root.Add(pagebuild.Rec{Type: format.RecNodePointer, Cols: []pagebuild.Col{
		{Data: be32(1)},
		{Data: make([]byte, 8)},
		{Data: be32(5)},
	}})

	first := sdiLeaf(5, sdiRecord(2, deflate(t, []byte(`{}`)), false))
	first.SetSiblings(format.NullPageNo, 6)

	ptr := pagebuild.OverflowPointer(7, 8, uint64(len(value)))
	second := sdiLeaf(6, sdiRecord(1, ptr, true))
	second.SetSiblings(5, format.NullPageNo)

	src := mapSource{
		3: root.Build(),
		5: first.Build(),
		6: second.Build(),
		8: pagebuild.SdiBlob(8, value[:half], 9),
		9: pagebuild.SdiBlob(9, value[half:], format.NullPageNo),
	}
	info, err := ReadTableInfo(src, 3)
	require.NoError(t, err)
	assertBootstrappedInfo(t, info)
}

func TestReadTableInfoNoTableRecord(t *testing.T) {
	src := mapSource{
		3: sdiLeaf(3, sdiRecord(2, deflate(t, []byte(`{}`)), false)).Build(),
	}
	_, err := ReadTableInfo(src, 3)
	assert.ErrorIs(t, err, ErrNoTableSDI)
}

func TestReadTableInfoUnknownHiddenColumn(t *testing.T) {
	raw := ddObjectJSON(t, "id=66;root=4;")
	raw = bytes.ReplaceAll(raw, []byte("DB_ROLL_PTR"), []byte("DB_MYSTERY1"))
	src := mapSource{
		3: sdiLeaf(3, sdiRecord(1, deflate(t, raw), false)).Build(),
	}
	_, err := ReadTableInfo(src, 3)
	assert.ErrorIs(t, err, ErrUnknownHiddenColumn)
}

func TestReadTableInfoMissingRoot(t *testing.T) {
	src := mapSource{
		3: sdiLeaf(3, sdiRecord(1, deflate(t, ddObjectJSON(t, "id=66;")), false)).Build(),
	}
	_, err := ReadTableInfo(src, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "se_private_data")
}

func TestReadTableInfoBadZlib(t *testing.T) {
	src := mapSource{
		3: sdiLeaf(3, sdiRecord(1, []byte("not zlib at all"), false)).Build(),
	}
	_, err := ReadTableInfo(src, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inflate")
}
