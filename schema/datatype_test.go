package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataTypeWidths(t *testing.T) {
	tests := []struct {
		code    uint8
		charLen int
		want    int
	}{
		{2, 0, 1},  // tinyint
		{3, 0, 2},  // smallint
		{4, 0, 4},  // int
		{5, 0, 4},  // float
		{6, 0, 8},  // double
		{9, 0, 8},  // bigint
		{10, 0, 3}, // mediumint
		{13, 0, 4}, // timestamp
		{14, 0, 1}, // year
		{15, 0, 3}, // date
		{16, 50, 0}, // varchar: runtime length
		{17, 0, 1},  // bit
		{19, 0, 8},  // datetime
		{20, 0, 3},  // time
		{21, 9, 9},  // decimal carries its width
		{27, 0, 0},  // text: runtime length
		{29, 8, 8},  // char carries its width
	}
	for _, tt := range tests {
		dt := NewDataType(tt.code, tt.charLen)
		assert.Equal(t, tt.want, dt.Len(), "type code %d", tt.code)
	}
}

func TestDataTypeHiddenWidths(t *testing.T) {
	assert.Equal(t, 6, DataType{Code: TypeDbRowID}.Len())
	assert.Equal(t, 6, DataType{Code: TypeDbTrxID}.Len())
	assert.Equal(t, 7, DataType{Code: TypeDbRollPtr}.Len())
}

func TestDataTypeVariablePredicate(t *testing.T) {
	for _, code := range []TypeCode{TypeVarchar, TypeTinytext, TypeMediumtext, TypeLongtext, TypeText} {
		assert.True(t, DataType{Code: code}.IsVariable(), "%v", code)
		assert.True(t, DataType{Code: code}.IsString(), "%v", code)
	}
	assert.False(t, DataType{Code: TypeChar, CharLen: 8}.IsVariable())
	assert.True(t, DataType{Code: TypeChar, CharLen: 8}.IsString())
	assert.False(t, DataType{Code: TypeInt}.IsVariable())
	assert.False(t, DataType{Code: TypeInt}.IsString())
}

func TestDataTypeUnknownCode(t *testing.T) {
	dt := NewDataType(42, 11)
	assert.Equal(t, TypeUnknown, dt.Code)
	assert.Equal(t, uint8(42), dt.Raw)
	// An unknown column still occupies its declared width.
	assert.Equal(t, 11, dt.Len())
	assert.Equal(t, "UNKNOWN(42)", dt.String())
}

func TestSdiIndexShape(t *testing.T) {
	ix := SdiIndex(3)
	assert.Equal(t, SdiIndexID, ix.ID)
	assert.Equal(t, uint32(3), ix.RootPage)
	assert.True(t, ix.Primary)

	assert.Len(t, ix.LeafColumns, 7)
	assert.Equal(t, "sdi_type", ix.LeafColumns[0].Name)
	assert.Equal(t, "sdi_value", ix.LeafColumns[6].Name)
	assert.True(t, ix.LeafColumns[6].Type.IsVariable())

	assert.Len(t, ix.KeyColumns, 3)
	assert.Equal(t, "child_page_num", ix.KeyColumns[2].Name)

	// Fixed widths of the leaf layout ahead of the value column.
	want := []int{4, 8, 6, 7, 4, 4}
	for i, w := range want {
		assert.Equal(t, w, ix.LeafColumns[i].Type.Len(), "column %d", i)
	}

	assert.Equal(t, ix.LeafColumns, ix.ColumnsFor(0))
	assert.Equal(t, ix.KeyColumns, ix.ColumnsFor(1))
}
