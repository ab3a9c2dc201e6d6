// datatype.go - Column data types as encoded in MySQL 8 SDI JSON
package schema

import "fmt"

// TypeCode is the numeric column type from the SDI `type` field. The hidden
// row columns have no on-disk code and use private values above 249.
type TypeCode uint8

const (
	TypeTinyint    TypeCode = 2
	TypeSmallint   TypeCode = 3
	TypeInt        TypeCode = 4
	TypeFloat      TypeCode = 5
	TypeDouble     TypeCode = 6
	TypeBigint     TypeCode = 9
	TypeMediumint  TypeCode = 10
	TypeTimestamp  TypeCode = 13
	TypeYear       TypeCode = 14
	TypeDate       TypeCode = 15
	TypeVarchar    TypeCode = 16
	TypeBit        TypeCode = 17
	TypeDatetime   TypeCode = 19
	TypeTime       TypeCode = 20
	TypeDecimal    TypeCode = 21
	TypeTinytext   TypeCode = 24
	TypeMediumtext TypeCode = 25
	TypeLongtext   TypeCode = 26
	TypeText       TypeCode = 27
	TypeChar       TypeCode = 29

	TypeDbRowID   TypeCode = 250
	TypeDbTrxID   TypeCode = 251
	TypeDbRollPtr TypeCode = 252
	TypeUnknown   TypeCode = 255
)

// DataType is a column type plus the width that Char and Decimal columns
// carry. For TypeUnknown, Raw keeps the unrecognized code and CharLen the
// declared width, so the column still occupies its bytes in a record.
type DataType struct {
	Code    TypeCode
	CharLen int
	Raw     uint8
}

// NewDataType maps an SDI type code to a DataType. Codes outside the closed
// set become TypeUnknown rather than an error.
func NewDataType(code uint8, charLen int) DataType {
	switch TypeCode(code) {
	case TypeTinyint, TypeSmallint, TypeInt, TypeFloat, TypeDouble,
		TypeBigint, TypeMediumint, TypeTimestamp, TypeYear, TypeDate,
		TypeVarchar, TypeBit, TypeDatetime, TypeTime, TypeDecimal,
		TypeTinytext, TypeMediumtext, TypeLongtext, TypeText, TypeChar:
		return DataType{Code: TypeCode(code), CharLen: charLen}
	}
	return DataType{Code: TypeUnknown, CharLen: charLen, Raw: code}
}

// Len is the fixed byte width of the type; 0 for variable-length types.
func (d DataType) Len() int {
	switch d.Code {
	case TypeTinyint, TypeYear, TypeBit:
		return 1
	case TypeSmallint:
		return 2
	case TypeMediumint, TypeDate, TypeTime:
		return 3
	case TypeInt, TypeFloat, TypeTimestamp:
		return 4
	case TypeDouble, TypeBigint, TypeDatetime:
		return 8
	case TypeDecimal, TypeChar:
		return d.CharLen
	case TypeDbRowID, TypeDbTrxID:
		return 6
	case TypeDbRollPtr:
		return 7
	case TypeUnknown:
		return d.CharLen
	}
	return 0
}

// IsVariable reports whether the stored length comes from the record's
// variable-length prefix instead of the type.
func (d DataType) IsVariable() bool {
	switch d.Code {
	case TypeVarchar, TypeTinytext, TypeMediumtext, TypeLongtext, TypeText:
		return true
	}
	return false
}

// IsString reports whether the column holds character data.
func (d DataType) IsString() bool {
	switch d.Code {
	case TypeVarchar, TypeTinytext, TypeMediumtext, TypeLongtext, TypeText, TypeChar:
		return true
	}
	return false
}

func (d DataType) String() string {
	switch d.Code {
	case TypeTinyint:
		return "TINYINT"
	case TypeSmallint:
		return "SMALLINT"
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeBigint:
		return "BIGINT"
	case TypeMediumint:
		return "MEDIUMINT"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeYear:
		return "YEAR"
	case TypeDate:
		return "DATE"
	case TypeVarchar:
		return "VARCHAR"
	case TypeBit:
		return "BIT"
	case TypeDatetime:
		return "DATETIME"
	case TypeTime:
		return "TIME"
	case TypeDecimal:
		return fmt.Sprintf("DECIMAL(%d)", d.CharLen)
	case TypeTinytext:
		return "TINYTEXT"
	case TypeMediumtext:
		return "MEDIUMTEXT"
	case TypeLongtext:
		return "LONGTEXT"
	case TypeText:
		return "TEXT"
	case TypeChar:
		return fmt.Sprintf("CHAR(%d)", d.CharLen)
	case TypeDbRowID:
		return "DB_ROW_ID"
	case TypeDbTrxID:
		return "DB_TRX_ID"
	case TypeDbRollPtr:
		return "DB_ROLL_PTR"
	}
	return fmt.Sprintf("UNKNOWN(%d)", d.Raw)
}
